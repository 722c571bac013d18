package search

import (
	"strings"

	"community-resources-be/pkg/dayrange"
)

// Filters are the constraints applied to a search. Empty fields do not
// constrain.
type Filters struct {
	ZIP      string       `json:"zip,omitempty"`
	Days     dayrange.Set `json:"days"`
	Service  string       `json:"service,omitempty"`
	Language string       `json:"language,omitempty"`
	// Keywords are the leftover content words of the query. They rank
	// results, and only restrict them when nothing else does.
	Keywords []string `json:"keywords,omitempty"`
}

// Structured reports whether any field other than Keywords is set.
func (f Filters) Structured() bool {
	return f.ZIP != "" || !f.Days.IsEmpty() || f.Service != "" || f.Language != ""
}

// IsZero reports whether nothing at all constrains the search.
func (f Filters) IsZero() bool {
	return !f.Structured() && len(f.Keywords) == 0
}

// Describe renders the filters for display, e.g. "dental · 60629 · tue,wed".
func (f Filters) Describe() string {
	var parts []string
	if f.Service != "" {
		parts = append(parts, f.Service)
	}
	if f.ZIP != "" {
		parts = append(parts, f.ZIP)
	}
	if !f.Days.IsEmpty() {
		parts = append(parts, f.Days.String())
	}
	if f.Language != "" {
		parts = append(parts, f.Language)
	}
	return strings.Join(parts, " · ")
}

// IDSet is a set of record ids.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}
