package executor

import (
	"time"

	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
)

type Kind string

const (
	KindResults          Kind = "results"
	KindExhausted        Kind = "exhausted"
	KindCorrectionPrompt Kind = "correction_prompt"
	KindClarification    Kind = "clarification"
	KindNoPreviousQuery  Kind = "no_previous_query"
	KindEmpty            Kind = "empty"
)

// DatasetInfo tells the host where the searched records came from.
type DatasetInfo struct {
	Source        resource.Source
	FetchedAt     time.Time
	Records       int
	SkippedBlocks int
}

// Reply is the outcome of one turn.
type Reply struct {
	Kind     Kind
	Message  string
	Category resource.Category
	// Query is the text actually searched, after any accepted correction.
	Query string

	Results   []resource.Record
	HasMore   bool
	Remaining int

	Applied    []search.AppliedFilter
	Discarded  []search.AppliedFilter
	UnknownZIP string

	Suggestion        *correction.Suggestion
	SuggestedCategory resource.Category

	// TrustedLinks is set whenever a search came back empty.
	TrustedLinks []resource.TrustedLink
	Dataset      *DatasetInfo
}

// IDs lists the returned record ids.
func (r Reply) IDs() []string {
	ids := make([]string, len(r.Results))
	for i, rec := range r.Results {
		ids[i] = rec.ID
	}
	return ids
}

func datasetInfo(ds *resource.Dataset) *DatasetInfo {
	return &DatasetInfo{
		Source:        ds.Source,
		FetchedAt:     ds.FetchedAt,
		Records:       len(ds.Records),
		SkippedBlocks: ds.SkippedBlocks,
	}
}
