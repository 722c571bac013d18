package search

import (
	"regexp"
	"strings"

	"community-resources-be/pkg/dayrange"
	"community-resources-be/pkg/resource"
)

type Origin string

const (
	OriginExplicit Origin = "explicit"
	OriginDetected Origin = "detected"
)

// AppliedFilter reports one filter value and where it came from.
type AppliedFilter struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Origin Origin `json:"origin"`
}

// Detection is what a query contributed to the search.
type Detection struct {
	Effective Filters
	Applied   []AppliedFilter
	// Discarded holds detected values that lost to an explicit filter.
	Discarded []AppliedFilter
	// Candidates are unrecognized words that may be misspelled services.
	Candidates []string
	// UnknownZIP is a five digit number in the query that no record uses.
	UnknownZIP string
	// OtherCategory is set when the query names a service of another
	// category and none of the active one.
	OtherCategory resource.Category
}

var (
	zipTokenRe = regexp.MustCompile(`^(\d{5})(?:-\d{4})?$`)
	alphaRe    = regexp.MustCompile(`^[a-z]+$`)
)

var dayConnectors = map[string]struct{}{"to": {}, "through": {}, "thru": {}}

// Detect extracts ZIP, day and service constraints from free text and
// merges them with the explicit filters. Explicit values win field by field;
// a detected value for an explicitly set field is discarded. Fields are
// independent of each other.
func Detect(query string, explicit Filters, ds *resource.Dataset) Detection {
	vocab := resource.VocabularyFor(ds.Category)
	tokens := resource.Tokenize(query)

	var det Detection
	var zip, service string
	var days dayrange.Set

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if m := zipTokenRe.FindStringSubmatch(tok); m != nil {
			switch {
			case zip == "" && ds.HasZIP(m[1]):
				zip = m[1]
			case det.UnknownZIP == "" && !ds.HasZIP(m[1]):
				det.UnknownZIP = m[1]
			}
			continue
		}

		if set, width, ok := dayExpression(tokens[i:]); ok {
			days = days.Union(set)
			i += width - 1
			continue
		}

		if tag, width, ok := lookupPhrase(vocab, tokens[i:]); ok {
			if service == "" {
				service = tag
			}
			i += width - 1
			continue
		}

		if vocab.IsFiller(tok) {
			continue
		}
		if _, stop := resource.StopWords[tok]; stop {
			continue
		}
		if _, ok := resource.NormalizeLanguage(tok); ok {
			continue
		}
		if isNumeric(tok) {
			continue
		}

		det.Effective.Keywords = append(det.Effective.Keywords, tok)
		if other := otherCategory(ds.Category, tok); other != "" {
			if det.OtherCategory == "" {
				det.OtherCategory = other
			}
			continue
		}
		if len(tok) >= 4 && alphaRe.MatchString(tok) {
			det.Candidates = append(det.Candidates, tok)
		}
	}

	if service != "" {
		det.OtherCategory = ""
	}

	det.Effective.ZIP = det.merge("zip", explicit.ZIP, zip)
	det.Effective.Service = det.merge("service", explicit.Service, service)
	det.Effective.Days = days
	if !explicit.Days.IsEmpty() {
		det.Effective.Days = explicit.Days
		det.Applied = append(det.Applied, AppliedFilter{Field: "days", Value: explicit.Days.String(), Origin: OriginExplicit})
		if !days.IsEmpty() && days != explicit.Days {
			det.Discarded = append(det.Discarded, AppliedFilter{Field: "days", Value: days.String(), Origin: OriginDetected})
		}
	} else if !days.IsEmpty() {
		det.Applied = append(det.Applied, AppliedFilter{Field: "days", Value: days.String(), Origin: OriginDetected})
	}
	if explicit.Language != "" {
		det.Effective.Language = explicit.Language
		det.Applied = append(det.Applied, AppliedFilter{Field: "language", Value: explicit.Language, Origin: OriginExplicit})
	}
	return det
}

func (d *Detection) merge(field, explicit, detected string) string {
	if explicit != "" {
		d.Applied = append(d.Applied, AppliedFilter{Field: field, Value: explicit, Origin: OriginExplicit})
		if detected != "" && detected != explicit {
			d.Discarded = append(d.Discarded, AppliedFilter{Field: field, Value: detected, Origin: OriginDetected})
		}
		return explicit
	}
	if detected != "" {
		d.Applied = append(d.Applied, AppliedFilter{Field: field, Value: detected, Origin: OriginDetected})
	}
	return detected
}

// dayExpression recognizes a day word, a hyphenated range ("tue-thu") or a
// spelled-out range ("monday to friday") at the start of tokens. It returns
// the days and how many tokens were used.
func dayExpression(tokens []string) (dayrange.Set, int, bool) {
	tok := tokens[0]
	if len(tokens) >= 3 && dayrange.IsDayWord(tok) && dayrange.IsDayWord(tokens[2]) {
		if _, ok := dayConnectors[tokens[1]]; ok {
			if s, err := dayrange.Resolve(tok + " " + tokens[1] + " " + tokens[2]); err == nil {
				return s, 3, true
			}
		}
	}
	if dayrange.IsDayWord(tok) || strings.Contains(tok, "-") {
		if s, err := dayrange.Resolve(tok); err == nil && !s.IsEmpty() {
			return s, 1, true
		}
	}
	return 0, 0, false
}

// lookupPhrase tries the longest vocabulary phrase first.
func lookupPhrase(v *resource.Vocabulary, tokens []string) (string, int, bool) {
	for width := min(3, len(tokens)); width >= 1; width-- {
		if tag, ok := v.Lookup(strings.Join(tokens[:width], " ")); ok {
			return tag, width, true
		}
	}
	return "", 0, false
}

func otherCategory(active resource.Category, tok string) resource.Category {
	for _, c := range resource.Categories {
		if c == active {
			continue
		}
		if _, ok := resource.VocabularyFor(c).Lookup(tok); ok {
			return c
		}
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
