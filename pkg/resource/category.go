package resource

import (
	"fmt"
	"strings"
)

// Category is a top-level resource domain. Each category is backed by one
// source text file.
type Category string

const (
	Healthcare               Category = "healthcare"
	Education                Category = "education"
	ResettlementLegalShelter Category = "resettlement-legal-shelter"
)

// Categories lists every category in display order.
var Categories = []Category{Healthcare, Education, ResettlementLegalShelter}

type categoryInfo struct {
	display  string
	code     string
	fileName string
}

var categoryInfos = map[Category]categoryInfo{
	Healthcare:               {display: "Healthcare", code: "hc", fileName: "healthcare.txt"},
	Education:                {display: "Education", code: "ed", fileName: "education.txt"},
	ResettlementLegalShelter: {display: "Resettlement / Legal / Shelter", code: "rls", fileName: "ResettlementLegalShelterBasicNeeds.txt"},
}

// ParseCategory accepts the canonical value, the display name or a few
// loose spellings ("legal", "shelter").
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if key == string(c) || key == strings.ToLower(categoryInfos[c].display) {
			return c, nil
		}
	}
	switch key {
	case "health", "medical":
		return Healthcare, nil
	case "school", "classes":
		return Education, nil
	case "legal", "shelter", "resettlement", "basic-needs":
		return ResettlementLegalShelter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Valid() bool {
	_, ok := categoryInfos[c]
	return ok
}

// DisplayName is the human label ("Resettlement / Legal / Shelter").
func (c Category) DisplayName() string {
	return categoryInfos[c].display
}

// Code is the short prefix used in record ids.
func (c Category) Code() string {
	return categoryInfos[c].code
}

// FileName is the name of the category's source file, both remotely and in
// the local fallback directory.
func (c Category) FileName() string {
	return categoryInfos[c].fileName
}

// CategoryForID resolves the category encoded in a record id prefix.
func CategoryForID(id string) (Category, bool) {
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return "", false
	}
	for c, info := range categoryInfos {
		if info.code == prefix {
			return c, true
		}
	}
	return "", false
}
