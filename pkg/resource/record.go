package resource

import (
	"strings"
	"time"

	"community-resources-be/pkg/dayrange"
)

// LineRange is the 1-based inclusive span of a block in its source file.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Record is one verified service entry parsed from a category file.
type Record struct {
	ID          string         `json:"id"`
	Category    Category       `json:"category"`
	Number      int            `json:"number,omitempty"`
	Name        string         `json:"name"`
	Address     string         `json:"address,omitempty"`
	ZipCode     string         `json:"zip_code,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	PhoneDigits string         `json:"phone_digits,omitempty"`
	Website     string         `json:"website,omitempty"`
	Languages   []string       `json:"languages"`
	Services    []string       `json:"services"`
	Hours       dayrange.Hours `json:"hours"`
	HoursText   string         `json:"hours_text,omitempty"`
	RawText     string         `json:"raw_text"`
	SourceLines LineRange      `json:"source_lines"`
	Partial     bool           `json:"partial,omitempty"`
}

// HasService reports whether tag is one of the record's service tags.
func (r *Record) HasService(tag string) bool {
	for _, s := range r.Services {
		if s == tag {
			return true
		}
	}
	return false
}

// SpeaksLanguage reports whether lang is one of the record's languages.
func (r *Record) SpeaksLanguage(lang string) bool {
	for _, l := range r.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// OpenDays returns the days the record is known to be open. The second
// value is false when the record has no usable hours.
func (r *Record) OpenDays() (dayrange.Set, bool) {
	if r.Hours == nil {
		return 0, false
	}
	return r.Hours.OpenDays(), true
}

// SearchText is the lowercase text keyword matching runs against.
func (r *Record) SearchText() string {
	parts := []string{r.Name, r.Address, strings.Join(r.Services, " "), strings.Join(r.Languages, " "), r.RawText}
	return strings.ToLower(strings.Join(parts, " "))
}

// Source tells where a dataset's text came from.
type Source string

const (
	SourceRemote        Source = "remote"
	SourceCache         Source = "cache"
	SourceLocalFallback Source = "local-fallback"
	SourceStaleCache    Source = "stale-cache"
)

// Dataset is the parsed, ordered content of one category. A Dataset is
// never mutated after it is built; refreshes swap in a new value.
type Dataset struct {
	Category      Category  `json:"category"`
	Records       []Record  `json:"records"`
	FetchedAt     time.Time `json:"fetched_at"`
	Source        Source    `json:"source"`
	SourceHash    string    `json:"source_hash"`
	SkippedBlocks int       `json:"skipped_blocks"`

	byID map[string]int
	zips map[string]struct{}
}

// NewDataset builds a dataset and its lookup indexes.
func NewDataset(category Category, records []Record, fetchedAt time.Time, source Source, sourceHash string, skipped int) *Dataset {
	d := &Dataset{
		Category:      category,
		Records:       records,
		FetchedAt:     fetchedAt,
		Source:        source,
		SourceHash:    sourceHash,
		SkippedBlocks: skipped,
	}
	d.index()
	return d
}

// Reindex rebuilds lookup indexes after the dataset was decoded from JSON.
func (d *Dataset) Reindex() {
	d.index()
}

func (d *Dataset) index() {
	d.byID = make(map[string]int, len(d.Records))
	d.zips = make(map[string]struct{})
	for i, r := range d.Records {
		d.byID[r.ID] = i
		if r.ZipCode != "" {
			d.zips[r.ZipCode] = struct{}{}
		}
	}
}

// Record looks up a record by id.
func (d *Dataset) Record(id string) (*Record, bool) {
	i, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return &d.Records[i], true
}

// Contains reports whether id belongs to this dataset.
func (d *Dataset) Contains(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// HasZIP reports whether any record is located in zip.
func (d *Dataset) HasZIP(zip string) bool {
	_, ok := d.zips[zip]
	return ok
}

// WithSource returns a shallow copy tagged with another source and fetch time.
func (d *Dataset) WithSource(source Source, fetchedAt time.Time) *Dataset {
	return NewDataset(d.Category, d.Records, fetchedAt, source, d.SourceHash, d.SkippedBlocks)
}
