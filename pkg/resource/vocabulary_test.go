package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_ExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		text     string
		expected []string
	}{
		{"Synonym maps to tag", Healthcare, "Dentist and eye exams", []string{"dental", "vision"}},
		{"Vocabulary order not text order", Healthcare, "vaccines, teeth cleaning", []string{"dental", "immunization"}},
		{"Multi word phrase", ResettlementLegalShelter, "Case management and emergency housing", []string{"shelter", "resettlement"}},
		{"Education tags are lowercase", Education, "ESL, GED prep", []string{"esl", "ged"}},
		{"Hyphenated word", Healthcare, "Walk-in appointments", []string{"urgent-care"}},
		{"No match", Education, "Soccer league", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VocabularyFor(tt.category).ExtractTags(tt.text)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVocabulary_LookupAndFiller(t *testing.T) {
	v := VocabularyFor(Healthcare)
	tag, ok := v.Lookup("Teeth")
	require.True(t, ok)
	assert.Equal(t, "dental", tag)
	assert.True(t, v.IsFiller("clinic"))
	assert.False(t, VocabularyFor(Education).IsFiller("clinic"))
	assert.Contains(t, v.Words(), "dental")
	assert.NotContains(t, v.Words(), "walk-in")
}

func TestVocabulary_LookupPlurals(t *testing.T) {
	tests := []struct {
		category Category
		word     string
		tag      string
		ok       bool
	}{
		{ResettlementLegalShelter, "shelters", "shelter", true},
		{ResettlementLegalShelter, "lawyers", "legal", true},
		{Healthcare, "doctors", "primary-care", true},
		{Healthcare, "therapies", "mental-health", true},
		{Education, "tutors", "tutoring", true},
		{Education, "classes", "", false},
		{Healthcare, "dentels", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			tag, ok := VocabularyFor(tt.category).Lookup(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tag, tag)
		})
	}

	assert.Equal(t, []string{"shelter", "employment"}, VocabularyFor(ResettlementLegalShelter).ExtractTags("Shelters, jobs"))
}

func TestExtractLanguages(t *testing.T) {
	got := ExtractLanguages("Spanish, English & Chinese (Mandarin)")
	assert.Equal(t, []string{"english", "spanish", "mandarin"}, got)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Resettlement / Legal / Shelter")
	require.NoError(t, err)
	assert.Equal(t, ResettlementLegalShelter, c)

	c, err = ParseCategory(" HEALTHCARE ")
	require.NoError(t, err)
	assert.Equal(t, Healthcare, c)

	_, err = ParseCategory("sports")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategoryForID(t *testing.T) {
	c, ok := CategoryForID("rls-0a1b2c3d4e")
	require.True(t, ok)
	assert.Equal(t, ResettlementLegalShelter, c)

	_, ok = CategoryForID("zz-123")
	assert.False(t, ok)
}

func TestDataset_Options(t *testing.T) {
	records := []Record{
		{ID: "hc-1", Name: "A", ZipCode: "60629", Languages: []string{"spanish"}, Services: []string{"dental"}},
		{ID: "hc-2", Name: "B", ZipCode: "60608", Languages: []string{"english", "spanish"}, Services: []string{"vision", "dental"}},
		{ID: "hc-3", Name: "C"},
	}
	d := NewDataset(Healthcare, records, time.Now(), SourceRemote, "h", 0)

	opts := d.Options()
	assert.Equal(t, []string{"60608", "60629"}, opts.ZipCodes)
	assert.Equal(t, []string{"english", "spanish"}, opts.Languages)
	assert.Equal(t, []string{"dental", "vision"}, opts.Services)
	assert.Empty(t, opts.OpenDays)

	assert.True(t, d.HasZIP("60629"))
	assert.False(t, d.HasZIP("60637"))
	r, ok := d.Record("hc-2")
	require.True(t, ok)
	assert.Equal(t, "B", r.Name)
}

func TestDataUnavailableError(t *testing.T) {
	err := &DataUnavailableError{Category: Education, Cause: assert.AnError}
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, assert.AnError)

	var fe error = &InvalidFilterError{Field: "zip", Value: "6062a", Reason: "must be 5 digits"}
	assert.ErrorIs(t, fe, ErrInvalidFilter)
}
