package correction

import (
	"testing"

	"community-resources-be/pkg/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name      string
		category  resource.Category
		input     []string
		suggested string
		ok        bool
	}{
		{"One edit in a short word", resource.Healthcare, []string{"dentel"}, "dental", true},
		{"Two edits in a long word", resource.Healthcare, []string{"pedeatrik"}, "pediatric", true},
		{"Vision typo", resource.Healthcare, []string{"vison"}, "vision", true},
		{"Legal typo", resource.ResettlementLegalShelter, []string{"leagal"}, "legal", true},
		{"English typo", resource.Education, []string{"inglish"}, "english", true},
		{"Unrelated word", resource.Healthcare, []string{"bicycle"}, "", false},
		{"Exact vocabulary word", resource.Healthcare, []string{"dental"}, "", false},
		{"No candidates", resource.Healthcare, nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.input, resource.VocabularyFor(tt.category))
			require.Equal(t, tt.ok, ok, "suggestion %+v", got)
			if ok {
				assert.Equal(t, tt.suggested, got.Suggested)
				assert.Equal(t, tt.input[0], got.Original)
				assert.GreaterOrEqual(t, got.Score, minSimilarity)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	assert.Equal(t, "dental 60629", Substitute("dentel 60629", "dentel", "dental"))
	assert.Equal(t, "need dental near dentelville", Substitute("need Dentel near dentelville", "dentel", "dental"))
}

func TestReadAnswer(t *testing.T) {
	tests := []struct {
		input    string
		expected Answer
	}{
		{"yes", Accepted},
		{"  Yeah! ", Accepted},
		{"yes please", Accepted},
		{"OK.", Accepted},
		{"no", Declined},
		{"nope", Declined},
		{"vision 60608", Declined},
		{"", Declined},
	}
	for _, tt := range tests {
		if got := ReadAnswer(tt.input); got != tt.expected {
			t.Errorf("ReadAnswer(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}

	assert.True(t, IsExplicitNo("Not really"))
	assert.False(t, IsExplicitNo("vision 60608"))
}
