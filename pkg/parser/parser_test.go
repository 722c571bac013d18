package parser

import (
	"os"
	"path/filepath"
	"testing"

	"community-resources-be/pkg/dayrange"
	"community-resources-be/pkg/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numberedFixture = `Healthcare Resources

1. Sunrise Dental Clinic
📍 100 W 63rd St, Chicago, IL 60629
📞 (773) 555-1000
🌐 www.example.org/sunrise
🗣 Languages: English, Spanish
🏥 Services: Dental cleanings, pediatric dentistry
⏰ Hours: Mon-Fri 9am-5pm

2. **Harbor Vision**
Address: 200 S State St, Chicago, IL 60604
Phone: 312-555-2000
Services: Eye exams
Hours: by appointment only
Parking behind the building

3. 📍 300 N Nowhere Ave, Chicago, IL 60640
📞 (773) 555-3000

4. Lakeview Counseling
`

func TestParse_NumberedBlocks(t *testing.T) {
	res := Parse(numberedFixture, resource.Healthcare)

	require.Len(t, res.Records, 3)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []resource.LineRange{{Start: 18, End: 19}}, res.SkippedLines)

	sunrise := res.Records[0]
	assert.Equal(t, "Sunrise Dental Clinic", sunrise.Name)
	assert.Equal(t, 1, sunrise.Number)
	assert.Equal(t, "100 W 63rd St, Chicago, IL 60629", sunrise.Address)
	assert.Equal(t, "60629", sunrise.ZipCode)
	assert.Equal(t, "7735551000", sunrise.PhoneDigits)
	assert.Equal(t, "https://www.example.org/sunrise", sunrise.Website)
	assert.Equal(t, []string{"english", "spanish"}, sunrise.Languages)
	assert.Equal(t, []string{"dental", "pediatric"}, sunrise.Services)
	assert.Equal(t, resource.LineRange{Start: 3, End: 9}, sunrise.SourceLines)
	require.NotNil(t, sunrise.Hours)
	assert.Equal(t, dayrange.MustResolve("Mon-Fri"), sunrise.Hours.OpenDays())

	harbor := res.Records[1]
	assert.Equal(t, "Harbor Vision", harbor.Name)
	assert.Equal(t, "60604", harbor.ZipCode)
	assert.Equal(t, []string{"vision"}, harbor.Services)
	assert.Nil(t, harbor.Hours, "unparseable hours stay unknown")
	assert.Equal(t, "by appointment only", harbor.HoursText)
	assert.Contains(t, harbor.RawText, "Parking behind the building")

	lakeview := res.Records[2]
	assert.Equal(t, "Lakeview Counseling", lakeview.Name)
	assert.True(t, lakeview.Partial)
	assert.Equal(t, []string{"mental-health"}, lakeview.Services, "services fall back to the name")
}

func TestParse_PartialRecords(t *testing.T) {
	tests := []struct {
		name    string
		block   string
		partial bool
	}{
		{"name only", "1. Lakeview Counseling\n", true},
		{"website only", "1. Lakeview Counseling\n🌐 www.lakeview.org\n", true},
		{"phone", "1. Lakeview Counseling\n📞 (773) 555-4000\n", false},
		{"address", "1. Lakeview Counseling\n📍 400 W Belmont Ave, Chicago, IL 60657\n", false},
		{"services", "1. Lakeview Counseling\nServices: counseling\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.block, resource.Healthcare)
			require.Len(t, res.Records, 1)
			assert.Equal(t, tt.partial, res.Records[0].Partial)
		})
	}
}

func TestParse_ParagraphBlocksWithoutMarkers(t *testing.T) {
	raw := "Westside Learning Hub\r\nAddress: 10 Main St, Chicago, IL 60612\r\nServices:\r\n- ESL\r\n- GED prep\r\n\r\n\r\n" +
		"Phone: 773-555-0000\r\nServices: tutoring\r\n\r\nNorth Reading Room\r\nServices: literacy"

	res := Parse(raw, resource.Education)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Westside Learning Hub", res.Records[0].Name)
	assert.Equal(t, []string{"esl", "ged"}, res.Records[0].Services)
	assert.Equal(t, "North Reading Room", res.Records[1].Name)
	assert.Equal(t, resource.LineRange{Start: 11, End: 12}, res.Records[1].SourceLines)
}

func TestParse_IDsAreStableAndUnique(t *testing.T) {
	raw := "1. Same Place\nServices: legal\n\n2. Same Place\nServices: legal\n\n3. Other Place\n"

	first := Parse(raw, resource.ResettlementLegalShelter)
	second := Parse(raw, resource.ResettlementLegalShelter)

	require.Len(t, first.Records, 3)
	ids := map[string]bool{}
	for i, r := range first.Records {
		assert.Equal(t, r.ID, second.Records[i].ID)
		assert.Regexp(t, `^rls-[0-9a-f]{10}(-\d+)?$`, r.ID)
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}
}

func TestParse_LocalResourceFiles(t *testing.T) {
	tests := []struct {
		category resource.Category
		records  int
		skipped  int
	}{
		{resource.Healthcare, 9, 1},
		{resource.Education, 4, 0},
		{resource.ResettlementLegalShelter, 4, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			raw, err := os.ReadFile(filepath.Join("..", "..", "resources", tt.category.FileName()))
			require.NoError(t, err)

			res := Parse(string(raw), tt.category)
			assert.Len(t, res.Records, tt.records)
			assert.Equal(t, tt.skipped, res.Skipped)
			for _, r := range res.Records {
				assert.NotEmpty(t, r.Name)
				assert.Equal(t, tt.category, r.Category)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line  string
		field field
		value string
	}{
		{"📍 1 Main St", fieldAddress, "1 Main St"},
		{"Location: 1 Main St", fieldAddress, "1 Main St"},
		{"PHONE: 555", fieldPhone, "555"},
		{"(773) 555-0101", fieldPhone, "(773) 555-0101"},
		{"https://example.org", fieldWebsite, "https://example.org"},
		{"🗣 Languages: Arabic", fieldLanguages, "Arabic"},
		{"🧰 Services: Legal aid", fieldServices, "Legal aid"},
		{"⏰ Mon-Fri 9-5", fieldHours, "Mon-Fri 9-5"},
		{"Chicago, IL 60629", fieldAddress, "Chicago, IL 60629"},
		{"🏥 Sunrise Clinic", fieldNone, ""},
		{"Free parking available", fieldNone, ""},
	}

	for _, tt := range tests {
		got, value := classify(cleanLine(tt.line))
		if got != tt.field || value != tt.value {
			t.Errorf("classify(%q) = (%v, %q), want (%v, %q)", tt.line, got, value, tt.field, tt.value)
		}
	}
}
