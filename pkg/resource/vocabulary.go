package resource

import (
	"sort"
	"strings"

	"community-resources-be/pkg/dayrange"

	"github.com/samber/lo"
)

// Term is one controlled tag and the words that map onto it.
type Term struct {
	Tag      string
	Synonyms []string
}

// Vocabulary is the controlled tag set of a category.
type Vocabulary struct {
	Category Category
	Terms    []Term
	Filler   []string

	lookup map[string]string
	filler map[string]struct{}
}

var serviceTerms = map[Category][]Term{
	Healthcare: {
		{Tag: "dental", Synonyms: []string{"dental", "dentist", "dentists", "teeth", "tooth", "oral"}},
		{Tag: "vision", Synonyms: []string{"vision", "eye", "eyes", "optometry", "glasses"}},
		{Tag: "pediatric", Synonyms: []string{"pediatric", "pediatrics", "children", "child", "kids", "infant", "baby"}},
		{Tag: "womens-health", Synonyms: []string{"women", "womens", "obgyn", "ob/gyn", "prenatal", "gynecology", "obstetrics", "midwifery"}},
		{Tag: "mental-health", Synonyms: []string{"mental", "behavioral", "counseling", "therapy", "therapist", "psychiatry", "psychiatric"}},
		{Tag: "primary-care", Synonyms: []string{"primary", "family medicine", "internal medicine", "physician", "doctor", "checkup"}},
		{Tag: "immunization", Synonyms: []string{"immunization", "immunizations", "vaccine", "vaccines", "vaccination", "shots"}},
		{Tag: "pharmacy", Synonyms: []string{"pharmacy", "prescription", "prescriptions", "medication"}},
		{Tag: "urgent-care", Synonyms: []string{"urgent", "walk-in", "emergency"}},
	},
	Education: {
		{Tag: "esl", Synonyms: []string{"esl", "english", "english classes"}},
		{Tag: "ged", Synonyms: []string{"ged", "hse", "high school equivalency", "diploma"}},
		{Tag: "citizenship", Synonyms: []string{"citizenship", "civics", "naturalization"}},
		{Tag: "literacy", Synonyms: []string{"literacy", "reading", "writing"}},
		{Tag: "tutoring", Synonyms: []string{"tutoring", "tutor", "homework"}},
		{Tag: "youth", Synonyms: []string{"youth", "after-school", "after school", "teens"}},
		{Tag: "job-training", Synonyms: []string{"job training", "vocational", "workforce", "computer"}},
	},
	ResettlementLegalShelter: {
		{Tag: "legal", Synonyms: []string{"legal", "lawyer", "attorney", "immigration", "asylum", "daca", "visa"}},
		{Tag: "shelter", Synonyms: []string{"shelter", "housing", "homeless", "emergency housing"}},
		{Tag: "resettlement", Synonyms: []string{"resettlement", "refugee", "refugees", "case management", "welcome center"}},
		{Tag: "benefits", Synonyms: []string{"benefits", "snap", "medicaid", "cash assistance", "public benefits"}},
		{Tag: "food", Synonyms: []string{"food", "pantry", "meals", "groceries"}},
		{Tag: "employment", Synonyms: []string{"employment", "job", "jobs", "job placement"}},
		{Tag: "clothing", Synonyms: []string{"clothing", "clothes", "furniture"}},
	},
}

var fillerWords = map[Category][]string{
	Healthcare:               {"clinic", "clinics", "center", "centers", "care", "health", "healthcare", "medical"},
	Education:                {"program", "programs", "class", "classes", "course", "courses", "school", "lessons"},
	ResettlementLegalShelter: {"help", "service", "services", "assistance", "office", "agency", "support"},
}

// StopWords are dropped from every query before detection.
var StopWords = lo.SliceToMap([]string{
	"a", "an", "the", "i", "im", "me", "my", "we", "our", "need", "needs", "want", "looking", "look",
	"find", "for", "in", "on", "at", "near", "nearby", "around", "with", "and", "or", "to", "of",
	"is", "are", "any", "some", "please", "show", "where", "can", "get", "open", "that", "who",
	"there", "what", "which", "do", "does", "you", "have", "has", "zip", "code", "area", "free",
	"hi", "hello", "thanks", "thank", "days", "day", "by", "from", "it", "be", "help",
}, func(w string) (string, struct{}) { return w, struct{}{} })

// Languages is the shared language vocabulary.
var Languages = []string{
	"english", "spanish", "arabic", "french", "polish", "mandarin", "cantonese", "urdu", "hindi",
	"ukrainian", "swahili", "tigrinya", "dari", "pashto", "farsi", "korean", "vietnamese", "russian",
	"somali", "yoruba", "tamil", "kannada", "taiwanese", "portuguese", "burmese", "nepali",
}

var languageAliases = map[string]string{
	"chinese": "mandarin", "persian": "farsi", "espanol": "spanish", "español": "spanish",
	"arabic-speaking": "arabic", "asl": "english",
}

var vocabularies = func() map[Category]*Vocabulary {
	out := make(map[Category]*Vocabulary, len(serviceTerms))
	for c, terms := range serviceTerms {
		v := &Vocabulary{
			Category: c,
			Terms:    terms,
			Filler:   fillerWords[c],
			lookup:   make(map[string]string),
			filler:   lo.SliceToMap(fillerWords[c], func(w string) (string, struct{}) { return w, struct{}{} }),
		}
		for _, t := range terms {
			v.lookup[t.Tag] = t.Tag
			for _, s := range t.Synonyms {
				v.lookup[s] = t.Tag
			}
		}
		out[c] = v
	}
	return out
}()

// VocabularyFor returns the controlled vocabulary of c.
func VocabularyFor(c Category) *Vocabulary {
	return vocabularies[c]
}

// Lookup maps a lowercase word or phrase to its tag. A regular plural of a
// vocabulary word ("shelters", "therapies") maps to the same tag.
func (v *Vocabulary) Lookup(word string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if tag, ok := v.lookup[w]; ok {
		return tag, true
	}
	for _, s := range singulars(w) {
		if tag, ok := v.lookup[s]; ok {
			return tag, true
		}
	}
	return "", false
}

func singulars(w string) []string {
	if len(w) <= 3 || !strings.HasSuffix(w, "s") || strings.HasSuffix(w, "ss") {
		return nil
	}
	var out []string
	if strings.HasSuffix(w, "ies") {
		out = append(out, strings.TrimSuffix(w, "ies")+"y")
	}
	if strings.HasSuffix(w, "es") {
		out = append(out, strings.TrimSuffix(w, "es"))
	}
	return append(out, strings.TrimSuffix(w, "s"))
}

// IsFiller reports whether word is a category filler word such as "clinic".
func (v *Vocabulary) IsFiller(word string) bool {
	_, ok := v.filler[word]
	return ok
}

// Tags lists the tags in vocabulary order.
func (v *Vocabulary) Tags() []string {
	return lo.Map(v.Terms, func(t Term, _ int) string { return t.Tag })
}

// Words lists every single-word tag and synonym, in vocabulary order.
// These are the targets for spelling suggestions.
func (v *Vocabulary) Words() []string {
	var out []string
	for _, t := range v.Terms {
		for _, w := range append([]string{t.Tag}, t.Synonyms...) {
			if !strings.ContainsAny(w, " -/") {
				out = append(out, w)
			}
		}
	}
	return lo.Uniq(out)
}

// ExtractTags scans free text for vocabulary words and phrases and returns
// the matching tags in vocabulary order.
func (v *Vocabulary) ExtractTags(text string) []string {
	tokens := Tokenize(text)
	found := make(map[string]struct{})
	for i, tok := range tokens {
		if tag, ok := v.Lookup(tok); ok {
			found[tag] = struct{}{}
		}
		if i+1 < len(tokens) {
			if tag, ok := v.Lookup(tok + " " + tokens[i+1]); ok {
				found[tag] = struct{}{}
			}
		}
		if i+2 < len(tokens) {
			if tag, ok := v.Lookup(tok + " " + tokens[i+1] + " " + tokens[i+2]); ok {
				found[tag] = struct{}{}
			}
		}
	}
	return lo.Filter(v.Tags(), func(tag string, _ int) bool {
		_, ok := found[tag]
		return ok
	})
}

// NormalizeLanguage maps a language name onto the shared vocabulary.
func NormalizeLanguage(s string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := languageAliases[w]; ok {
		return alias, true
	}
	if lo.Contains(Languages, w) {
		return w, true
	}
	return "", false
}

// ExtractLanguages returns the known languages named in text, in vocabulary order.
func ExtractLanguages(text string) []string {
	found := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if lang, ok := NormalizeLanguage(tok); ok {
			found[lang] = struct{}{}
		}
	}
	return lo.Filter(Languages, func(l string, _ int) bool {
		_, ok := found[l]
		return ok
	})
}

// Tokenize lowercases text and splits it into word tokens. Hyphens and
// slashes inside words are kept ("walk-in", "ob/gyn").
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '/', r == '\'':
			return false
		case r > 127:
			return !isLetter(r)
		}
		return true
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-/'")
		f = strings.ReplaceAll(f, "'", "")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isLetter(r rune) bool {
	return strings.ContainsRune("áéíóúñüçàèâêîôûäöëïœæ", r)
}

// FilterOptions lists the values present in a dataset, for building filter
// pickers.
type FilterOptions struct {
	Category  Category `json:"category"`
	ZipCodes  []string `json:"zip_codes"`
	Languages []string `json:"languages"`
	Services  []string `json:"services"`
	OpenDays  []string `json:"open_days"`
}

// Options collects the distinct filterable values of the dataset.
func (d *Dataset) Options() FilterOptions {
	var days dayrange.Set
	var zips, langs, services []string
	for _, r := range d.Records {
		if r.ZipCode != "" {
			zips = append(zips, r.ZipCode)
		}
		langs = append(langs, r.Languages...)
		services = append(services, r.Services...)
		if open, ok := r.OpenDays(); ok {
			days = days.Union(open)
		}
	}
	zips = lo.Uniq(zips)
	sort.Strings(zips)
	return FilterOptions{
		Category:  d.Category,
		ZipCodes:  lo.Ternary(zips == nil, []string{}, zips),
		Languages: lo.Filter(Languages, func(l string, _ int) bool { return lo.Contains(langs, l) }),
		Services:  lo.Filter(VocabularyFor(d.Category).Tags(), func(s string, _ int) bool { return lo.Contains(services, s) }),
		OpenDays:  lo.Ternary(days.IsEmpty(), []string{}, days.Strings()),
	}
}
