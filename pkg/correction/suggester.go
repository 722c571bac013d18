package correction

import (
	"regexp"
	"strings"

	"community-resources-be/pkg/resource"

	"github.com/antzucaro/matchr"
)

// minSimilarity is the Jaro-Winkler floor a suggestion must reach on top of
// the edit distance limit.
const minSimilarity = 0.80

// Suggestion proposes a vocabulary word for a likely misspelling.
type Suggestion struct {
	Original  string  `json:"original_term"`
	Suggested string  `json:"suggested_term"`
	Score     float64 `json:"score"`
}

// Suggest looks for the candidate closest to a vocabulary word. Words of up
// to five letters allow one edit, longer ones two; a word that sounds the
// same (Double Metaphone) is allowed one edit more. The best match has the
// highest Jaro-Winkler score; ties go to the earlier vocabulary word.
func Suggest(candidates []string, vocab *resource.Vocabulary) (Suggestion, bool) {
	var best Suggestion
	found := false
	words := vocab.Words()
	for _, cand := range candidates {
		cand = strings.ToLower(cand)
		if _, known := vocab.Lookup(cand); known {
			continue
		}
		for _, w := range words {
			score, ok := similar(cand, w)
			if !ok {
				continue
			}
			if !found || score > best.Score {
				best = Suggestion{Original: cand, Suggested: w, Score: score}
				found = true
			}
		}
	}
	return best, found
}

func similar(candidate, word string) (float64, bool) {
	if candidate == word {
		return 0, false
	}
	limit := 1
	if len(word) > 5 {
		limit = 2
	}
	if soundsAlike(candidate, word) {
		limit++
	}
	if matchr.Levenshtein(candidate, word) > limit {
		return 0, false
	}
	score := matchr.JaroWinkler(candidate, word, false)
	if score < minSimilarity {
		return 0, false
	}
	return score, true
}

func soundsAlike(a, b string) bool {
	ap, as := matchr.DoubleMetaphone(a)
	bp, bs := matchr.DoubleMetaphone(b)
	if ap == "" || bp == "" {
		return false
	}
	return ap == bp || (as != "" && as == bs) || ap == bs || as == bp
}

// Substitute replaces whole-word occurrences of original in query.
func Substitute(query, original, suggested string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(original) + `\b`)
	return re.ReplaceAllLiteralString(query, suggested)
}
