package correction

import "strings"

var affirmatives = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "yup": {}, "sure": {}, "ok": {}, "okay": {},
	"correct": {}, "right": {}, "yes please": {}, "si": {}, "sí": {}, "that's right": {},
	"thats right": {}, "of course": {}, "exactly": {},
}

var negatives = map[string]struct{}{
	"no": {}, "n": {}, "nope": {}, "nah": {}, "not really": {}, "wrong": {}, "no thanks": {},
}

// Answer is how a reply to a "did you mean" prompt is read.
type Answer int

const (
	// Declined covers explicit negatives and anything unrecognized.
	Declined Answer = iota
	Accepted
)

// ReadAnswer interprets a reply to a correction prompt. Only clear
// affirmatives accept; every other reply, including a new search, declines.
func ReadAnswer(text string) Answer {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Join(strings.Fields(strings.Trim(t, ".!?, ")), " ")
	if _, ok := affirmatives[t]; ok {
		return Accepted
	}
	return Declined
}

// IsExplicitNo reports whether the reply was a plain negative, as opposed
// to something unrecognized.
func IsExplicitNo(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Join(strings.Fields(strings.Trim(t, ".!?, ")), " ")
	_, ok := negatives[t]
	return ok
}
