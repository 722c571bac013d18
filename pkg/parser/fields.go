package parser

import (
	"regexp"
	"strings"
	"unicode"
)

type field int

const (
	fieldNone field = iota
	fieldName
	fieldAddress
	fieldPhone
	fieldWebsite
	fieldLanguages
	fieldServices
	fieldHours
)

// Markers are optional. Most fields accept the emoji form, the text label
// form, or both together ("🗣 Languages: ..."). Service emoji only count
// when followed by a "Services:" label since they also decorate names.
var fieldPatterns = []struct {
	field field
	re    *regexp.Regexp
}{
	{fieldName, regexp.MustCompile(`(?i)^(?:name|organization|provider)\s*:\s*(.*)$`)},
	{fieldAddress, regexp.MustCompile(`(?i)^(?:📍\s*)?(?:address|location)\s*:\s*(.*)$`)},
	{fieldAddress, regexp.MustCompile(`^📍\s*(.*)$`)},
	{fieldPhone, regexp.MustCompile(`(?i)^(?:(?:📞|☎)\s*)?(?:phone|tel|telephone|call)\s*:\s*(.*)$`)},
	{fieldPhone, regexp.MustCompile(`^(?:📞|☎)\s*(.*)$`)},
	{fieldWebsite, regexp.MustCompile(`(?i)^(?:(?:🌐|🔗)\s*)?(?:website|web|url|site)\s*:\s*(.*)$`)},
	{fieldWebsite, regexp.MustCompile(`^(?:🌐|🔗)\s*(.*)$`)},
	{fieldLanguages, regexp.MustCompile(`(?i)^(?:🗣\s*)?languages?(?:\s+spoken)?\s*:\s*(.*)$`)},
	{fieldLanguages, regexp.MustCompile(`^🗣\s*(.*)$`)},
	{fieldServices, regexp.MustCompile(`(?i)^(?:(?:🏥|🛟|🛠|🧰)\s*)?services?(?:\s+offered)?\s*:\s*(.*)$`)},
	{fieldHours, regexp.MustCompile(`(?i)^(?:(?:⏰|🕒)\s*)?(?:hours|hours of operation|open)\s*:\s*(.*)$`)},
	{fieldHours, regexp.MustCompile(`^(?:⏰|🕒)\s*(.*)$`)},
}

var (
	bareURLRe    = regexp.MustCompile(`(?i)^(?:https?://|www\.)\S+$`)
	barePhoneRe  = regexp.MustCompile(`^\+?1?[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}(?:\s*(?:x|ext\.?)\s*\d+)?$`)
	cityStateZip = regexp.MustCompile(`,?\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\s*$`)
	zipRe        = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)
	bulletRe     = regexp.MustCompile(`^[\s\-*•·▪◦>#]+`)
	numberingRe  = regexp.MustCompile(`^(\d+)[.)]\s+`)
)

// cleanLine drops variation selectors, zero-width joiners, markdown bold and
// leading bullets so that marker matching sees the bare text.
func cleanLine(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\uFE0F', '\uFE0E', '\u200D', '\u200B':
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = bulletRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// classify identifies labeled lines. fieldNone means the line carries no
// recognizable label.
func classify(line string) (field, string) {
	for _, p := range fieldPatterns {
		if m := p.re.FindStringSubmatch(line); m != nil {
			return p.field, strings.TrimSpace(m[1])
		}
	}
	switch {
	case bareURLRe.MatchString(line):
		return fieldWebsite, line
	case barePhoneRe.MatchString(line):
		return fieldPhone, line
	case cityStateZip.MatchString(line):
		return fieldAddress, line
	}
	return fieldNone, ""
}

// cleanName strips list numbering and any leading symbols from a heading.
func cleanName(s string) string {
	s = numberingRe.ReplaceAllString(cleanLine(s), "")
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.TrimSpace(strings.TrimRight(s, ":–—- "))
}

func normalizeWebsite(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".,;)")
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		s = "https://" + s
	}
	return s
}

func phoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}
