package dayrange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Interval is an opening window in 24h "HH:MM" form.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayHours describes one weekday. Open with no intervals means the source
// lists the day as open without giving times.
type DayHours struct {
	Open      bool       `json:"open"`
	Intervals []Interval `json:"intervals,omitempty"`
}

// Hours maps weekdays to their opening information. Days that the source
// never mentions are absent.
type Hours map[Day]DayHours

// OpenDays returns every day marked open.
func (h Hours) OpenDays() Set {
	var s Set
	for d, dh := range h {
		if dh.Open {
			s = s.Add(d)
		}
	}
	return s
}

const timeExpr = `(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(?:m\b\.?)?`

var (
	anchorRe = regexp.MustCompile(`\bclosed\b|\b24\s*(?:hours|hrs|/\s*7)\b|` +
		`\d{1,2}(?::\d{2})?\s*(?:[ap]\.?\s*m\.?)?\s*(?:-|–|—|\bto\b)\s*\d{1,2}(?::\d{2})?\s*(?:[ap]\.?\s*m\.?)?`)
	rangeRe    = regexp.MustCompile(`^` + timeExpr + `\s*(?:-|–|—|to)\s*` + timeExpr)
	dayTokenRe = regexp.MustCompile(`[a-z]+\.?|[,\-–—&/]`)
)

type anchor struct {
	closed   bool
	allDay   bool
	interval *Interval
}

// ParseHours reads a free-text hours line such as
// "Mon-Fri 9am-5pm; Sat 10am-2pm, Sun closed" into per-day opening windows.
// It reports false when no weekday could be recognised, in which case the
// caller should treat the hours as unknown.
func ParseHours(text string) (Hours, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil, false
	}
	lower = strings.ReplaceAll(lower, "noon", "12pm")

	type segment struct {
		days   Set
		anchor anchor
		ok     bool
	}
	var segments []segment
	prev := 0
	for _, loc := range anchorRe.FindAllStringIndex(lower, -1) {
		a, ok := parseAnchor(lower[loc[0]:loc[1]])
		segments = append(segments, segment{days: daysIn(lower[prev:loc[0]]), anchor: a, ok: ok})
		prev = loc[1]
	}
	tail := daysIn(lower[prev:])

	h := Hours{}
	var last Set
	var orphan *anchor
	for i, seg := range segments {
		if !seg.ok {
			continue
		}
		a := seg.anchor
		if !seg.days.IsEmpty() {
			h.apply(seg.days, a)
			last = seg.days
			continue
		}
		if a.allDay {
			h.apply(All(), a)
			continue
		}
		// "Mon 9am-12pm & 1pm-5pm": a second window belongs to the previous
		// days unless trailing days follow it ("..., 10am-2pm Sat").
		trailing := i == len(segments)-1 && !tail.IsEmpty()
		if a.interval != nil && !last.IsEmpty() && !trailing {
			h.apply(last, a)
			continue
		}
		if orphan == nil {
			orphan = &a
		}
	}

	if !tail.IsEmpty() {
		if orphan != nil {
			h.apply(tail, *orphan)
		} else {
			h.apply(tail, anchor{})
		}
	}

	if len(h) == 0 {
		return nil, false
	}
	return h, true
}

func (h Hours) apply(days Set, a anchor) {
	for _, d := range days.Days() {
		if a.closed {
			h[d] = DayHours{Open: false}
			continue
		}
		dh := h[d]
		dh.Open = true
		if a.allDay {
			dh.Intervals = append(dh.Intervals, Interval{Start: "00:00", End: "24:00"})
		} else if a.interval != nil {
			dh.Intervals = append(dh.Intervals, *a.interval)
		}
		h[d] = dh
	}
}

func parseAnchor(s string) (anchor, bool) {
	switch {
	case s == "closed":
		return anchor{closed: true}, true
	case strings.HasPrefix(s, "24"):
		return anchor{allDay: true}, true
	}
	m := rangeRe.FindStringSubmatch(s)
	if m == nil {
		return anchor{}, false
	}
	iv, ok := toInterval(m[1], m[2], m[3], m[4], m[5], m[6])
	if !ok {
		return anchor{}, false
	}
	return anchor{interval: &iv}, true
}

// toInterval converts "9", "", "" / "5", "", "p" style parts into a 24h
// interval. A missing start meridiem borrows the end one unless that would
// put the start after the end; with no meridiem at all an end hour earlier
// than the start is read as afternoon ("9-5").
func toInterval(sh, sm, smer, eh, em, emer string) (Interval, bool) {
	startH, _ := strconv.Atoi(sh)
	endH, _ := strconv.Atoi(eh)
	startM := atoiOr(sm, 0)
	endM := atoiOr(em, 0)
	if startH > 24 || endH > 24 || startM > 59 || endM > 59 {
		return Interval{}, false
	}

	end := to24(endH, emer)
	var start int
	switch {
	case smer != "":
		start = to24(startH, smer)
	case emer != "":
		start = to24(startH, emer)
		if start*60+startM > end*60+endM {
			start = to24(startH, "a")
		}
	default:
		start = startH
		if end*60+endM <= start*60+startM && end < 12 {
			end += 12
		}
	}
	return Interval{Start: clock(start, startM), End: clock(end, endM)}, true
}

func to24(h int, mer string) int {
	switch mer {
	case "p":
		if h < 12 {
			return h + 12
		}
	case "a":
		if h == 12 {
			return 0
		}
	}
	return h
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// daysIn pulls the day words and range connectors out of a fragment of an
// hours line and resolves them. Anything it cannot resolve counts as no days.
func daysIn(fragment string) Set {
	var kept []string
	sawDay := false
	for _, tok := range dayTokenRe.FindAllString(fragment, -1) {
		switch {
		case IsDayWord(tok):
			kept = append(kept, tok)
			sawDay = true
		case tok == "to" || tok == "through" || tok == "thru" || tok == "and":
			kept = append(kept, tok)
		case utf8.RuneCountInString(tok) == 1 && strings.ContainsAny(tok, ",-–—&/"):
			kept = append(kept, tok)
		}
	}
	if !sawDay {
		return 0
	}
	expr := strings.Trim(strings.Join(kept, " "), " ,-–—&/")
	expr = strings.TrimSuffix(strings.TrimPrefix(expr, "and "), " and")
	s, err := Resolve(expr)
	if err != nil {
		return 0
	}
	return s
}
