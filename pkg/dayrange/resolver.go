package dayrange

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Day is a canonical weekday, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Week lists every day in canonical order.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayNames[d]
}

// Short returns the three-letter abbreviation ("mon").
func (d Day) Short() string {
	return d.String()[:3]
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, ok := ParseDay(string(b))
	if !ok {
		return fmt.Errorf("unknown weekday %q", string(b))
	}
	*d = parsed
	return nil
}

// aliases maps every accepted spelling to its day. Abbreviations follow
// what shows up in hand-edited hours lines ("Tues", "Thurs", "Weds").
var aliases = map[string]Day{
	"mon": Monday, "monday": Monday, "mondays": Monday,
	"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday, "tuesdays": Tuesday,
	"wed": Wednesday, "weds": Wednesday, "wednesday": Wednesday, "wednesdays": Wednesday,
	"thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday, "thursdays": Thursday,
	"fri": Friday, "friday": Friday, "fridays": Friday,
	"sat": Saturday, "saturday": Saturday, "saturdays": Saturday,
	"sun": Sunday, "sunday": Sunday, "sundays": Sunday,
}

// groups are words that stand for several days at once.
var groups = map[string]Set{
	"weekday":  NewSet(Monday, Tuesday, Wednesday, Thursday, Friday),
	"weekdays": NewSet(Monday, Tuesday, Wednesday, Thursday, Friday),
	"weekend":  NewSet(Saturday, Sunday),
	"weekends": NewSet(Saturday, Sunday),
	"daily":    All(),
	"everyday": All(),
}

// ParseDay resolves a single day name or abbreviation, ignoring case and a
// trailing period ("Mon.").
func ParseDay(token string) (Day, bool) {
	t := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(token)), ".")
	d, ok := aliases[t]
	return d, ok
}

// IsDayWord reports whether token names a day or a day group.
func IsDayWord(token string) bool {
	t := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(token)), ".")
	if _, ok := aliases[t]; ok {
		return true
	}
	_, ok := groups[t]
	return ok
}

// Span returns the days from start to end inclusive, walking forward through
// the week. When start comes after end the walk wraps past Sunday.
func Span(start, end Day) Set {
	var s Set
	for d := start; ; d = (d + 1) % 7 {
		s = s.Add(d)
		if d == end {
			break
		}
	}
	return s
}

var rangeSep = regexp.MustCompile(`\s*(?:-|–|—|\bto\b|\bthrough\b|\bthru\b)\s*`)

// Resolve maps a day token, a comma separated list or a hyphenated range to
// the set of weekdays it covers. Lists and ranges combine ("Mon, Wed-Fri").
// Unknown parts are reported as an error; an empty input resolves to an
// empty set.
func Resolve(expr string) (Set, error) {
	var out Set
	for _, part := range splitList(expr) {
		s, err := resolvePart(part)
		if err != nil {
			return 0, err
		}
		out = out.Union(s)
	}
	return out, nil
}

// MustResolve is Resolve for literals known to be valid.
func MustResolve(expr string) Set {
	s, err := Resolve(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func splitList(expr string) []string {
	fields := strings.FieldsFunc(strings.ToLower(expr), func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '&'
	})
	var parts []string
	for _, f := range fields {
		for _, p := range strings.Split(f, " and ") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	return parts
}

func resolvePart(part string) (Set, error) {
	part = strings.TrimSpace(part)
	if g, ok := groups[strings.TrimSuffix(strings.ToLower(part), ".")]; ok {
		return g, nil
	}
	bounds := rangeSep.Split(part, -1)
	switch len(bounds) {
	case 1:
		d, ok := ParseDay(part)
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
		return NewSet(d), nil
	case 2:
		start, ok := ParseDay(bounds[0])
		if !ok {
			return 0, fmt.Errorf("unknown range start %q", bounds[0])
		}
		end, ok := ParseDay(bounds[1])
		if !ok {
			return 0, fmt.Errorf("unknown range end %q", bounds[1])
		}
		return Span(start, end), nil
	default:
		return 0, fmt.Errorf("malformed day range %q", part)
	}
}

// Set is an order-independent set of weekdays.
type Set uint8

// NewSet builds a set from the given days.
func NewSet(days ...Day) Set {
	var s Set
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// All returns every day of the week.
func All() Set { return Set(0x7f) }

func (s Set) Add(d Day) Set {
	if d < Monday || d > Sunday {
		return s
	}
	return s | 1<<uint(d)
}

func (s Set) Has(d Day) bool { return s&(1<<uint(d)) != 0 }
func (s Set) Union(o Set) Set { return s | o }
func (s Set) Intersects(o Set) bool { return s&o != 0 }
func (s Set) IsEmpty() bool { return s == 0 }
func (s Set) Equal(o Set) bool { return s == o }
func (s Set) Intersection(o Set) Set { return s & o }

// Days lists the members in canonical order.
func (s Set) Days() []Day {
	var out []Day
	for _, d := range Week {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Strings lists the member names in canonical order.
func (s Set) Strings() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

func (s Set) String() string {
	short := make([]string, 0, 7)
	for _, d := range s.Days() {
		short = append(short, d.Short())
	}
	return strings.Join(short, ",")
}

func (s Set) MarshalJSON() ([]byte, error) {
	names := s.Strings()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (s *Set) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	var out Set
	for _, n := range names {
		d, ok := ParseDay(n)
		if !ok {
			return fmt.Errorf("unknown weekday %q", n)
		}
		out = out.Add(d)
	}
	*s = out
	return nil
}
