package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindDateTime
	KindURL
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Value is a scalar leaf of a revived JSON document.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
	u    *url.URL
}

// StringValue wraps s without attempting revival.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps n.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// DateTimeValue wraps t. raw is kept as the textual form.
func DateTimeValue(t time.Time, raw string) Value {
	return Value{kind: KindDateTime, t: t, str: raw}
}

// URLValue wraps u.
func URLValue(u *url.URL) Value { return Value{kind: KindURL, u: u, str: u.String()} }

func (v Value) Kind() Kind { return v.kind }

// String returns the textual form of the value. For revived strings it is the
// original JSON text.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) Bool() (bool, bool)      { return v.b, v.kind == KindBoolean }
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDateTime }
func (v Value) URL() (*url.URL, bool)   { return v.u, v.kind == KindURL }

// QueryString implements Sanitizable.
func (v Value) QueryString() string {
	switch v.kind {
	case KindDateTime:
		return formatISO(v.t)
	case KindURL:
		return v.u.String()
	default:
		return v.String()
	}
}

// MarshalJSON writes the value back in its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	case KindDateTime, KindURL:
		return json.Marshal(v.QueryString())
	default:
		return json.Marshal(v.str)
	}
}

// Revive promotes s to a URL value when it parses as an absolute URL,
// otherwise to a date-time value when it is ISO-8601, otherwise it stays a
// string. The URL check always runs first.
func Revive(s string) Value {
	if u, ok := parseAbsoluteURL(s); ok {
		return Value{kind: KindURL, u: u, str: s}
	}
	if t, ok := ParseISO(s); ok {
		return DateTimeValue(t, s)
	}
	return StringValue(s)
}

// ReviveTree walks a document produced by encoding/json (with UseNumber or
// float64 numbers) and replaces every scalar leaf with a Value. null stays nil.
func ReviveTree(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, child := range n {
			out[k] = ReviveTree(child)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = ReviveTree(child)
		}
		return out
	case string:
		return Revive(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return StringValue(n.String())
		}
		return NumberValue(f)
	case float64:
		return NumberValue(n)
	case bool:
		return BoolValue(n)
	default:
		return node
	}
}

var specialSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

func parseAbsoluteURL(s string) (*url.URL, bool) {
	if s == "" || strings.TrimSpace(s) != s {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	if specialSchemes[strings.ToLower(u.Scheme)] && u.Host == "" {
		return nil, false
	}
	return u, true
}

var (
	isoCalendar = regexp.MustCompile(`^([+-]\d{6}|\d{4})(?:-(\d{2})(?:-(\d{2}))?|(\d{2})(\d{2}))?$`)
	isoOrdinal  = regexp.MustCompile(`^([+-]\d{6}|\d{4})-?(\d{3})$`)
	isoWeek     = regexp.MustCompile(`^([+-]\d{6}|\d{4})-?W(\d{2})(?:-?([1-7]))?$`)
	isoTime     = regexp.MustCompile(`^(\d{2})(?::?(\d{2})(?::?(\d{2})(?:[.,](\d{1,9}))?)?)?(Z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// ParseISO parses the ISO-8601 forms accepted by the reviver: calendar dates
// (YYYY, YYYY-MM, YYYY-MM-DD, YYYYMMDD), ordinal dates (YYYY-DDD), week dates
// (YYYY-Www[-D]), each optionally followed by T and a time with an optional
// zone designator. Values without a zone are interpreted as UTC.
func ParseISO(s string) (time.Time, bool) {
	datePart, timePart, hasTime := strings.Cut(s, "T")
	if datePart == "" {
		return time.Time{}, false
	}

	year, month, day, ok := parseISODate(datePart)
	if !ok {
		return time.Time{}, false
	}

	var hour, minute, sec, nsec int
	loc := time.UTC
	if hasTime {
		if hour, minute, sec, nsec, loc, ok = parseISOTime(timePart); !ok {
			return time.Time{}, false
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		// ordinal and week dates are normalised before this point, so any
		// rollover here means the calendar date was out of range
		return time.Time{}, false
	}
	return t, true
}

func parseISODate(s string) (year, month, day int, ok bool) {
	if m := isoCalendar.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, day = 1, 1
		switch {
		case m[2] != "":
			month, _ = strconv.Atoi(m[2])
			if m[3] != "" {
				day, _ = strconv.Atoi(m[3])
			}
		case m[4] != "":
			month, _ = strconv.Atoi(m[4])
			day, _ = strconv.Atoi(m[5])
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return 0, 0, 0, false
		}
		return year, month, day, true
	}

	if m := isoOrdinal.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		ordinal, _ := strconv.Atoi(m[2])
		if ordinal < 1 || ordinal > daysIn(year) {
			return 0, 0, 0, false
		}
		t := time.Date(year, time.January, ordinal, 0, 0, 0, 0, time.UTC)
		return t.Year(), int(t.Month()), t.Day(), true
	}

	if m := isoWeek.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		weekday := 1
		if m[3] != "" {
			weekday, _ = strconv.Atoi(m[3])
		}
		if week < 1 || week > isoWeeksIn(year) {
			return 0, 0, 0, false
		}
		// the Monday of week 1 is the Monday on or before January 4th
		jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
		offset := (int(jan4.Weekday()) + 6) % 7
		t := jan4.AddDate(0, 0, -offset+(week-1)*7+weekday-1)
		return t.Year(), int(t.Month()), t.Day(), true
	}

	return 0, 0, 0, false
}

func parseISOTime(s string) (hour, minute, sec, nsec int, loc *time.Location, ok bool) {
	m := isoTime.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, 0, nil, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		frac := m[4] + strings.Repeat("0", 9-len(m[4]))
		nsec, _ = strconv.Atoi(frac)
	}
	if hour > 23 || minute > 59 || sec > 59 {
		return 0, 0, 0, 0, nil, false
	}

	loc = time.UTC
	if zone := m[5]; zone != "" && zone != "Z" {
		digits := strings.ReplaceAll(zone[1:], ":", "")
		zh, _ := strconv.Atoi(digits[:2])
		zm := 0
		if len(digits) == 4 {
			zm, _ = strconv.Atoi(digits[2:])
		}
		if zh > 23 || zm > 59 {
			return 0, 0, 0, 0, nil, false
		}
		offset := zh*3600 + zm*60
		if zone[0] == '-' {
			offset = -offset
		}
		loc = time.FixedZone(zone, offset)
	}
	return hour, minute, sec, nsec, loc, true
}

func daysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// isoWeeksIn reports 53 for long ISO years and 52 otherwise.
func isoWeeksIn(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

func formatISO(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// GoString implements fmt.GoStringer.
func (v Value) GoString() string {
	return fmt.Sprintf("api.Value{%s: %q}", v.kind, v.String())
}
