package report

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	decimalNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	prefixedInt   = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
	isoDateCell   = regexp.MustCompile(`^([-+]\d{2})?\d{4}(-\d{2}(-\d{2})?)?(T\d{2}:\d{2}(:\d{2}(\.\d{3})?)?(Z|[-+]\d{2}:\d{2})?)?$`)
)

// InferCell converts a raw cell to its native type. Empty (after trimming)
// cells become nil, "true"/"false" become bool, numeric text becomes float64,
// ISO dates become time.Time and anything else is returned unchanged,
// untrimmed. Each cell is inferred on its own, so a column may mix types.
func InferCell(raw string) any {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return nil
	case value == "true":
		return true
	case value == "false":
		return false
	case value == "NaN":
		return math.NaN()
	}

	if n, ok := parseNumber(value); ok {
		return n
	}
	if isoDateCell.MatchString(value) {
		if t, ok := parseDateCell(value); ok {
			return t
		}
	}
	return raw
}

// parseNumber accepts the numeric literal forms a JavaScript Number()
// conversion accepts: decimals with optional exponent, Infinity and
// 0x/0o/0b integers.
func parseNumber(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if decimalNumber.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		// out of range values still come back as ±Inf
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	}

	if prefixedInt.MatchString(s) {
		base := 16
		switch s[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		u, err := strconv.ParseUint(s[2:], base, 64)
		if err != nil {
			return 0, false
		}
		return float64(u), true
	}

	return 0, false
}

var dateCellLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseDateCell parses a value already matched by isoDateCell. Expanded
// six-digit years are handled by shifting the year after parsing. Values
// without a zone are read as UTC.
func parseDateCell(s string) (time.Time, bool) {
	expanded, negative := false, false
	high := 0
	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s[1:3])
		if err != nil {
			return time.Time{}, false
		}
		expanded, negative, high = true, s[0] == '-', n
		s = s[3:]
	}

	for _, layout := range dateCellLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if expanded {
			year := high*10000 + t.Year()
			if negative {
				year = -year
			}
			t = t.AddDate(year-t.Year(), 0, 0)
		}
		return t, true
	}
	return time.Time{}, false
}
