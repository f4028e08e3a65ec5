package api

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// EncodeQuery sanitizes v and serializes it into a query string. Nested maps
// produce bracketed keys (filter[vendorNumber]=1) and slices produce repeated
// keys (tags=a&tags=b). Only values are percent-encoded. The boolean is false
// when v is nil, in which case no query string should be sent at all.
func EncodeQuery(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	return Encode(Sanitize(v)), true
}

// Encode serializes an already sanitized tree. Non-map roots produce an empty
// string.
func Encode(sanitized any) string {
	root, ok := sanitized.(map[string]any)
	if !ok {
		return ""
	}

	var pairs []string
	for _, key := range sortedKeys(root) {
		pairs = appendPairs(pairs, key, root[key])
	}
	return strings.Join(pairs, "&")
}

func appendPairs(pairs []string, prefix string, v any) []string {
	switch t := v.(type) {
	case map[string]any:
		for _, key := range sortedKeys(t) {
			pairs = appendPairs(pairs, prefix+"["+key+"]", t[key])
		}
		return pairs
	case []any:
		for _, item := range t {
			pairs = appendPairs(pairs, prefix, item)
		}
		return pairs
	case nil:
		return append(pairs, prefix+"=")
	default:
		return append(pairs, prefix+"="+escapeValue(scalarString(t)))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case Value:
		return t.QueryString()
	default:
		return fmt.Sprint(t)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

const upperhex = "0123456789ABCDEF"

// escapeValue percent-encodes everything outside the RFC 3986 unreserved set.
func escapeValue(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
