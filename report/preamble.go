package report

import "strings"

// preambleLines maps report types to the number of metadata lines that
// precede the header row. Types not listed carry no preamble.
var preambleLines = map[ReportType]int{
	ReportTypeFinanceDetail: 3,
}

// PreambleLines returns how many leading lines Parse discards for rt.
func PreambleLines(rt ReportType) int {
	return preambleLines[rt]
}

// stripLines drops the first n lines of text. When no newline is left the
// remaining text is kept as is.
func stripLines(text string, n int) string {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			break
		}
		text = text[idx+1:]
	}
	return text
}
