// Package format renders report tables for the command line.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/s0up4200/ascreports/report"
)

// Format is an output format name accepted by --output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or csv)", s)
	}
}

// Options controls how a table is rendered.
type Options struct {
	// OriginalColumns labels values with the headers as received instead of
	// the normalized keys.
	OriginalColumns bool
	// Title is printed above console output.
	Title string
}

// Write renders table to w in the requested format.
func Write(w io.Writer, table *report.Table, f Format, opts Options) error {
	if table == nil {
		table = &report.Table{}
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, table, opts)
	case FormatCSV:
		return writeCSV(w, table, opts)
	case FormatTable, "":
		_, err := io.WriteString(w, NewConsoleFormatter().FormatTable(table, opts))
		return err
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// ConsoleFormatter provides console output formatting for report rows
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatTable formats every row as a tree entry listing its non-empty cells
func (f *ConsoleFormatter) FormatTable(table *report.Table, opts Options) string {
	if table.Len() == 0 {
		return "No rows found\n"
	}

	labels := columnLabels(table, opts)
	width := 0
	for _, l := range labels {
		width = max(width, utf8.RuneCountInString(l)+1)
	}

	var sb strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&sb, "\n%s", opts.Title)
	} else {
		sb.WriteString("\nRow")
		if table.Len() != 1 {
			sb.WriteString("s")
		}
	}
	fmt.Fprintf(&sb, " (%d):\n\n", table.Len())

	for i, row := range table.Rows {
		isLast := i == table.Len()-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── #%d\n", prefix, i+1)
		for c, column := range table.Columns {
			value := row[column]
			if value == nil {
				continue
			}
			fmt.Fprintf(&sb, "%s%-*s  %s\n", indent, width, labels[c]+":", Cell(value))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// Cell renders a single parsed value as text. Dates at midnight UTC are
// shown without a time part.
func Cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		switch {
		case math.IsNaN(v):
			return "NaN"
		case math.IsInf(v, 1):
			return "Infinity"
		case math.IsInf(v, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.Location() == time.UTC && v.Equal(v.Truncate(24*time.Hour)) {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func columnLabels(table *report.Table, opts Options) []string {
	if opts.OriginalColumns && len(table.OriginalColumns) == len(table.Columns) {
		return table.OriginalColumns
	}
	return table.Columns
}

func writeCSV(w io.Writer, table *report.Table, opts Options) error {
	cw := csv.NewWriter(w)
	if len(table.Columns) > 0 {
		if err := cw.Write(columnLabels(table, opts)); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			record[i] = Cell(row[column])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, table *report.Table, opts Options) error {
	labels := columnLabels(table, opts)
	rows := make([]map[string]any, 0, table.Len())
	for _, row := range table.Rows {
		out := make(map[string]any, len(table.Columns))
		for i, column := range table.Columns {
			out[labels[i]] = jsonValue(row[column])
		}
		rows = append(rows, out)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// jsonValue replaces numbers JSON cannot carry with their text form.
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return Cell(f)
	}
	return v
}
