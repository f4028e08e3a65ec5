package format

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ascreports/report"
)

func sampleTable(t *testing.T) *report.Table {
	t.Helper()
	table, err := report.Parse("Région\tUnits\tBegin Date\nEU\t2\t2024-01-05\nUS\t\t2024-01-06\n", report.ReportTypeSales)
	require.NoError(t, err)
	return table
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: " JSON ", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "abc", want: "abc"},
		{name: "bool", in: true, want: "true"},
		{name: "integer float", in: float64(10), want: "10"},
		{name: "decimal", in: 19.99, want: "19.99"},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "infinity", in: math.Inf(-1), want: "-Infinity"},
		{name: "date", in: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), want: "2024-01-05"},
		{name: "date time", in: time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC), want: "2024-01-05T10:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.in))
		})
	}
}

func TestWrite(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTable(t), FormatCSV, Options{}))
		assert.Equal(t, "region,units,begin_date\nEU,2,2024-01-05\nUS,,2024-01-06\n", buf.String())
	})

	t.Run("csv with original columns", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTable(t), FormatCSV, Options{OriginalColumns: true}))
		assert.Contains(t, buf.String(), "Région,Units,Begin Date\n")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTable(t), FormatJSON, Options{}))
		assert.JSONEq(t, `[
			{"region":"EU","units":2,"begin_date":"2024-01-05T00:00:00Z"},
			{"region":"US","units":null,"begin_date":"2024-01-06T00:00:00Z"}
		]`, buf.String())
	})

	t.Run("json with special numbers", func(t *testing.T) {
		table := &report.Table{
			Columns:         []string{"n"},
			OriginalColumns: []string{"N"},
			Rows:            []report.Row{{"n": math.NaN()}},
		}
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, table, FormatJSON, Options{OriginalColumns: true}))
		assert.JSONEq(t, `[{"N":"NaN"}]`, buf.String())
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTable(t), FormatTable, Options{Title: "Sales"}))
		out := buf.String()
		assert.Contains(t, out, "Sales (2):")
		assert.Contains(t, out, "├── #1")
		assert.Contains(t, out, "╰── #2")
		assert.Contains(t, out, "units:       2")
		assert.NotContains(t, out, "units:       \n")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, nil, FormatTable, Options{}))
		assert.Equal(t, "No rows found\n", buf.String())

		buf.Reset()
		require.NoError(t, Write(&buf, nil, FormatJSON, Options{}))
		assert.JSONEq(t, `[]`, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, Write(&bytes.Buffer{}, sampleTable(t), Format("xml"), Options{}))
	})
}
