package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedReport is returned when the tab-separated body cannot be read.
var ErrMalformedReport = errors.New("malformed report")

// Parse turns a decompressed report body into a Table. The preamble for rt
// is dropped first, then the first remaining line is read as the header.
// Cells missing from short rows are nil; extra cells are ignored.
func Parse(text string, rt ReportType) (*Table, error) {
	body := stripLines(text, PreambleLines(rt))

	r := csv.NewReader(strings.NewReader(body))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	table := &Table{}

	header, err := r.Read()
	if err == io.EOF {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedReport, err)
	}

	table.OriginalColumns = append([]string(nil), header...)
	table.Columns = make([]string, len(header))
	for i, name := range header {
		table.Columns[i] = NormalizeColumn(name)
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}

		row := make(Row, len(table.Columns))
		for i, column := range table.Columns {
			if i < len(record) {
				row[column] = InferCell(record[i])
			} else {
				row[column] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
