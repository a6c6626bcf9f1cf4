package objectstore

import (
	"encoding/csv"
	"fmt"
	"io"

	"obras/internal/report"
)

// Separator is the CSV field delimiter expected by spreadsheet tools set to
// a Brazilian locale, where "," is the decimal separator.
const Separator = ';'

// WriteCSV writes the header followed by every row of t.
func WriteCSV(w io.Writer, t report.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d cells, header has %d", i, len(row), len(t.Header))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
