package importer

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVSource reads comma-separated trial balances.
type CSVSource struct{}

// Format returns the source name.
func (s *CSVSource) Format() string { return "csv" }

// Read parses a CSV file. Rows may have differing lengths.
func (s *CSVSource) Read(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("reading CSV: %w", err)
	}
	return shape(records), nil
}
