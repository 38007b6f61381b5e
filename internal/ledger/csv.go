// Package ledger reads and writes a classified trial balance as CSV.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Header is the CSV header for a classified ledger.
const Header = "id,account_code,account_name,amount,adjustments,final_amount,classification,report_section,manual"

const (
	numFields         = 9
	colID             = 0
	colCode           = 1
	colName           = 2
	colAmount         = 3
	colAdjustments    = 4
	colFinal          = 5
	colClassification = 6
	colSection        = 7
	colManual         = 8
)

// ReadEntries reads all entries from a ledger CSV reader.
func ReadEntries(r io.Reader) ([]model.ClassifiedEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected ledger header %q", got)
	}

	var entries []model.ClassifiedEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a ledger CSV writer (including header).
func WriteEntries(w io.Writer, entries []model.ClassifiedEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts a ClassifiedEntry to a CSV row. Absent adjustments
// are written as an empty cell.
func MarshalEntry(e model.ClassifiedEntry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colCode] = e.AccountCode
	row[colName] = e.AccountName
	row[colAmount] = e.Amount.StringFixed(2)
	if e.Adjustments.Valid {
		row[colAdjustments] = e.Adjustments.Decimal.StringFixed(2)
	}
	row[colFinal] = e.FinalAmount.StringFixed(2)
	row[colClassification] = string(e.Classification)
	row[colSection] = string(e.Section)
	row[colManual] = strconv.FormatBool(e.Manual)
	return row
}

// UnmarshalEntry converts a CSV row to a ClassifiedEntry. The report section
// is derived from the classification and must agree with the stored one.
func UnmarshalEntry(record []string) (model.ClassifiedEntry, error) {
	if len(record) != numFields {
		return model.ClassifiedEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var adjustments decimal.NullDecimal
	if record[colAdjustments] != "" {
		d, err := decimal.NewFromString(record[colAdjustments])
		if err != nil {
			return model.ClassifiedEntry{}, fmt.Errorf("parsing adjustments %q: %w", record[colAdjustments], err)
		}
		adjustments = model.NormalizeAdjustments(decimal.NewNullDecimal(d))
	}

	final, err := decimal.NewFromString(record[colFinal])
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("parsing final_amount %q: %w", record[colFinal], err)
	}

	c, err := model.ParseClassification(record[colClassification])
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("parsing classification: %w", err)
	}
	if s := record[colSection]; s != "" && model.ReportSection(s) != c.Section() {
		return model.ClassifiedEntry{}, fmt.Errorf("report_section %q does not match classification %s", s, c)
	}

	var manual bool
	if record[colManual] != "" {
		manual, err = strconv.ParseBool(record[colManual])
		if err != nil {
			return model.ClassifiedEntry{}, fmt.Errorf("parsing manual %q: %w", record[colManual], err)
		}
	}

	e := model.ClassifiedEntry{
		ID: record[colID],
		Entry: model.Entry{
			AccountCode: record[colCode],
			AccountName: record[colName],
			Amount:      amount,
			Adjustments: adjustments,
			FinalAmount: final,
		},
		Manual: manual,
	}
	return e.WithClassification(c), nil
}
