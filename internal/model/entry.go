package model

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Entry is one trial-balance line extracted from an uploaded sheet.
type Entry struct {
	AccountCode string              `json:"accountCode"`
	AccountName string              `json:"accountName"`
	Amount      decimal.Decimal     `json:"amount"`
	Adjustments decimal.NullDecimal `json:"adjustments"` // Valid=false when absent
	FinalAmount decimal.Decimal     `json:"finalAmount"`
}

// NewEntry builds an Entry whose final amount is amount plus adjustments.
// A zero adjustment is normalized to absent.
func NewEntry(code, name string, amount decimal.Decimal, adjustments decimal.NullDecimal) Entry {
	adjustments = NormalizeAdjustments(adjustments)
	final := amount
	if adjustments.Valid {
		final = amount.Add(adjustments.Decimal)
	}
	return Entry{
		AccountCode: code,
		AccountName: name,
		Amount:      amount,
		Adjustments: adjustments,
		FinalAmount: final,
	}
}

// NormalizeAdjustments turns an explicit zero adjustment into an absent one.
func NormalizeAdjustments(adj decimal.NullDecimal) decimal.NullDecimal {
	if adj.Valid && adj.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return adj
}

// ClassifiedEntry is an Entry placed in a statement bucket.
type ClassifiedEntry struct {
	ID       string `json:"id,omitempty"` // assigned by the store
	Position int    `json:"position"`     // import order within the project, assigned by the store
	Entry
	Classification Classification `json:"classification"`
	Section        ReportSection  `json:"reportSection"`
	Manual         bool           `json:"isManual"`
}

// WithClassification returns a copy of e carrying c and the section c belongs to.
func (e ClassifiedEntry) WithClassification(c Classification) ClassifiedEntry {
	e.Classification = c
	e.Section = c.Section()
	return e
}

// ValidateManual checks a hand-entered line before it is stored.
func (e ClassifiedEntry) ValidateManual() error {
	if e.AccountCode == "" || e.AccountName == "" {
		return fmt.Errorf("%w: account code and name are required", ErrInvalid)
	}
	if !e.Classification.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidClassification, e.Classification)
	}
	return nil
}

// SortByPosition orders entries as they were imported, which is the order the
// classifier scans them in.
func SortByPosition(entries []ClassifiedEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
}
