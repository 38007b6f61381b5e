package model

import (
	"errors"
	"fmt"
)

// ErrInvalidClassification is returned when a string is not one of the known classifications.
var ErrInvalidClassification = errors.New("invalid classification")

// ReportSection is the statement an entry is reported on.
type ReportSection string

const (
	SectionBalanceSheet ReportSection = "balance_sheet"
	SectionPnL          ReportSection = "pnl"
)

// Label returns the display name of the section.
func (s ReportSection) Label() string {
	switch s {
	case SectionBalanceSheet:
		return "Balance Sheet"
	case SectionPnL:
		return "Income Statement (P&L)"
	default:
		return string(s)
	}
}

// Classification places an entry in a statement bucket.
type Classification string

const (
	NonCurrentAsset     Classification = "bs_non_current_asset"
	CurrentAsset        Classification = "bs_current_asset"
	NonCurrentLiability Classification = "bs_non_current_liability"
	CurrentLiability    Classification = "bs_current_liability"
	Equity              Classification = "bs_equity"
	Revenue             Classification = "pnl_revenue"
	CostOfSales         Classification = "pnl_cost_of_sales"
	OperatingExpense    Classification = "pnl_operating_expense"
	FinanceCost         Classification = "pnl_finance_cost"
	Tax                 Classification = "pnl_tax"
	Unclassified        Classification = "unclassified"
)

type classificationInfo struct {
	label   string
	section ReportSection
}

// Unclassified pairs with balance_sheet by convention only.
var classifications = map[Classification]classificationInfo{
	NonCurrentAsset:     {"Non-Current Assets", SectionBalanceSheet},
	CurrentAsset:        {"Current Assets", SectionBalanceSheet},
	NonCurrentLiability: {"Non-Current Liabilities", SectionBalanceSheet},
	CurrentLiability:    {"Current Liabilities", SectionBalanceSheet},
	Equity:              {"Equity", SectionBalanceSheet},
	Revenue:             {"Revenue", SectionPnL},
	CostOfSales:         {"Cost of Sales", SectionPnL},
	OperatingExpense:    {"Operating Expenses", SectionPnL},
	FinanceCost:         {"Finance Costs", SectionPnL},
	Tax:                 {"Taxation", SectionPnL},
	Unclassified:        {"Unclassified", SectionBalanceSheet},
}

// AllClassifications returns every classification in display order.
func AllClassifications() []Classification {
	return []Classification{
		NonCurrentAsset,
		CurrentAsset,
		NonCurrentLiability,
		CurrentLiability,
		Equity,
		Revenue,
		CostOfSales,
		OperatingExpense,
		FinanceCost,
		Tax,
		Unclassified,
	}
}

// ParseClassification validates s against the closed set of classifications.
func ParseClassification(s string) (Classification, error) {
	c := Classification(s)
	if _, ok := classifications[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidClassification, s)
	}
	return c, nil
}

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool {
	_, ok := classifications[c]
	return ok
}

// Section returns the report section c belongs to.
func (c Classification) Section() ReportSection {
	if info, ok := classifications[c]; ok {
		return info.section
	}
	return SectionBalanceSheet
}

// Label returns the display name of c.
func (c Classification) Label() string {
	if info, ok := classifications[c]; ok {
		return info.label
	}
	return string(c)
}

// ClassificationOption describes a classification for review screens.
type ClassificationOption struct {
	Value   Classification `json:"value"`
	Label   string         `json:"label"`
	Section ReportSection  `json:"section"`
}

// ClassificationOptions returns the options offered when reviewing entries.
func ClassificationOptions() []ClassificationOption {
	all := AllClassifications()
	opts := make([]ClassificationOption, len(all))
	for i, c := range all {
		opts[i] = ClassificationOption{Value: c, Label: c.Label(), Section: c.Section()}
	}
	return opts
}
