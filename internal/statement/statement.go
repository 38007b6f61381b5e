// Package statement aggregates classified entries into a balance sheet and an
// income statement.
package statement

import (
	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// BalanceSheet groups balance-sheet entries. Totals keep the stored sign, so
// liabilities and equity are normally negative.
type BalanceSheet struct {
	NonCurrentAssets           []model.ClassifiedEntry `json:"nonCurrentAssets"`
	CurrentAssets              []model.ClassifiedEntry `json:"currentAssets"`
	TotalNonCurrentAssets      decimal.Decimal         `json:"totalNonCurrentAssets"`
	TotalCurrentAssets         decimal.Decimal         `json:"totalCurrentAssets"`
	TotalAssets                decimal.Decimal         `json:"totalAssets"`
	NonCurrentLiabilities      []model.ClassifiedEntry `json:"nonCurrentLiabilities"`
	CurrentLiabilities         []model.ClassifiedEntry `json:"currentLiabilities"`
	TotalNonCurrentLiabilities decimal.Decimal         `json:"totalNonCurrentLiabilities"`
	TotalCurrentLiabilities    decimal.Decimal         `json:"totalCurrentLiabilities"`
	TotalLiabilities           decimal.Decimal         `json:"totalLiabilities"`
	Equity                     []model.ClassifiedEntry `json:"equity"`
	TotalEquity                decimal.Decimal         `json:"totalEquity"`
	TotalLiabilitiesAndEquity  decimal.Decimal         `json:"totalLiabilitiesAndEquity"`
}

// IncomeStatement groups profit-and-loss entries with the derived profit lines.
type IncomeStatement struct {
	Revenue                []model.ClassifiedEntry `json:"revenue"`
	TotalRevenue           decimal.Decimal         `json:"totalRevenue"`
	CostOfSales            []model.ClassifiedEntry `json:"costOfSales"`
	TotalCostOfSales       decimal.Decimal         `json:"totalCostOfSales"`
	GrossProfit            decimal.Decimal         `json:"grossProfit"`
	OperatingExpenses      []model.ClassifiedEntry `json:"operatingExpenses"`
	TotalOperatingExpenses decimal.Decimal         `json:"totalOperatingExpenses"`
	OperatingProfit        decimal.Decimal         `json:"operatingProfit"`
	FinanceCosts           []model.ClassifiedEntry `json:"financeCosts"`
	TotalFinanceCosts      decimal.Decimal         `json:"totalFinanceCosts"`
	ProfitBeforeTax        decimal.Decimal         `json:"profitBeforeTax"`
	Taxation               []model.ClassifiedEntry `json:"taxation"`
	TotalTaxation          decimal.Decimal         `json:"totalTaxation"`
	NetProfit              decimal.Decimal         `json:"netProfit"`
}

// BuildBalanceSheet buckets balance-sheet entries by classification,
// preserving their relative order.
func BuildBalanceSheet(entries []model.ClassifiedEntry) BalanceSheet {
	var bs BalanceSheet
	bs.NonCurrentAssets = bucket(entries, model.SectionBalanceSheet, model.NonCurrentAsset)
	bs.CurrentAssets = bucket(entries, model.SectionBalanceSheet, model.CurrentAsset)
	bs.NonCurrentLiabilities = bucket(entries, model.SectionBalanceSheet, model.NonCurrentLiability)
	bs.CurrentLiabilities = bucket(entries, model.SectionBalanceSheet, model.CurrentLiability)
	bs.Equity = bucket(entries, model.SectionBalanceSheet, model.Equity)

	bs.TotalNonCurrentAssets = Sum(bs.NonCurrentAssets)
	bs.TotalCurrentAssets = Sum(bs.CurrentAssets)
	bs.TotalAssets = bs.TotalNonCurrentAssets.Add(bs.TotalCurrentAssets)

	bs.TotalNonCurrentLiabilities = Sum(bs.NonCurrentLiabilities)
	bs.TotalCurrentLiabilities = Sum(bs.CurrentLiabilities)
	bs.TotalLiabilities = bs.TotalNonCurrentLiabilities.Add(bs.TotalCurrentLiabilities)

	bs.TotalEquity = Sum(bs.Equity)
	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities.Add(bs.TotalEquity)
	return bs
}

// BuildIncomeStatement buckets profit-and-loss entries and derives the profit
// lines. Revenue is the only total taken as an absolute value, since it is
// normally stored as a credit.
func BuildIncomeStatement(entries []model.ClassifiedEntry) IncomeStatement {
	var is IncomeStatement
	is.Revenue = bucket(entries, model.SectionPnL, model.Revenue)
	is.CostOfSales = bucket(entries, model.SectionPnL, model.CostOfSales)
	is.OperatingExpenses = bucket(entries, model.SectionPnL, model.OperatingExpense)
	is.FinanceCosts = bucket(entries, model.SectionPnL, model.FinanceCost)
	is.Taxation = bucket(entries, model.SectionPnL, model.Tax)

	is.TotalRevenue = Sum(is.Revenue).Abs()
	is.TotalCostOfSales = Sum(is.CostOfSales)
	is.GrossProfit = is.TotalRevenue.Sub(is.TotalCostOfSales)

	is.TotalOperatingExpenses = Sum(is.OperatingExpenses)
	is.OperatingProfit = is.GrossProfit.Sub(is.TotalOperatingExpenses)

	is.TotalFinanceCosts = Sum(is.FinanceCosts)
	is.ProfitBeforeTax = is.OperatingProfit.Sub(is.TotalFinanceCosts)

	is.TotalTaxation = Sum(is.Taxation)
	is.NetProfit = is.ProfitBeforeTax.Sub(is.TotalTaxation)
	return is
}

// Sum adds the final amounts of entries.
func Sum(entries []model.ClassifiedEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.FinalAmount)
	}
	return total
}

// Unclassified returns entries still awaiting review.
func Unclassified(entries []model.ClassifiedEntry) []model.ClassifiedEntry {
	var out []model.ClassifiedEntry
	for _, e := range entries {
		if e.Classification == model.Unclassified {
			out = append(out, e)
		}
	}
	return out
}

func bucket(entries []model.ClassifiedEntry, section model.ReportSection, c model.Classification) []model.ClassifiedEntry {
	out := []model.ClassifiedEntry{}
	for _, e := range entries {
		if e.Section == section && e.Classification == c {
			out = append(out, e)
		}
	}
	return out
}
