package render

import (
	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// Kind is the role of a statement line, which decides its styling.
type Kind int

const (
	KindBlank Kind = iota
	KindSection
	KindGroup
	KindItem
	KindSubtotal
	KindTotal
	KindGrandTotal
)

// Band colours, as RGB hex.
const (
	bandHeader    = "D0D0D0"
	bandSection   = "E8E8E8"
	bandPositive  = "CCFFCC"
	bandNegative  = "FFCCCC"
	bandOperating = "CCE5FF"
)

// Line is one printed row of a statement. Amount is already in display sign.
type Line struct {
	Kind   Kind
	Label  string
	Amount decimal.NullDecimal
	Band   string
}

// Statement is a titled list of lines.
type Statement struct {
	Name     string
	Title    string
	Subtitle string
	Lines    []Line
}

const dateFormat = "January 2, 2006"

func amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

func label(e model.ClassifiedEntry) string {
	if e.AccountName != "" {
		return e.AccountName
	}
	return e.AccountCode
}

type builder struct {
	lines []Line
}

func (b *builder) add(kind Kind, text string, amt decimal.NullDecimal, band string) {
	b.lines = append(b.lines, Line{Kind: kind, Label: text, Amount: amt, Band: band})
}

func (b *builder) blank() { b.add(KindBlank, "", decimal.NullDecimal{}, "") }

func (b *builder) section(text string) { b.add(KindSection, text, decimal.NullDecimal{}, bandSection) }

func (b *builder) group(text string) { b.add(KindGroup, text, decimal.NullDecimal{}, "") }

// items adds one line per entry with its final amount mapped through sign.
func (b *builder) items(entries []model.ClassifiedEntry, sign func(decimal.Decimal) decimal.Decimal) {
	for _, e := range entries {
		b.add(KindItem, label(e), amount(sign(e.FinalAmount)), "")
	}
}

func asIs(d decimal.Decimal) decimal.Decimal     { return d }
func absolute(d decimal.Decimal) decimal.Decimal { return d.Abs() }
func negated(d decimal.Decimal) decimal.Decimal  { return d.Neg() }

// BalanceSheetLayout lays out the statement of financial position. Liabilities
// and equity are shown as positive figures.
func BalanceSheetLayout(info model.ProjectInfo, bs statement.BalanceSheet) Statement {
	var b builder
	b.section("ASSETS")
	b.group("Non-Current Assets")
	b.items(bs.NonCurrentAssets, asIs)
	b.add(KindSubtotal, "Total Non-Current Assets", amount(bs.TotalNonCurrentAssets), "")
	b.group("Current Assets")
	b.items(bs.CurrentAssets, asIs)
	b.add(KindSubtotal, "Total Current Assets", amount(bs.TotalCurrentAssets), "")
	b.add(KindGrandTotal, "TOTAL ASSETS", amount(bs.TotalAssets), bandPositive)
	b.blank()

	b.section("LIABILITIES")
	b.group("Non-Current Liabilities")
	b.items(bs.NonCurrentLiabilities, absolute)
	b.add(KindSubtotal, "Total Non-Current Liabilities", amount(bs.TotalNonCurrentLiabilities.Abs()), "")
	b.group("Current Liabilities")
	b.items(bs.CurrentLiabilities, absolute)
	b.add(KindSubtotal, "Total Current Liabilities", amount(bs.TotalCurrentLiabilities.Abs()), "")
	b.add(KindTotal, "TOTAL LIABILITIES", amount(bs.TotalLiabilities.Abs()), "")
	b.blank()

	b.section("EQUITY")
	b.items(bs.Equity, absolute)
	b.add(KindTotal, "TOTAL EQUITY", amount(bs.TotalEquity.Abs()), "")
	b.blank()

	b.add(KindGrandTotal, "TOTAL LIABILITIES AND EQUITY", amount(bs.TotalLiabilitiesAndEquity.Abs()), bandPositive)

	return Statement{
		Name:     "Balance Sheet",
		Title:    "Statement of Financial Position",
		Subtitle: "As at " + info.PeriodEnd.Format(dateFormat),
		Lines:    b.lines,
	}
}

// IncomeStatementLayout lays out the statement of profit or loss. Costs are
// shown negated so each block reads as a deduction. Finance costs and taxation
// appear only when they have entries.
func IncomeStatementLayout(info model.ProjectInfo, is statement.IncomeStatement) Statement {
	var b builder
	b.section("REVENUE")
	b.items(is.Revenue, absolute)
	b.add(KindSubtotal, "Total Revenue", amount(is.TotalRevenue), "")

	b.section("COST OF SALES")
	b.items(is.CostOfSales, negated)
	b.add(KindSubtotal, "Total Cost of Sales", amount(is.TotalCostOfSales.Neg()), "")
	b.add(KindGrandTotal, "GROSS PROFIT", amount(is.GrossProfit), bandPositive)

	b.section("OPERATING EXPENSES")
	b.items(is.OperatingExpenses, negated)
	b.add(KindSubtotal, "Total Operating Expenses", amount(is.TotalOperatingExpenses.Neg()), "")
	b.add(KindTotal, "OPERATING PROFIT", amount(is.OperatingProfit), bandOperating)

	if len(is.FinanceCosts) > 0 {
		b.section("FINANCE COSTS")
		b.items(is.FinanceCosts, negated)
		b.add(KindTotal, "PROFIT BEFORE TAX", amount(is.ProfitBeforeTax), "")
	}

	if len(is.Taxation) > 0 {
		b.section("TAXATION")
		b.items(is.Taxation, asIs)
	}

	band := bandPositive
	if is.NetProfit.IsNegative() {
		band = bandNegative
	}
	b.add(KindGrandTotal, "NET PROFIT / (LOSS)", amount(is.NetProfit), band)

	return Statement{
		Name:     "Income Statement",
		Title:    "Statement of Profit or Loss",
		Subtitle: "For the period ending " + info.PeriodEnd.Format(dateFormat),
		Lines:    b.lines,
	}
}
