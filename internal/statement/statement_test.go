package statement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

func entry(code string, c model.Classification, final string) model.ClassifiedEntry {
	amt := decimal.RequireFromString(final)
	e := model.ClassifiedEntry{Entry: model.NewEntry(code, code+" name", amt, decimal.NullDecimal{})}
	return e.WithClassification(c)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestBuildBalanceSheet(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("400.100", model.CurrentAsset, "100"),
		entry("300.100", model.NonCurrentAsset, "200"),
		entry("700.100", model.Revenue, "-1000"),
		entry("400.200", model.CurrentAsset, "50"),
		entry("600.100", model.CurrentLiability, "-30"),
		entry("800.100", model.Equity, "-320"),
		entry("XYZ", model.Unclassified, "999"),
	}

	bs := BuildBalanceSheet(entries)

	require.Len(t, bs.CurrentAssets, 2)
	assert.Equal(t, "400.100", bs.CurrentAssets[0].AccountCode)
	assert.Equal(t, "400.200", bs.CurrentAssets[1].AccountCode)
	require.Len(t, bs.NonCurrentAssets, 1)
	assert.Empty(t, bs.NonCurrentLiabilities)
	assert.NotNil(t, bs.NonCurrentLiabilities)

	assertDec(t, "150", bs.TotalCurrentAssets, "current assets")
	assertDec(t, "200", bs.TotalNonCurrentAssets, "non-current assets")
	assertDec(t, "350", bs.TotalAssets, "total assets")
	assertDec(t, "-30", bs.TotalLiabilities, "total liabilities keeps sign")
	assertDec(t, "30", bs.TotalLiabilities.Abs(), "displayed liabilities")
	assertDec(t, "-320", bs.TotalEquity, "equity")
	assertDec(t, "-350", bs.TotalLiabilitiesAndEquity, "liabilities and equity")
}

func TestBuildIncomeStatement(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("700.100", model.Revenue, "-1000"),
		entry("750.720", model.CostOfSales, "400"),
		entry("750.750.1", model.OperatingExpense, "150"),
		entry("750.750.2", model.OperatingExpense, "50"),
		entry("750.775", model.FinanceCost, "20"),
		entry("750.795", model.Tax, "95"),
		entry("300.100", model.NonCurrentAsset, "5000"),
	}

	is := BuildIncomeStatement(entries)

	assertDec(t, "1000", is.TotalRevenue, "revenue")
	assertDec(t, "400", is.TotalCostOfSales, "cost of sales")
	assertDec(t, "600", is.GrossProfit, "gross profit")
	assertDec(t, "200", is.TotalOperatingExpenses, "opex")
	assertDec(t, "400", is.OperatingProfit, "operating profit")
	assertDec(t, "20", is.TotalFinanceCosts, "finance costs")
	assertDec(t, "380", is.ProfitBeforeTax, "profit before tax")
	assertDec(t, "95", is.TotalTaxation, "tax")
	assertDec(t, "285", is.NetProfit, "net profit")
	assert.Len(t, is.OperatingExpenses, 2)
}

func TestBuildIncomeStatement_RevenueAbsoluteAtTotalOnly(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("700.100", model.Revenue, "-1000"),
		entry("700.200", model.Revenue, "200"),
	}

	is := BuildIncomeStatement(entries)
	assertDec(t, "800", is.TotalRevenue, "abs of the sum, not sum of abs")
	assertDec(t, "-1000", is.Revenue[0].FinalAmount, "entries untouched")
}

func TestBuildIncomeStatement_NegativeTaxIsCredit(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("700.100", model.Revenue, "-100"),
		entry("750.795", model.Tax, "-10"),
	}
	is := BuildIncomeStatement(entries)
	assertDec(t, "110", is.NetProfit, "tax refund raises net profit")
}

func TestBuild_Empty(t *testing.T) {
	bs := BuildBalanceSheet(nil)
	assert.True(t, bs.TotalAssets.IsZero())
	assert.NotNil(t, bs.Equity)

	is := BuildIncomeStatement(nil)
	assert.True(t, is.NetProfit.IsZero())
	assert.NotNil(t, is.Taxation)
}

func TestBuild_IndependentOfOrderOfCalls(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("300.100", model.NonCurrentAsset, "10"),
		entry("700.100", model.Revenue, "-10"),
	}
	is1 := BuildIncomeStatement(entries)
	bs1 := BuildBalanceSheet(entries)
	bs2 := BuildBalanceSheet(entries)
	is2 := BuildIncomeStatement(entries)
	assert.Equal(t, bs1, bs2)
	assert.Equal(t, is1, is2)
}

func TestUnclassified(t *testing.T) {
	entries := []model.ClassifiedEntry{
		entry("300.100", model.NonCurrentAsset, "10"),
		entry("XYZ", model.Unclassified, "1"),
	}
	got := Unclassified(entries)
	require.Len(t, got, 1)
	assert.Equal(t, "XYZ", got[0].AccountCode)
}
