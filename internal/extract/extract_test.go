package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fullMapping = mapping.Mapping{
	AccountCode: "Account",
	AccountName: "Description",
	Amount:      "Prelim",
	Adjustments: "Adj",
	FinalAmount: "Rep",
}

func TestExtract_FinalAmountComputedWithoutColumn(t *testing.T) {
	m := mapping.Mapping{AccountCode: "Account", AccountName: "Description", Amount: "Prelim"}
	rows := []model.RawRow{
		{"Account": "300.100", "Description": "Land", "Prelim": "100"},
	}

	entries, fallbacks := Extract(rows, m)
	require.Len(t, entries, 1)
	assert.Empty(t, fallbacks)
	assert.True(t, entries[0].FinalAmount.Equal(dec("100")))
	assert.False(t, entries[0].Adjustments.Valid)
}

func TestExtract_AdjustmentsAddedToAmount(t *testing.T) {
	m := mapping.Mapping{AccountCode: "Account", Amount: "Prelim", Adjustments: "Adj"}
	rows := []model.RawRow{
		{"Account": "400.100", "Prelim": "1,000.00", "Adj": "(250)"},
	}

	entries, _ := Extract(rows, m)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Adjustments.Valid)
	assert.True(t, entries[0].Adjustments.Decimal.Equal(dec("-250")))
	assert.True(t, entries[0].FinalAmount.Equal(dec("750")))
}

func TestExtract_ZeroAdjustmentIsAbsent(t *testing.T) {
	m := mapping.Mapping{AccountCode: "Account", Amount: "Prelim", Adjustments: "Adj"}
	rows := []model.RawRow{
		{"Account": "400.100", "Prelim": "10", "Adj": "0"},
		{"Account": "400.200", "Prelim": "10", "Adj": ""},
	}

	entries, _ := Extract(rows, m)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, e.Adjustments.Valid, "%s", e.AccountCode)
		assert.True(t, e.FinalAmount.Equal(dec("10")))
	}
}

func TestExtract_FinalAmountColumnTakenVerbatim(t *testing.T) {
	rows := []model.RawRow{
		{"Account": "600.100", "Description": "Trade payables", "Prelim": "-500", "Adj": "-20", "Rep": "-530"},
	}

	entries, _ := Extract(rows, fullMapping)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].FinalAmount.Equal(dec("-530")), "mapped final amount is not recomputed")
}

func TestExtract_SkipsBlankAndNetIncomeRows(t *testing.T) {
	rows := []model.RawRow{
		{"Account": "  ", "Description": "", "Prelim": "5"},
		{"Account": "", "Description": "Net Income", "Prelim": "12345", "Rep": "12345"},
		{"Account": "", "Description": "Total net income for the year", "Prelim": "1"},
		{"Account": "", "Description": "Memo line", "Prelim": "1"},
		{"Account": "800.900", "Description": "Net income carried forward", "Prelim": "7"},
	}

	entries, _ := Extract(rows, fullMapping)
	require.Len(t, entries, 2)
	assert.Equal(t, "Memo line", entries[0].AccountName)
	assert.Equal(t, "800.900", entries[1].AccountCode, "net income rows with a code are kept")
}

func TestExtract_TrimsCodeAndName(t *testing.T) {
	rows := []model.RawRow{{"Account": " 300.100 ", "Description": "  Land ", "Prelim": "1"}}
	entries, _ := Extract(rows, fullMapping)
	require.Len(t, entries, 1)
	assert.Equal(t, "300.100", entries[0].AccountCode)
	assert.Equal(t, "Land", entries[0].AccountName)
}

func TestExtract_ParentCategorySuppression(t *testing.T) {
	rows := []model.RawRow{
		{"Account": "300.305 Furniture", "Prelim": "0", "Rep": "0"},
		{"Account": "300.305.010", "Description": "Office chairs", "Prelim": "800", "Rep": "800"},
		{"Account": "300.400 Vehicles", "Prelim": "0", "Rep": "0"},
		{"Account": "300.500 Land", "Prelim": "50", "Rep": "50"},
		{"Account": "300.500.010", "Description": "Plot A", "Prelim": "50", "Rep": "50"},
		{"Account": "BDO 300.600 Detail", "Prelim": "0", "Rep": "0"},
		{"Account": "300.600.1", "Prelim": "0", "Rep": "0"},
	}

	entries, _ := Extract(rows, fullMapping)
	codes := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = e.AccountCode
	}
	assert.Equal(t, []string{
		"300.305.010",       // parent with children and zero balance dropped
		"300.400 Vehicles",  // zero but no children: kept
		"300.500 Land",      // has children but a balance: kept
		"300.500.010",
		"BDO 300.600 Detail", // BDO rows are never suppressed
		"300.600.1",
	}, codes)
}

func TestExtract_UnmappedAmountDefaultsToZero(t *testing.T) {
	m := mapping.Mapping{AccountCode: "Account"}
	entries, fallbacks := Extract([]model.RawRow{{"Account": "700.100"}}, m)
	require.Len(t, entries, 1)
	assert.Empty(t, fallbacks)
	assert.True(t, entries[0].Amount.IsZero())
	assert.True(t, entries[0].FinalAmount.IsZero())
}

func TestExtract_ParseFallbackReported(t *testing.T) {
	rows := []model.RawRow{
		{"Account": "400.100", "Prelim": "12", "Adj": "", "Rep": "12"},
		{"Account": "400.200", "Prelim": "#REF!", "Adj": "", "Rep": "5"},
	}

	entries, fallbacks := Extract(rows, fullMapping)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Amount.IsZero())
	require.Len(t, fallbacks, 1)
	assert.Equal(t, Fallback{Row: 2, Field: mapping.FieldAmount, Raw: "#REF!"}, fallbacks[0])
}

func TestExtract_HugeExponentFallsBackToZero(t *testing.T) {
	m := mapping.Mapping{AccountCode: "Account", Amount: "Prelim", Adjustments: "Adj"}
	rows := []model.RawRow{
		{"Account": "400.100", "Prelim": "1e900000000", "Adj": "0.5"},
	}

	entries, fallbacks := Extract(rows, m)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.IsZero())
	assert.Equal(t, "0.5", entries[0].FinalAmount.String())
	require.Len(t, fallbacks, 1)
	assert.Equal(t, Fallback{Row: 1, Field: mapping.FieldAmount, Raw: "1e900000000"}, fallbacks[0])
}

func TestExtract_PreservesOrderAndIsDeterministic(t *testing.T) {
	rows := []model.RawRow{
		{"Account": "700.100", "Prelim": "-10"},
		{"Account": "300.100", "Prelim": "5"},
		{"Account": "500.100", "Prelim": "-3"},
	}
	a, _ := Extract(rows, fullMapping)
	b, _ := Extract(rows, fullMapping)
	require.Len(t, a, 3)
	assert.Equal(t, "700.100", a[0].AccountCode)
	assert.Equal(t, "300.100", a[1].AccountCode)
	assert.Equal(t, "500.100", a[2].AccountCode)
	assert.Equal(t, a, b)
}
