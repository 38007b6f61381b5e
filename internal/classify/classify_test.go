package classify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

func entries(codes ...string) []model.Entry {
	out := make([]model.Entry, len(codes))
	for i, c := range codes {
		out[i] = model.NewEntry(c, "", decimal.NewFromInt(int64(i+1)), decimal.NullDecimal{})
	}
	return out
}

func TestClassifyOne(t *testing.T) {
	tests := []struct {
		code    string
		want    model.Classification
		section model.ReportSection
	}{
		{"300.100 Land", model.NonCurrentAsset, model.SectionBalanceSheet},
		{"400.200", model.CurrentAsset, model.SectionBalanceSheet},
		{"500.010", model.NonCurrentLiability, model.SectionBalanceSheet},
		{"600.100", model.CurrentLiability, model.SectionBalanceSheet},
		{"800.100", model.Equity, model.SectionBalanceSheet},
		{"700.100", model.Revenue, model.SectionPnL},
		{"750.720.010 Materials", model.CostOfSales, model.SectionPnL},
		{"750.750.200", model.OperatingExpense, model.SectionPnL},
		{"750.775.100", model.FinanceCost, model.SectionPnL},
		{"750.795", model.Tax, model.SectionPnL},
		{"750.900 Misc", model.OperatingExpense, model.SectionPnL},
		{"  300.100", model.NonCurrentAsset, model.SectionBalanceSheet},
		{"BDO-001", model.Unclassified, model.SectionBalanceSheet},
		{"999.000", model.Unclassified, model.SectionBalanceSheet},
		{"", model.Unclassified, model.SectionBalanceSheet},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, section := ClassifyOne(tt.code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.section, section)
		})
	}
}

func TestClassify_DetailRowsInherit(t *testing.T) {
	got := Classify(entries("300.100 PPE", "BDO-001 Detail A"))
	require.Len(t, got, 2)
	assert.Equal(t, model.NonCurrentAsset, got[1].Classification)
	assert.Equal(t, model.SectionBalanceSheet, got[1].Section)
}

func TestClassify_DetailRowsDoNotUpdateState(t *testing.T) {
	got := Classify(entries("750.720 Cost of sales", "BDO-1", "BDO-2", "XYZ", "BDO-3"))
	require.Len(t, got, 5)
	assert.Equal(t, model.CostOfSales, got[1].Classification)
	assert.Equal(t, model.CostOfSales, got[2].Classification)
	assert.Equal(t, model.Unclassified, got[3].Classification, "unmatched rows are not inherited")
	assert.Equal(t, model.CostOfSales, got[4].Classification, "unclassified rows leave state alone")
}

func TestClassify_DetailBeforeAnyParent(t *testing.T) {
	got := Classify(entries("BDO-001", "300.100"))
	assert.Equal(t, model.Unclassified, got[0].Classification)
	assert.Equal(t, model.SectionBalanceSheet, got[0].Section)
}

func TestClassify_ParentCategoryUsesNumericPrefix(t *testing.T) {
	got := Classify(entries("750.775 Interest paid", "BDO x", "700.100"))
	assert.Equal(t, model.FinanceCost, got[0].Classification)
	assert.Equal(t, model.FinanceCost, got[1].Classification)
	assert.Equal(t, model.Revenue, got[2].Classification)
}

func TestClassify_PreservesOrderAndEntries(t *testing.T) {
	in := entries("700.100", "300.100", "BDO-9")
	got := Classify(in)
	require.Len(t, got, len(in))
	for i := range in {
		assert.Equal(t, in[i], got[i].Entry)
		assert.Empty(t, got[i].ID)
		assert.False(t, got[i].Manual)
	}
}

func TestClassify_OrderIsLoadBearing(t *testing.T) {
	a := Classify(entries("300.100", "BDO-1", "700.100"))
	b := Classify(entries("700.100", "BDO-1", "300.100"))
	assert.Equal(t, model.NonCurrentAsset, a[1].Classification)
	assert.Equal(t, model.Revenue, b[1].Classification)
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify(entries("300.100 Land", "BDO-1", "600.100", "750.720.010", "BDO-2", "foo"))

	second := Default.Reclassify(first)
	assert.Equal(t, first, second)

	// Reclassification ignores whatever classification the entries carried.
	scrambled := make([]model.ClassifiedEntry, len(first))
	for i, e := range first {
		scrambled[i] = e.WithClassification(model.Tax)
	}
	assert.Equal(t, first, Default.Reclassify(scrambled))
}

func TestReclassify_KeepsIDsAndManualFlag(t *testing.T) {
	in := []model.ClassifiedEntry{
		{ID: "a", Entry: model.NewEntry("700.100", "Sales", decimal.NewFromInt(-5), decimal.NullDecimal{}), Manual: true},
		{ID: "b", Entry: model.NewEntry("BDO-1", "Detail", decimal.NewFromInt(-1), decimal.NullDecimal{})},
	}
	got := Default.Reclassify(in)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].Manual)
	assert.Equal(t, model.Revenue, got[1].Classification)
	assert.Equal(t, model.SectionPnL, got[1].Section)
}

func TestStep(t *testing.T) {
	c := Default
	state, r := c.Step(Unclassified, "300.305 Furniture")
	assert.Equal(t, model.NonCurrentAsset, r.Classification)
	assert.Equal(t, r, state)

	next, r := c.Step(state, "nope")
	assert.Equal(t, Unclassified, r)
	assert.Equal(t, state, next)
}

func TestCustomRules(t *testing.T) {
	c := New(Rules{
		{Prefix: "1", Classification: model.CurrentAsset},
		{Prefix: "4", Classification: model.Revenue},
	})
	got := c.Classify(entries("1000", "BDO", "4000", "300.100"))
	assert.Equal(t, model.CurrentAsset, got[0].Classification)
	assert.Equal(t, model.CurrentAsset, got[1].Classification)
	assert.Equal(t, model.Revenue, got[2].Classification)
	assert.Equal(t, model.Unclassified, got[3].Classification)
}

func TestNew_EmptyRulesUseDefaults(t *testing.T) {
	assert.Equal(t, DefaultRules(), New(nil).Rules())
}
