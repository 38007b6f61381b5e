package classify

import (
	"strings"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Rule assigns a classification to every account code starting with Prefix.
type Rule struct {
	Prefix         string
	Classification model.Classification
}

// Rules is an ordered rule table. The first matching rule wins, so more
// specific prefixes must come before the ones they overlap.
type Rules []Rule

// DefaultRules returns the standard chart layout.
func DefaultRules() Rules {
	return Rules{
		{Prefix: "300", Classification: model.NonCurrentAsset},
		{Prefix: "400", Classification: model.CurrentAsset},
		{Prefix: "500", Classification: model.NonCurrentLiability},
		{Prefix: "600", Classification: model.CurrentLiability},
		{Prefix: "800", Classification: model.Equity},
		{Prefix: "700", Classification: model.Revenue},
		{Prefix: "750.720", Classification: model.CostOfSales},
		{Prefix: "750.750", Classification: model.OperatingExpense},
		{Prefix: "750.775", Classification: model.FinanceCost},
		{Prefix: "750.795", Classification: model.Tax},
		{Prefix: "750", Classification: model.OperatingExpense},
	}
}

// Match returns the classification of the first rule whose prefix starts code,
// or Unclassified.
func (rs Rules) Match(code string) model.Classification {
	code = strings.TrimSpace(code)
	for _, r := range rs {
		if strings.HasPrefix(code, r.Prefix) {
			return r.Classification
		}
	}
	return model.Unclassified
}
