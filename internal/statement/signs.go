package statement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Sign is the expected sign of a classification's final amounts.
type Sign int

const (
	SignAny Sign = iota
	SignDebit
	SignCredit
)

func (s Sign) String() string {
	switch s {
	case SignDebit:
		return ">= 0"
	case SignCredit:
		return "<= 0"
	default:
		return "any"
	}
}

// ExpectedSign returns the sign aggregation assumes for c. Debit balances are
// non-negative and credit balances non-positive.
func ExpectedSign(c model.Classification) Sign {
	switch c {
	case model.NonCurrentAsset, model.CurrentAsset,
		model.CostOfSales, model.OperatingExpense, model.FinanceCost:
		return SignDebit
	case model.NonCurrentLiability, model.CurrentLiability, model.Equity, model.Revenue:
		return SignCredit
	default:
		return SignAny
	}
}

// SignWarning flags an entry whose final amount has the opposite sign to the
// one its classification expects.
type SignWarning struct {
	EntryID        string               `json:"entryId,omitempty"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	Classification model.Classification `json:"classification"`
	FinalAmount    decimal.Decimal      `json:"finalAmount"`
	Expected       string               `json:"expected"`
}

func (w SignWarning) String() string {
	return fmt.Sprintf("%s %s: %s is %s, expected %s",
		w.AccountCode, w.AccountName, w.Classification.Label(), w.FinalAmount.StringFixed(2), w.Expected)
}

// CheckSigns reports entries that break the sign convention. Totals are not
// affected; the findings are for review.
func CheckSigns(entries []model.ClassifiedEntry) []SignWarning {
	var warnings []SignWarning
	for _, e := range entries {
		expected := ExpectedSign(e.Classification)
		bad := (expected == SignDebit && e.FinalAmount.IsNegative()) ||
			(expected == SignCredit && e.FinalAmount.IsPositive())
		if !bad {
			continue
		}
		warnings = append(warnings, SignWarning{
			EntryID:        e.ID,
			AccountCode:    e.AccountCode,
			AccountName:    e.AccountName,
			Classification: e.Classification,
			FinalAmount:    e.FinalAmount,
			Expected:       expected.String(),
		})
	}
	return warnings
}
