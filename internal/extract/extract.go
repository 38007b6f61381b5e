// Package extract turns mapped spreadsheet rows into trial-balance entries.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Fallback records a numeric cell that could not be parsed and was read as zero.
type Fallback struct {
	Row   int           `json:"row"` // 1-based data row
	Field mapping.Field `json:"field"`
	Raw   string        `json:"raw"`
}

// Extract converts rows into entries using m. Rows with neither code nor name,
// "net income" summary rows without a code, and zero-balance parent category
// rows that have child rows are dropped. Output preserves input order.
//
// Unparseable amounts are read as zero and reported in the returned fallbacks.
func Extract(rows []model.RawRow, m mapping.Mapping) ([]model.Entry, []Fallback) {
	codes := make([]string, len(rows))
	for i, row := range rows {
		codes[i] = strings.TrimSpace(cell(row, m.AccountCode))
	}

	var entries []model.Entry
	var fallbacks []Fallback
	for i, row := range rows {
		code := codes[i]
		name := strings.TrimSpace(cell(row, m.AccountName))

		if code == "" && name == "" {
			continue
		}
		if code == "" && strings.Contains(strings.ToLower(name), "net income") {
			continue
		}

		parse := func(f mapping.Field) decimal.Decimal {
			raw := cell(row, m.Header(f))
			d, ok := ParseAmount(raw)
			if !ok {
				fallbacks = append(fallbacks, Fallback{Row: i + 1, Field: f, Raw: raw})
			}
			return d
		}

		amount := decimal.Zero
		if m.Amount != "" {
			amount = parse(mapping.FieldAmount)
		}

		var adjustments decimal.NullDecimal
		if m.Adjustments != "" {
			adjustments = model.NormalizeAdjustments(decimal.NewNullDecimal(parse(mapping.FieldAdjustments)))
		}

		var final decimal.Decimal
		if m.FinalAmount != "" {
			final = parse(mapping.FieldFinalAmount)
		} else {
			final = amount
			if adjustments.Valid {
				final = amount.Add(adjustments.Decimal)
			}
		}

		if amount.IsZero() && final.IsZero() && !strings.Contains(code, "BDO") && hasChildren(code, codes) {
			continue
		}

		entries = append(entries, model.Entry{
			AccountCode: code,
			AccountName: name,
			Amount:      amount,
			Adjustments: adjustments,
			FinalAmount: final,
		})
	}
	return entries, fallbacks
}

// hasChildren reports whether code is a parent category header with at least
// one row whose code continues its numeric prefix.
func hasChildren(code string, codes []string) bool {
	prefix, ok := model.CategoryPrefix(code)
	if !ok {
		return false
	}
	prefix += "."
	for _, c := range codes {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func cell(row model.RawRow, header string) string {
	if header == "" {
		return ""
	}
	return row[header]
}
