package classify

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

const (
	numFields         = 2
	colPrefix         = 0
	colClassification = 1
)

// ReadRules reads classification-rules.csv. Row order is rule order.
func ReadRules(r io.Reader) (Rules, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rules CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rules Rules
	for i, rec := range records[1:] {
		rule, err := UnmarshalRule(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// WriteRules writes classification-rules.csv.
func WriteRules(w io.Writer, rules Rules) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"prefix", "classification"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rule := range rules {
		if err := cw.Write(MarshalRule(rule)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRule converts a Rule to a CSV row.
func MarshalRule(rule Rule) []string {
	row := make([]string, numFields)
	row[colPrefix] = rule.Prefix
	row[colClassification] = string(rule.Classification)
	return row
}

// UnmarshalRule converts a CSV row to a Rule.
func UnmarshalRule(record []string) (Rule, error) {
	if len(record) != numFields {
		return Rule{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	prefix := strings.TrimSpace(record[colPrefix])
	if prefix == "" {
		return Rule{}, errors.New("empty prefix")
	}

	cl, err := model.ParseClassification(strings.TrimSpace(record[colClassification]))
	if err != nil {
		return Rule{}, fmt.Errorf("parsing classification: %w", err)
	}

	return Rule{Prefix: prefix, Classification: cl}, nil
}
