// Package mapping infers which spreadsheet columns hold the trial-balance fields.
package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMappingIncomplete is returned when a required field has no column.
var ErrMappingIncomplete = errors.New("column mapping incomplete")

// Field names a semantic trial-balance column.
type Field string

const (
	FieldAccountCode Field = "accountCode"
	FieldAccountName Field = "accountName"
	FieldAmount      Field = "amount"
	FieldAdjustments Field = "adjustments"
	FieldFinalAmount Field = "finalAmount"
)

// Mapping assigns a source header to each field. An empty string means unmapped.
type Mapping struct {
	AccountCode string `json:"accountCode" yaml:"account_code"`
	AccountName string `json:"accountName" yaml:"account_name"`
	Amount      string `json:"amount" yaml:"amount"`
	Adjustments string `json:"adjustments" yaml:"adjustments"`
	FinalAmount string `json:"finalAmount" yaml:"final_amount"`
}

// Header returns the header mapped to f.
func (m Mapping) Header(f Field) string {
	switch f {
	case FieldAccountCode:
		return m.AccountCode
	case FieldAccountName:
		return m.AccountName
	case FieldAmount:
		return m.Amount
	case FieldAdjustments:
		return m.Adjustments
	case FieldFinalAmount:
		return m.FinalAmount
	default:
		return ""
	}
}

// Set assigns header to f.
func (m *Mapping) Set(f Field, header string) {
	switch f {
	case FieldAccountCode:
		m.AccountCode = header
	case FieldAccountName:
		m.AccountName = header
	case FieldAmount:
		m.Amount = header
	case FieldAdjustments:
		m.Adjustments = header
	case FieldFinalAmount:
		m.FinalAmount = header
	}
}

// Override returns m with every non-empty field of o applied on top.
func (m Mapping) Override(o Mapping) Mapping {
	for _, f := range Fields() {
		if h := o.Header(f); h != "" {
			m.Set(f, h)
		}
	}
	return m
}

// Fields returns all fields in mapping order.
func Fields() []Field {
	return []Field{FieldAccountCode, FieldAccountName, FieldAmount, FieldAdjustments, FieldFinalAmount}
}

// IncompleteError lists the required fields that are unmapped.
type IncompleteError struct {
	Missing []Field
}

func (e *IncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: missing %s", ErrMappingIncomplete, strings.Join(names, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrMappingIncomplete }

// Validate reports an *IncompleteError when accountCode or amount is unmapped.
func (m Mapping) Validate() error {
	var missing []Field
	if m.AccountCode == "" {
		missing = append(missing, FieldAccountCode)
	}
	if m.Amount == "" {
		missing = append(missing, FieldAmount)
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}
