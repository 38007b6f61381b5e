package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks input rejected by validation.
var ErrInvalid = errors.New("invalid input")

// DateLayout is the period-end date format used in config files and requests.
const DateLayout = "2006-01-02"

// ProjectInfo is the descriptor renderers print in statement headings.
type ProjectInfo struct {
	Name        string    `json:"name"`
	CompanyName string    `json:"companyName"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// Validate checks that the project has a name, a company and a period end.
func (p ProjectInfo) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.CompanyName) == "" {
		missing = append(missing, "company name")
	}
	if p.PeriodEnd.IsZero() {
		missing = append(missing, "period end")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: project requires %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

// ParsePeriodEnd parses a YYYY-MM-DD date.
func ParsePeriodEnd(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: period end %q is not YYYY-MM-DD", ErrInvalid, s)
	}
	return t, nil
}

// Project groups the entries of one trial balance.
type Project struct {
	ID string `json:"id"`
	ProjectInfo
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectSummary is a Project with its entry count, as shown in listings.
type ProjectSummary struct {
	Project
	EntryCount int `json:"entryCount"`
}
