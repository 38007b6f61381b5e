// Package store persists projects and their classified entries.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// ErrNotFound is returned when a project or entry does not exist.
var ErrNotFound = errors.New("not found")

// ClassificationUpdate reassigns one entry.
type ClassificationUpdate struct {
	ID             string               `json:"id"`
	Classification model.Classification `json:"classification"`
}

// Store is the persistence collaborator for the pipeline. ReplaceEntries is
// atomic and serialized per project. ListEntries orders by account code.
type Store interface {
	CreateProject(ctx context.Context, info model.ProjectInfo) (model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	ListProjects(ctx context.Context) ([]model.ProjectSummary, error)

	ReplaceEntries(ctx context.Context, projectID string, entries []model.ClassifiedEntry) (int, error)
	ListEntries(ctx context.Context, projectID string) ([]model.ClassifiedEntry, error)
	UpdateClassification(ctx context.Context, entryID string, c model.Classification) error
	UpdateClassifications(ctx context.Context, updates []ClassificationUpdate) error
	AddEntry(ctx context.Context, projectID string, e model.ClassifiedEntry) (model.ClassifiedEntry, error)
	DeleteEntry(ctx context.Context, entryID string) error

	Close() error
}

// Drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store named by driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func checkClassification(c model.Classification) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidClassification, c)
	}
	return nil
}

// manual prepares a hand-entered line for insertion.
func manual(e model.ClassifiedEntry) (model.ClassifiedEntry, error) {
	if e.Classification == "" {
		e.Classification = model.Unclassified
	}
	e = e.WithClassification(e.Classification)
	e.Manual = true
	if err := e.ValidateManual(); err != nil {
		return model.ClassifiedEntry{}, err
	}
	return e, nil
}

// Amounts travel as decimal strings so neither backend rounds them.

func nullText(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

// entryScan receives one entries row before conversion.
type entryScan struct {
	id, code, name string
	amount, final  string
	adjustments    *string
	classification string
	manual         bool
	position       int
}

func (s entryScan) entry() (model.ClassifiedEntry, error) {
	amount, err := decimal.NewFromString(s.amount)
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("entry %s amount: %w", s.id, err)
	}
	final, err := decimal.NewFromString(s.final)
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("entry %s final amount: %w", s.id, err)
	}
	var adj decimal.NullDecimal
	if s.adjustments != nil {
		d, err := decimal.NewFromString(*s.adjustments)
		if err != nil {
			return model.ClassifiedEntry{}, fmt.Errorf("entry %s adjustments: %w", s.id, err)
		}
		adj = decimal.NewNullDecimal(d)
	}
	c, err := model.ParseClassification(s.classification)
	if err != nil {
		return model.ClassifiedEntry{}, fmt.Errorf("entry %s: %w", s.id, err)
	}

	e := model.ClassifiedEntry{
		ID:       s.id,
		Position: s.position,
		Entry: model.Entry{
			AccountCode: s.code,
			AccountName: s.name,
			Amount:      amount,
			Adjustments: adj,
			FinalAmount: final,
		},
		Manual: s.manual,
	}
	return e.WithClassification(c), nil
}
