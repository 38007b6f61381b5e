// Package pipeline runs a parsed sheet through mapping inference, extraction
// and classification to produce a preview for review.
package pipeline

import (
	"github.com/kibe0711-png/financial-report-creator/internal/classify"
	"github.com/kibe0711-png/financial-report-creator/internal/extract"
	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// Preview is the result of a run, ready to be reviewed or stored.
type Preview struct {
	Headers   []string                `json:"headers"`
	Mapping   mapping.Mapping         `json:"mapping"`
	Entries   []model.ClassifiedEntry `json:"entries"`
	Fallbacks []extract.Fallback      `json:"fallbacks,omitempty"`
	Warnings  []statement.SignWarning `json:"warnings,omitempty"`
}

// Unclassified counts entries awaiting manual classification.
func (p Preview) Unclassified() int {
	return len(statement.Unclassified(p.Entries))
}

// Pipeline holds the classifier used for every run.
type Pipeline struct {
	classifier *classify.Classifier
}

// New creates a Pipeline. A nil classifier uses the default rules.
func New(c *classify.Classifier) *Pipeline {
	if c == nil {
		c = classify.Default
	}
	return &Pipeline{classifier: c}
}

// Run infers a mapping from headers, applies any non-empty override fields, and
// when the mapping is complete extracts and classifies rows. An incomplete
// mapping returns a *mapping.IncompleteError along with a preview carrying the
// headers and mapping so the caller can ask for the missing columns.
func (p *Pipeline) Run(headers []string, rows []model.RawRow, override mapping.Mapping) (Preview, error) {
	m := mapping.Infer(headers).Override(override)
	preview := Preview{Headers: headers, Mapping: m}
	if err := m.Validate(); err != nil {
		return preview, err
	}

	entries, fallbacks := extract.Extract(rows, m)
	preview.Entries = p.classifier.Classify(entries)
	preview.Fallbacks = fallbacks
	preview.Warnings = statement.CheckSigns(preview.Entries)
	return preview, nil
}
