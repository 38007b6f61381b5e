// Package classify assigns statement classifications to trial-balance entries
// from their account codes.
package classify

import (
	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Result is a classification paired with the section it reports in.
type Result struct {
	Classification model.Classification
	Section        model.ReportSection
}

// Unclassified is the starting state of every scan.
var Unclassified = Result{Classification: model.Unclassified, Section: model.SectionBalanceSheet}

// Classifier classifies account codes against a rule table.
type Classifier struct {
	rules Rules
}

// New creates a Classifier. An empty rule table falls back to DefaultRules.
func New(rules Rules) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Default classifies with DefaultRules.
var Default = New(nil)

// Rules returns the classifier's rule table.
func (c *Classifier) Rules() Rules {
	return c.rules
}

// One classifies a single code with no inheritance.
func (c *Classifier) One(code string) Result {
	cl := c.rules.Match(code)
	return Result{Classification: cl, Section: cl.Section()}
}

// Step classifies code given the last parent result and returns the new state
// alongside the row's result.
//
// Parent category rows ("300.305 Furniture") classify their numeric prefix and
// become the new state. Detail rows ("BDO...") inherit the state unchanged.
// Any other row classifies its own code and becomes the state unless it is
// unclassified.
func (c *Classifier) Step(state Result, code string) (Result, Result) {
	if prefix, ok := model.CategoryPrefix(code); ok {
		r := c.One(prefix)
		return r, r
	}
	if model.IsDetailCode(code) {
		return state, state
	}
	r := c.One(code)
	if r.Classification != model.Unclassified {
		return r, r
	}
	return state, r
}

// Classify classifies entries in order. The output is one-to-one with the input.
func (c *Classifier) Classify(entries []model.Entry) []model.ClassifiedEntry {
	out := make([]model.ClassifiedEntry, len(entries))
	state := Unclassified
	for i, e := range entries {
		var r Result
		state, r = c.Step(state, e.AccountCode)
		out[i] = model.ClassifiedEntry{
			Entry:          e,
			Classification: r.Classification,
			Section:        r.Section,
		}
	}
	return out
}

// Reclassify re-runs the scan over already classified entries, keeping ids,
// amounts and manual flags. Only account codes influence the result.
func (c *Classifier) Reclassify(entries []model.ClassifiedEntry) []model.ClassifiedEntry {
	out := make([]model.ClassifiedEntry, len(entries))
	state := Unclassified
	for i, e := range entries {
		var r Result
		state, r = c.Step(state, e.AccountCode)
		out[i] = e.WithClassification(r.Classification)
	}
	return out
}

// ClassifyOne classifies code with the default rules.
func ClassifyOne(code string) (model.Classification, model.ReportSection) {
	r := Default.One(code)
	return r.Classification, r.Section
}

// Classify classifies entries with the default rules.
func Classify(entries []model.Entry) []model.ClassifiedEntry {
	return Default.Classify(entries)
}
