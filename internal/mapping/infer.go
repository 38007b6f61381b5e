package mapping

import "strings"

// rule selects the first header whose lower-cased text contains any keyword.
type rule struct {
	field    Field
	keywords []string
	exclude  []string
}

// Rules are evaluated independently, so one header may satisfy several fields.
var rules = []rule{
	{field: FieldAccountCode, keywords: []string{"account", "code", "acc"}},
	{field: FieldAccountName, keywords: []string{"name", "description", "desc"}},
	{field: FieldAmount, keywords: []string{"prelim", "amount", "balance", "debit", "credit"}},
	{field: FieldAdjustments, keywords: []string{"adj", "adjustment"}},
	{field: FieldFinalAmount, keywords: []string{"rep", "final", "total", "closing"}, exclude: []string{"12/23"}},
}

func (r rule) match(header string) bool {
	lower := strings.ToLower(header)
	for _, x := range r.exclude {
		if strings.Contains(lower, x) {
			return false
		}
	}
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Infer guesses a Mapping from the header row. It never fails: fields with no
// matching header stay unmapped, except accountCode, which falls back to the
// first header.
func Infer(headers []string) Mapping {
	var m Mapping
	for _, r := range rules {
		for _, h := range headers {
			if r.match(h) {
				m.Set(r.field, h)
				break
			}
		}
	}
	if m.AccountCode == "" && len(headers) > 0 && headers[0] != "" {
		m.AccountCode = headers[0]
	}
	return m
}
