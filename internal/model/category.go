package model

import (
	"regexp"
	"strings"
	"unicode"
)

var parentCategory = regexp.MustCompile(`^\d{3}(\.\d+)*\s`)

// CategoryPrefix reports whether code is shaped like a parent category row
// ("300.305 Furniture") and returns its numeric prefix ("300.305").
func CategoryPrefix(code string) (string, bool) {
	if !parentCategory.MatchString(code) {
		return "", false
	}
	return code[:strings.IndexFunc(code, unicode.IsSpace)], true
}

// IsDetailCode reports whether code is a sub-ledger detail line ("BDO-001")
// that carries no classifiable structure of its own.
func IsDetailCode(code string) bool {
	return strings.HasPrefix(code, "BDO")
}
