// Package render turns aggregated statements into downloadable documents.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// Renderer produces one document holding both statements.
type Renderer interface {
	Render(info model.ProjectInfo, bs statement.BalanceSheet, is statement.IncomeStatement) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for a format name or file extension.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "xlsx", "excel":
		return &Excel{}, nil
	case "pdf":
		return &PDF{}, nil
	case "text", "txt":
		return &Text{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q (supported: xlsx, pdf, text)", format)
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename is the download name for a report in r's format.
func Filename(info model.ProjectInfo, r Renderer) string {
	return unsafeFilename.ReplaceAllString(info.CompanyName, "_") + "_Financial_Report." + r.Extension()
}
