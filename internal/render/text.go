package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// Text renders both statements as fixed-width plain text for terminals.
type Text struct{}

func (r *Text) ContentType() string { return "text/plain; charset=utf-8" }

func (r *Text) Extension() string { return "txt" }

const (
	textLabelWidth  = 50
	textAmountWidth = 20
)

func (r *Text) Render(info model.ProjectInfo, bs statement.BalanceSheet, is statement.IncomeStatement) ([]byte, error) {
	var buf bytes.Buffer
	for i, st := range []Statement{BalanceSheetLayout(info, bs), IncomeStatementLayout(info, is)} {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		writeText(&buf, info.CompanyName, st)
	}
	return buf.Bytes(), nil
}

func writeText(buf *bytes.Buffer, company string, st Statement) {
	rule := strings.Repeat("=", textLabelWidth+textAmountWidth)
	fmt.Fprintln(buf, company)
	fmt.Fprintln(buf, st.Title)
	fmt.Fprintln(buf, st.Subtitle)
	fmt.Fprintln(buf, rule)
	fmt.Fprintf(buf, "%-*s%*s\n", textLabelWidth, "Description", textAmountWidth, "Amount")
	fmt.Fprintln(buf, strings.Repeat("-", textLabelWidth+textAmountWidth))

	for _, line := range st.Lines {
		text := line.Label
		switch line.Kind {
		case KindBlank:
			fmt.Fprintln(buf)
			continue
		case KindItem:
			text = "  " + text
		case KindGroup:
			text = " " + text
		}
		amt := ""
		if line.Amount.Valid {
			amt = FormatAmount(line.Amount.Decimal)
		}
		if r := []rune(text); len(r) > textLabelWidth-1 {
			text = string(r[:textLabelWidth-2]) + "~"
		}
		fmt.Fprintf(buf, "%-*s%*s\n", textLabelWidth, text, textAmountWidth, amt)
		if line.Kind == KindGrandTotal {
			fmt.Fprintln(buf, rule)
		}
	}
}
