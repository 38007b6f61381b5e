package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// PDF renders an A4 document with one statement per page.
type PDF struct{}

func (r *PDF) ContentType() string { return "application/pdf" }

func (r *PDF) Extension() string { return "pdf" }

const (
	pdfMargin      = 15.0
	pdfLabelWidth  = 130.0
	pdfAmountWidth = 50.0
	pdfLineHeight  = 6.0
	pdfFont        = "Helvetica"
)

func (r *PDF) Render(info model.ProjectInfo, bs statement.BalanceSheet, is statement.IncomeStatement) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(info.CompanyName+" Financial Report", true)
	pdf.SetCreator("Financial Report Creator", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, st := range []Statement{BalanceSheetLayout(info, bs), IncomeStatementLayout(info, is)} {
		writePDF(pdf, tr, info.CompanyName, st)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDF(pdf *fpdf.Fpdf, tr func(string) string, company string, st Statement) {
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont(pdfFont, "B", 18)
	pdf.CellFormat(0, 9, tr(company), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 8, tr(st.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, tr(st.Subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetFillColor(rgb(bandHeader))
	pdf.CellFormat(pdfLabelWidth, pdfLineHeight+1, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(pdfAmountWidth, pdfLineHeight+1, "Amount", "B", 1, "R", true, 0, "")

	for _, line := range st.Lines {
		if line.Kind == KindBlank {
			pdf.Ln(pdfLineHeight / 2)
			continue
		}

		style, size, indent, border := "B", 10.0, "", ""
		switch line.Kind {
		case KindItem:
			style, indent = "", "    "
		case KindSubtotal:
			border = "T"
		case KindGrandTotal:
			size, border = 11, "TB"
		}
		pdf.SetFont(pdfFont, style, size)

		fill := line.Band != ""
		if fill {
			pdf.SetFillColor(rgb(line.Band))
		}
		amt := ""
		if line.Amount.Valid {
			amt = FormatAmount(line.Amount.Decimal)
		}
		pdf.CellFormat(pdfLabelWidth, pdfLineHeight, tr(indent+line.Label), border, 0, "L", fill, 0, "")
		pdf.CellFormat(pdfAmountWidth, pdfLineHeight, amt, border, 1, "R", fill, 0, "")
	}
}
