package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

// Excel renders a workbook with one sheet per statement.
type Excel struct{}

func (r *Excel) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *Excel) Extension() string { return "xlsx" }

const currencyFormat = "#,##0.00"

func (r *Excel) Render(info model.ProjectInfo, bs statement.BalanceSheet, is statement.IncomeStatement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{Creator: "Financial Report Creator"}); err != nil {
		return nil, fmt.Errorf("setting document properties: %w", err)
	}

	w := &sheetWriter{f: f, styles: make(map[styleKey]int)}
	statements := []Statement{
		BalanceSheetLayout(info, bs),
		IncomeStatementLayout(info, is),
	}
	for i, st := range statements {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), st.Name); err != nil {
				return nil, fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(st.Name); err != nil {
			return nil, fmt.Errorf("adding sheet %q: %w", st.Name, err)
		}
		if err := w.write(st, info.CompanyName); err != nil {
			return nil, fmt.Errorf("writing %s: %w", st.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styleKey struct {
	kind   Kind
	band   string
	size   float64
	amount bool
}

type sheetWriter struct {
	f      *excelize.File
	styles map[styleKey]int
}

func (w *sheetWriter) style(k styleKey) (int, error) {
	if id, ok := w.styles[k]; ok {
		return id, nil
	}
	s := &excelize.Style{}
	if k.kind != KindItem && k.kind != KindBlank {
		s.Font = &excelize.Font{Bold: true, Size: k.size}
	}
	if k.band != "" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{k.band}}
	}
	if k.kind == KindGrandTotal && k.amount {
		s.Border = []excelize.Border{
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 6},
		}
	}
	if k.amount {
		format := currencyFormat
		s.CustomNumFmt = &format
	}
	id, err := w.f.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("creating style: %w", err)
	}
	w.styles[k] = id
	return id, nil
}

func (w *sheetWriter) set(sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(sheet, cell, value)
}

func (w *sheetWriter) styleRow(sheet string, row int, label, amt styleKey) error {
	for col, k := range map[int]styleKey{1: label, 2: amt} {
		id, err := w.style(k)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, id); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) write(st Statement, company string) error {
	sheet := st.Name
	if err := w.f.SetColWidth(sheet, "A", "A", 50); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return err
	}

	titles := []struct {
		text string
		size float64
	}{{company, 16}, {st.Title, 14}, {st.Subtitle, 0}}
	for i, t := range titles {
		if err := w.set(sheet, 1, i+1, t.text); err != nil {
			return err
		}
		if t.size > 0 {
			if err := w.styleRow(sheet, i+1, styleKey{kind: KindSection, size: t.size}, styleKey{kind: KindSection, size: t.size}); err != nil {
				return err
			}
		}
	}

	row := 5
	if err := w.set(sheet, 1, row, "Description"); err != nil {
		return err
	}
	if err := w.set(sheet, 2, row, "Amount"); err != nil {
		return err
	}
	header := styleKey{kind: KindSection, band: bandHeader}
	if err := w.styleRow(sheet, row, header, header); err != nil {
		return err
	}

	for _, line := range st.Lines {
		row++
		if line.Kind == KindBlank {
			continue
		}
		text := line.Label
		if line.Kind == KindItem {
			text = "  " + text
		}
		if err := w.set(sheet, 1, row, text); err != nil {
			return err
		}
		if line.Amount.Valid {
			if err := w.set(sheet, 2, row, line.Amount.Decimal.InexactFloat64()); err != nil {
				return err
			}
		}
		var size float64
		if line.Kind == KindGrandTotal {
			size = 12
		}
		labelKey := styleKey{kind: line.Kind, band: line.Band, size: size}
		amountKey := labelKey
		amountKey.amount = true
		if err := w.styleRow(sheet, row, labelKey, amountKey); err != nil {
			return err
		}
	}
	return nil
}
