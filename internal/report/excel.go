package report

import (
	"fmt"

	"github.com/garyjia/keihi-ai/internal/expense"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	listSheet     = "経費一覧"
	categorySheet = "カテゴリ別集計"

	colorAccent    = "2D6A4F"
	colorAccentBg  = "E8F5EE"
	colorZebra     = "F4FAF6"
	colorGridLine  = "DDDDDD"
	colorChartFill = "52B788"
)

// ExcelRenderer writes the tabular report: a styled expense list with a
// totals formula, plus a per-category aggregation sheet with a bar
// chart. The totals cell holds a =SUM formula over the data range, so
// the workbook recomputes the same value the renderer returns.
type ExcelRenderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewExcelRenderer creates the Excel report renderer.
func NewExcelRenderer(outputDir string, logger *zap.Logger) *ExcelRenderer {
	return &ExcelRenderer{outputDir: outputDir, logger: logger}
}

type excelStyles struct {
	title       int
	header      int
	cell        int
	cellAlt     int
	amount      int
	amountAlt   int
	totalLabel  int
	totalAmount int
}

// Render writes expense_report.xlsx and returns the batch aggregates.
func (r *ExcelRenderer) Render(records []expense.Record, month, applicant string) (int, int, error) {
	summary := Summarize(records)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", listSheet); err != nil {
		return 0, 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := r.buildStyles(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build styles: %w", err)
	}

	if err := r.writeListSheet(f, styles, records, summary, month, applicant); err != nil {
		return 0, 0, err
	}
	if err := r.writeCategorySheet(f, summary); err != nil {
		return 0, 0, err
	}

	path := ArtifactPath(r.outputDir, FormatExcel)
	if err := f.SaveAs(path); err != nil {
		return 0, 0, fmt.Errorf("failed to save Excel report: %w", err)
	}

	r.logger.Info("Excel report written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("total", summary.Total))

	return summary.Total, summary.CategoryCount(), nil
}

func (r *ExcelRenderer) buildStyles(f *excelize.File) (*excelStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: colorGridLine, Style: 1},
		{Type: "right", Color: colorGridLine, Style: 1},
		{Type: "top", Color: colorGridLine, Style: 1},
		{Type: "bottom", Color: colorGridLine, Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	s := &excelStyles{}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Color: colorAccent},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorAccentBg}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorAccent}},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	s.cell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	s.cellAlt, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorZebra}},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	// NumFmt 3 is the built-in #,##0 format.
	s.amount, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: center,
		Border:    border,
		NumFmt:    3,
	})
	if err != nil {
		return nil, err
	}

	s.amountAlt, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorZebra}},
		Alignment: center,
		Border:    border,
		NumFmt:    3,
	})
	if err != nil {
		return nil, err
	}

	s.totalLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorAccentBg}},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	s.totalAmount, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: colorAccent},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorAccentBg}},
		Alignment: center,
		Border:    border,
		NumFmt:    3,
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (r *ExcelRenderer) writeListSheet(f *excelize.File, styles *excelStyles, records []expense.Record, summary Summary, month, applicant string) error {
	if applicant == "" {
		applicant = "未記入"
	}

	// Title row.
	if err := f.MergeCell(listSheet, "A1", "G1"); err != nil {
		return fmt.Errorf("failed to merge title cells: %w", err)
	}
	title := fmt.Sprintf("経費精算書　%s　申請者: %s", month, applicant)
	if err := f.SetCellValue(listSheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(listSheet, "A1", "G1", styles.title); err != nil {
		return err
	}
	if err := f.SetRowHeight(listSheet, 1, 32); err != nil {
		return err
	}

	// Header row with fixed column widths.
	headers := []string{"No.", "店名", "日付", "カテゴリ", "金額（円）", "支払方法", "備考"}
	widths := []float64{5, 24, 14, 14, 13, 12, 28}
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(listSheet, col, col, widths[i]); err != nil {
			return err
		}
		cell := fmt.Sprintf("%s2", col)
		if err := f.SetCellValue(listSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(listSheet, "A2", "G2", styles.header); err != nil {
		return err
	}
	if err := f.SetRowHeight(listSheet, 2, 22); err != nil {
		return err
	}

	// Data rows, 1-based numbering in input order.
	for i, rec := range records {
		row := i + 3
		values := []interface{}{i + 1, rec.Merchant, rec.Date, rec.Category, rec.Amount, rec.PaymentMethod, rec.Notes}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(listSheet, cell, v); err != nil {
				return err
			}
		}

		cellStyle, amountStyle := styles.cell, styles.amount
		if i%2 == 1 {
			cellStyle, amountStyle = styles.cellAlt, styles.amountAlt
		}
		if err := f.SetCellStyle(listSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), cellStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(listSheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), amountStyle); err != nil {
			return err
		}
		if err := f.SetRowHeight(listSheet, row, 20); err != nil {
			return err
		}
	}

	// Totals row. The amount cell holds a formula over the data range
	// so the workbook recomputes the total on open; it must agree with
	// summary.Total.
	totalRow := len(records) + 3
	if err := f.MergeCell(listSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow)); err != nil {
		return err
	}
	if err := f.SetCellValue(listSheet, fmt.Sprintf("A%d", totalRow), "合計"); err != nil {
		return err
	}
	if err := f.SetCellFormula(listSheet, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("SUM(E3:E%d)", totalRow-1)); err != nil {
		return err
	}
	if err := f.SetCellStyle(listSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), styles.totalLabel); err != nil {
		return err
	}
	if err := f.SetCellStyle(listSheet, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("G%d", totalRow), styles.totalAmount); err != nil {
		return err
	}
	if err := f.SetRowHeight(listSheet, totalRow, 26); err != nil {
		return err
	}

	return nil
}

// writeCategorySheet writes the per-category aggregation with a bar
// chart. Category rows follow first-occurrence order from the batch.
func (r *ExcelRenderer) writeCategorySheet(f *excelize.File, summary Summary) error {
	if _, err := f.NewSheet(categorySheet); err != nil {
		return fmt.Errorf("failed to add category sheet: %w", err)
	}

	if err := f.SetCellValue(categorySheet, "A1", "カテゴリ"); err != nil {
		return err
	}
	if err := f.SetCellValue(categorySheet, "B1", "金額（円）"); err != nil {
		return err
	}

	for i, cat := range summary.Categories {
		row := i + 2
		if err := f.SetCellValue(categorySheet, fmt.Sprintf("A%d", row), cat); err != nil {
			return err
		}
		if err := f.SetCellValue(categorySheet, fmt.Sprintf("B%d", row), summary.CategoryTotals[cat]); err != nil {
			return err
		}
	}

	// An empty batch still produces a valid workbook, just without a
	// chart to draw.
	if len(summary.Categories) == 0 {
		return nil
	}

	lastRow := len(summary.Categories) + 1
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", categorySheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", categorySheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", categorySheet, lastRow),
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorChartFill}},
			},
		},
		Title:     []excelize.RichTextRun{{Text: "カテゴリ別経費"}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "金額（円）"}}},
		Dimension: excelize.ChartDimension{Width: 560, Height: 360},
	}
	if err := f.AddChart(categorySheet, "D2", chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	return nil
}
