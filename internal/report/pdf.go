package report

import (
	"fmt"
	"strconv"

	"github.com/garyjia/keihi-ai/internal/expense"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// PDFRenderer writes the paginated report document: the flat table
// without the notes column, fixed column widths, and a right-aligned
// formatted totals row.
//
// The built-in core fonts cannot draw CJK glyphs; supply a UTF-8 TTF
// via the report.pdf_font_path setting for Japanese output. Without
// one the renderer still produces a structurally valid document using
// Helvetica.
type PDFRenderer struct {
	outputDir string
	fontPath  string
	logger    *zap.Logger
}

// NewPDFRenderer creates the PDF report renderer. fontPath may be
// empty.
func NewPDFRenderer(outputDir, fontPath string, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{outputDir: outputDir, fontPath: fontPath, logger: logger}
}

var pdfColumnWidths = []float64{12, 50, 30, 30, 30, 30}

// Render writes expense_report.pdf and returns the batch aggregates.
func (r *PDFRenderer) Render(records []expense.Record, month, applicant string) (int, int, error) {
	summary := Summarize(records)
	path := ArtifactPath(r.outputDir, FormatPDF)

	pdf := fpdf.New("P", "mm", "A4", "")
	font := "Helvetica"
	if r.fontPath != "" {
		pdf.AddUTF8Font("report", "", r.fontPath)
		font = "report"
	}
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title.
	pdf.SetFont(font, "", 16)
	title := fmt.Sprintf("経費精算書　%s　%s", month, applicant)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Table header.
	headers := []string{"No.", "店名", "日付", "カテゴリ", "金額（円）", "支払方法"}
	pdf.SetFont(font, "", 9)
	pdf.SetFillColor(45, 106, 79)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(221, 221, 221)
	for i, h := range headers {
		pdf.CellFormat(pdfColumnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Data rows in input order with 1-based numbering.
	pdf.SetTextColor(0, 0, 0)
	for i, rec := range records {
		fill := i%2 == 1
		pdf.SetFillColor(244, 250, 246)

		cells := []string{
			strconv.Itoa(i + 1),
			rec.Merchant,
			rec.Date,
			rec.Category,
			formatYen(rec.Amount),
			rec.PaymentMethod,
		}
		for col, v := range cells {
			align := "C"
			if col == 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[col], 8, v, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals row.
	pdf.SetFillColor(232, 245, 238)
	labelWidth := pdfColumnWidths[0] + pdfColumnWidths[1] + pdfColumnWidths[2] + pdfColumnWidths[3]
	pdf.CellFormat(labelWidth, 8, "合計", "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfColumnWidths[4], 8, formatYen(summary.Total), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColumnWidths[5], 8, "", "1", 1, "C", true, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return 0, 0, fmt.Errorf("failed to save PDF report: %w", err)
	}

	r.logger.Info("PDF report written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("total", summary.Total))

	return summary.Total, summary.CategoryCount(), nil
}
