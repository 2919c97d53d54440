package report

import (
	"path/filepath"
	"strconv"

	"github.com/garyjia/keihi-ai/internal/expense"
	"go.uber.org/zap"
)

// Output format selectors accepted at job submission.
const (
	FormatExcel = "excel"
	FormatCSV   = "csv"
	FormatFreee = "freee"
	FormatPDF   = "pdf"
)

// Renderer writes one report artifact for a batch of classified records
// and returns the batch total and distinct category count. Artifacts
// live at a fixed per-format path and are overwritten on every run.
type Renderer interface {
	Render(records []expense.Record, month, applicant string) (total, categories int, err error)
}

// artifact describes the fixed on-disk name and the name offered on
// download for one format.
type artifact struct {
	fileName     string
	downloadName string
}

var artifacts = map[string]artifact{
	FormatExcel: {fileName: "expense_report.xlsx", downloadName: "expense_report.xlsx"},
	FormatCSV:   {fileName: "expense_report.csv", downloadName: "expense_report.csv"},
	FormatFreee: {fileName: "expense_report_freee.csv", downloadName: "freee_import.csv"},
	FormatPDF:   {fileName: "expense_report.pdf", downloadName: "expense_report.pdf"},
}

// NormalizeFormat maps any submitted selector onto a known format,
// defaulting to excel.
func NormalizeFormat(format string) string {
	if _, ok := artifacts[format]; ok {
		return format
	}
	return FormatExcel
}

// ArtifactPath returns the fixed artifact path for a format.
func ArtifactPath(outputDir, format string) string {
	return filepath.Join(outputDir, artifacts[NormalizeFormat(format)].fileName)
}

// DownloadName returns the canonical file name offered on download.
func DownloadName(format string) string {
	return artifacts[NormalizeFormat(format)].downloadName
}

// Factory builds the renderer for a submitted format selector.
type Factory struct {
	outputDir   string
	pdfFontPath string
	logger      *zap.Logger
}

// NewFactory creates a renderer factory writing artifacts to outputDir.
// pdfFontPath may be empty; see PDFRenderer.
func NewFactory(outputDir, pdfFontPath string, logger *zap.Logger) *Factory {
	return &Factory{
		outputDir:   outputDir,
		pdfFontPath: pdfFontPath,
		logger:      logger,
	}
}

// ForFormat returns the renderer for a format selector, defaulting to
// the Excel renderer for unknown selectors.
func (f *Factory) ForFormat(format string) Renderer {
	switch NormalizeFormat(format) {
	case FormatCSV:
		return NewFlatCSVRenderer(f.outputDir, f.logger)
	case FormatFreee:
		return NewFreeeCSVRenderer(f.outputDir, f.logger)
	case FormatPDF:
		return NewPDFRenderer(f.outputDir, f.pdfFontPath, f.logger)
	default:
		return NewExcelRenderer(f.outputDir, f.logger)
	}
}

// formatYen renders an amount with thousands separators, e.g. 12,800.
func formatYen(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
