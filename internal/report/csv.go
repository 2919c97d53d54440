package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/garyjia/keihi-ai/internal/expense"
	"go.uber.org/zap"
)

// utf8BOM lets spreadsheet applications detect the encoding of the
// generated CSV files, which carry Japanese text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FlatCSVRenderer writes the flat CSV report: header, one row per
// record in input order, and a trailing totals row carrying the amount
// only.
type FlatCSVRenderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewFlatCSVRenderer creates the flat CSV report renderer.
func NewFlatCSVRenderer(outputDir string, logger *zap.Logger) *FlatCSVRenderer {
	return &FlatCSVRenderer{outputDir: outputDir, logger: logger}
}

// Render writes expense_report.csv and returns the batch aggregates.
func (r *FlatCSVRenderer) Render(records []expense.Record, month, applicant string) (int, int, error) {
	summary := Summarize(records)
	path := ArtifactPath(r.outputDir, FormatCSV)

	rows := [][]string{
		{"No.", "店名", "日付", "カテゴリ", "金額（円）", "支払方法", "備考"},
	}
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rec.Merchant,
			rec.Date,
			rec.Category,
			strconv.Itoa(rec.Amount),
			rec.PaymentMethod,
			rec.Notes,
		})
	}
	rows = append(rows, []string{"合計", "", "", "", strconv.Itoa(summary.Total), "", ""})

	if err := writeCSV(path, rows); err != nil {
		return 0, 0, err
	}

	r.logger.Info("CSV report written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("total", summary.Total))

	return summary.Total, summary.CategoryCount(), nil
}

// writeCSV writes rows to path with a UTF-8 BOM, overwriting any prior
// artifact.
func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return nil
}
