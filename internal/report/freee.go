package report

import (
	"strconv"
	"strings"

	"github.com/garyjia/keihi-ai/internal/expense"
	"go.uber.org/zap"
)

// Placeholders in the freee journal layout. Receipts feed the debit
// side; the credit side is always the cash account.
const (
	freeeDebitTax     = "課税仕入10%"
	freeeCreditAccount = "現金"
)

// freeeHeader is the column layout freee expects on import.
var freeeHeader = []string{
	"発生日", "借方勘定科目", "借方補助科目", "借方税区分", "借方金額",
	"貸方勘定科目", "貸方補助科目", "貸方税区分", "貸方金額",
	"摘要", "タグ", "メモ", "決済期日", "口座",
}

// FreeeCSVRenderer writes the accounting-import CSV: one journal row
// per record with the category mapped to a freee account name.
type FreeeCSVRenderer struct {
	outputDir string
	logger    *zap.Logger
}

// NewFreeeCSVRenderer creates the freee import renderer.
func NewFreeeCSVRenderer(outputDir string, logger *zap.Logger) *FreeeCSVRenderer {
	return &FreeeCSVRenderer{outputDir: outputDir, logger: logger}
}

// Render writes expense_report_freee.csv and returns the batch
// aggregates.
func (r *FreeeCSVRenderer) Render(records []expense.Record, month, applicant string) (int, int, error) {
	summary := Summarize(records)
	path := ArtifactPath(r.outputDir, FormatFreee)

	rows := [][]string{freeeHeader}
	for _, rec := range records {
		account := expense.AccountFor(rec.Category)
		amount := strconv.Itoa(rec.Amount)
		date := strings.ReplaceAll(rec.Date, "-", "/")

		memo := rec.Merchant
		if applicant != "" {
			memo += "（" + applicant + "）"
		}

		rows = append(rows, []string{
			date, account, "", freeeDebitTax, amount,
			freeeCreditAccount, "", "", amount,
			memo, "", "", "", "",
		})
	}

	if err := writeCSV(path, rows); err != nil {
		return 0, 0, err
	}

	r.logger.Info("freee import CSV written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("total", summary.Total))

	return summary.Total, summary.CategoryCount(), nil
}
