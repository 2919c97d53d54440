package extraction

import (
	"strings"

	"github.com/garyjia/keihi-ai/internal/expense"
)

// Sentinel values written by Fallback. They mark a record as synthesized
// from the filename rather than read from the receipt, so a reviewer can
// spot it in the generated report.
const (
	fallbackDate          = "2025/10/01"
	fallbackAmount        = 1000
	fallbackPaymentMethod = "現金"
	fallbackNotes         = "手動確認推奨"
)

var receiptExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

// Fallback synthesizes a placeholder record for a receipt the extractor
// returned no result for. The merchant is the filename with any known
// receipt extension stripped; every other field is a fixed sentinel.
// Total function: every uploaded file yields exactly one record.
func Fallback(filename string) expense.Record {
	merchant := filename
	for _, ext := range receiptExtensions {
		merchant = strings.TrimSuffix(merchant, ext)
	}

	return expense.Record{
		Merchant:      merchant,
		Date:          fallbackDate,
		Amount:        fallbackAmount,
		Category:      expense.CategoryOther,
		PaymentMethod: fallbackPaymentMethod,
		Notes:         fallbackNotes,
	}
}
