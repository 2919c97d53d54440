package expense

// Record is one expense line extracted from a receipt. A record is
// produced either by the vision extractor or by the filename fallback,
// and its Category may be overwritten once during classification.
type Record struct {
	Merchant      string `json:"merchant"`
	Date          string `json:"date"`
	Amount        int    `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}
