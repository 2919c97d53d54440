package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/garyjia/keihi-ai/internal/expense"
)

// visionResult mirrors the JSON shape the model is instructed to
// return. Amount is kept raw because models occasionally return it as a
// string ("1,200") or a float instead of an integer.
type visionResult struct {
	Merchant      string          `json:"merchant"`
	Date          string          `json:"date"`
	Amount        json.RawMessage `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// parseVisionResponse locates the first balanced JSON object inside the
// free-form response text and converts it into an expense record. When
// the parsed amount is zero the raw text is re-scanned with the pattern
// extractor, which recovers amounts the model echoed but did not place
// into the amount field.
func parseVisionResponse(content string) (*expense.Record, error) {
	obj, ok := firstJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var result visionResult
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}

	record := &expense.Record{
		Merchant:      result.Merchant,
		Date:          result.Date,
		Amount:        parseAmount(result.Amount),
		Category:      result.Category,
		PaymentMethod: result.PaymentMethod,
		Notes:         result.Notes,
	}

	if record.Amount == 0 {
		record.Amount = expense.ExtractAmount(content + record.Notes)
	}
	if record.Amount < 0 {
		record.Amount = 0
	}

	return record, nil
}

// firstJSONObject returns the first balanced {...} substring, tracking
// string literals so braces inside quoted values do not end the scan.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var amountDigits = regexp.MustCompile(`\d[\d,]*`)

// parseAmount coerces the raw amount field to an integer yen value.
func parseAmount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		m := amountDigits.FindString(s)
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			return 0
		}
		return n
	}

	return 0
}
