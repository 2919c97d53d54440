package report

import "github.com/garyjia/keihi-ai/internal/expense"

// Summary holds the aggregates every renderer reports. All four output
// formats consume the same Summary, so their totals and category counts
// cannot drift apart.
type Summary struct {
	// Total is the sum of Amount over all records.
	Total int
	// Categories lists distinct categories in first-occurrence order.
	Categories []string
	// CategoryTotals maps category to its summed amount.
	CategoryTotals map[string]int
}

// CategoryCount returns the number of distinct categories observed,
// the catch-all category included.
func (s Summary) CategoryCount() int {
	return len(s.Categories)
}

// Summarize computes the batch aggregates for a record list.
func Summarize(records []expense.Record) Summary {
	s := Summary{CategoryTotals: make(map[string]int)}
	for _, r := range records {
		s.Total += r.Amount
		if _, seen := s.CategoryTotals[r.Category]; !seen {
			s.Categories = append(s.Categories, r.Category)
		}
		s.CategoryTotals[r.Category] += r.Amount
	}
	return s
}
