package expense

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPatterns is ordered from most to least specific so that a
// labeled amount (領収額, 現金, 合計) beats an unrelated bare number
// elsewhere in the text. With both 合計 and 現金 present, 現金 wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`領収額[^\d]*(\d[\d,]*)円`),
	regexp.MustCompile(`現金[^\d]*(\d[\d,]*)円`),
	regexp.MustCompile(`合計[^\d]*(\d[\d,]*)円`),
	regexp.MustCompile(`(\d[\d,]*)円`),
}

// ExtractAmount pulls a yen amount out of free-form receipt text. It
// tries each pattern in priority order and returns the first match with
// thousands separators stripped, or 0 when no pattern matches.
func ExtractAmount(text string) int {
	for _, p := range amountPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return n
	}
	return 0
}
