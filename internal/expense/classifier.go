package expense

import "strings"

// CategoryOther is the catch-all category assigned when no rule matches.
const CategoryOther = "その他"

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category string
	Keywords []string
}

// CategoryRules is evaluated top to bottom; the first category with a
// matching keyword wins, so the slice order is part of the contract.
var CategoryRules = []CategoryRule{
	{Category: "駐車場", Keywords: []string{"パーキング", "駐車", "parking", "コインパーク"}},
	{Category: "交通費", Keywords: []string{"電車", "バス", "タクシー", "新幹線", "乗車", "IC"}},
	{Category: "飲食費", Keywords: []string{"レストラン", "カフェ", "食堂", "居酒屋", "ランチ", "コーヒー", "食事"}},
	{Category: "宿泊費", Keywords: []string{"ホテル", "旅館", "宿", "inn", "hotel"}},
	{Category: "消耗品", Keywords: []string{"コンビニ", "ドラッグ", "文具", "ローソン", "セブン", "ファミマ"}},
	{Category: "通信費", Keywords: []string{"ドコモ", "au", "ソフトバンク", "通信", "インターネット"}},
}

// Classify returns the first category whose keyword appears in text.
// Matching is plain case-sensitive substring containment, not word
// boundary aware: "IC" also matches inside longer tokens. Returns
// CategoryOther when nothing matches.
func Classify(text string) string {
	for _, rule := range CategoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}
