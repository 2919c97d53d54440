package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "parking keyword",
			text: "タイムズパーキング 渋谷",
			want: "駐車場",
		},
		{
			name: "transport keyword",
			text: "JR東日本 乗車券",
			want: "交通費",
		},
		{
			name: "meal keyword",
			text: "スターバックスコーヒー 店内",
			want: "飲食費",
		},
		{
			name: "lodging keyword",
			text: "東横inn 新宿",
			want: "宿泊費",
		},
		{
			name: "supplies keyword",
			text: "セブン-イレブン 領収書",
			want: "消耗品",
		},
		{
			name: "communication keyword",
			text: "ドコモショップ 月額料金",
			want: "通信費",
		},
		{
			name: "no match falls through to catch-all",
			text: "株式会社サンプル商事",
			want: CategoryOther,
		},
		{
			name: "empty text",
			text: "",
			want: CategoryOther,
		},
		{
			name: "earlier rule wins over later rule",
			// 駐車 (parking) is listed before タクシー (transport).
			text: "タクシー降車後に駐車場利用",
			want: "駐車場",
		},
		{
			name: "substring match has no word boundaries",
			// "IC" matches inside "PICNIC"; containment search is
			// deliberate, not a tokenized match.
			text: "PICNIC CAFE TOKYO",
			want: "交通費",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every input must yield some category.
	inputs := []string{"", "???", "12345", "完全に未知のテキスト"}
	for _, in := range inputs {
		got := Classify(in)
		assert.NotEmpty(t, got)
		// Deterministic for identical input.
		assert.Equal(t, got, Classify(in))
	}
}

func TestAccountFor(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"駐車場", "旅費交通費"},
		{"交通費", "旅費交通費"},
		{"飲食費", "交際費"},
		{"宿泊費", "旅費交通費"},
		{"消耗品", "消耗品費"},
		{"通信費", "通信費"},
		{CategoryOther, "雑費"},
		{"未知カテゴリ", "雑費"},
		{"", "雑費"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AccountFor(tt.category), "category %q", tt.category)
	}
}
