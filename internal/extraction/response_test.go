package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseVisionResponse(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		content := `{"merchant":"スターバックス","date":"2025/09/01","amount":580,"category":"飲食費","payment_method":"クレジットカード","notes":""}`

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, "スターバックス", record.Merchant)
		assert.Equal(t, "2025/09/01", record.Date)
		assert.Equal(t, 580, record.Amount)
		assert.Equal(t, "飲食費", record.Category)
	})

	t.Run("JSON wrapped in prose and markdown", func(t *testing.T) {
		content := "以下が抽出結果です。\n```json\n" +
			`{"merchant":"タイムズ","date":"2025/09/02","amount":800,"category":"駐車場","payment_method":"現金","notes":"2時間"}` +
			"\n```\nご確認ください。"

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, "タイムズ", record.Merchant)
		assert.Equal(t, 800, record.Amount)
	})

	t.Run("amount as string with comma", func(t *testing.T) {
		content := `{"merchant":"ホテル","date":"","amount":"12,800","category":"宿泊費","payment_method":"","notes":""}`

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 12800, record.Amount)
	})

	t.Run("amount as float", func(t *testing.T) {
		content := `{"merchant":"","date":"","amount":1200.0,"category":"","payment_method":"","notes":""}`

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 1200, record.Amount)
	})

	t.Run("zero amount recovered from notes text", func(t *testing.T) {
		content := `{"merchant":"コンビニ","date":"","amount":0,"category":"","payment_method":"","notes":"領収額 1,200円"}`

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 1200, record.Amount)
	})

	t.Run("negative amount clamped to zero", func(t *testing.T) {
		content := `{"merchant":"","date":"","amount":-500,"category":"","payment_method":"","notes":""}`

		record, err := parseVisionResponse(content)
		require.NoError(t, err)
		assert.Equal(t, 0, record.Amount)
	})

	t.Run("no JSON object", func(t *testing.T) {
		_, err := parseVisionResponse("読み取れませんでした")
		assert.Error(t, err)
	})

	t.Run("unbalanced JSON object", func(t *testing.T) {
		_, err := parseVisionResponse(`{"merchant":"abc"`)
		assert.Error(t, err)
	})
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "braces inside string values",
			in:     `x {"notes":"a } b","n":1} y`,
			want:   `{"notes":"a } b","n":1}`,
			wantOK: true,
		},
		{
			name:   "nested objects",
			in:     `{"a":{"b":2}}trailing`,
			want:   `{"a":{"b":2}}`,
			wantOK: true,
		},
		{
			name:   "escaped quote inside string",
			in:     `{"s":"he said \"}\""}`,
			want:   `{"s":"he said \"}\""}`,
			wantOK: true,
		},
		{
			name:   "no object",
			in:     "nothing here",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewSelectsCapability(t *testing.T) {
	logger := zap.NewNop()

	t.Run("no API key yields unavailable stub", func(t *testing.T) {
		e := New(Config{}, logger)

		_, ok := e.(*unavailableExtractor)
		assert.True(t, ok)
		// Short-circuits without touching the filesystem or network.
		assert.Nil(t, e.Extract(context.Background(), "does-not-exist.jpg"))
	})

	t.Run("API key yields vision extractor", func(t *testing.T) {
		e := New(Config{APIKey: "sk-test", Model: "gpt-4o"}, logger)

		_, ok := e.(*visionExtractor)
		assert.True(t, ok)
	})
}
