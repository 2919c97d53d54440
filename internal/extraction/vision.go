package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/garyjia/keihi-ai/internal/expense"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const visionPrompt = `この領収書の画像を読み取り、以下のフィールドを持つJSONオブジェクトを1つだけ返してください:
{"merchant": "", "date": "", "amount": 0, "category": "", "payment_method": "", "notes": ""}

- merchant: 店名
- date: 日付 (YYYY/MM/DD)
- amount: 金額を整数の円で (例: 1200)
- category: 駐車場 / 交通費 / 飲食費 / 宿泊費 / 消耗品 / 通信費 / その他 のいずれか
- payment_method: 支払方法 (現金 / クレジットカード / 電子マネー など)
- notes: 備考

JSON以外のテキストは出力しないでください。`

// visionExtractor calls a multimodal chat model to read receipt images.
type visionExtractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newVisionExtractor(cfg Config, logger *zap.Logger) *visionExtractor {
	return &visionExtractor{
		client:  openai.NewClient(cfg.APIKey),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Extract runs the bounded vision call for one receipt. Every failure
// mode in this path (image I/O, network, malformed response) is logged
// and converted to a nil record so one unreadable receipt never aborts
// the batch.
func (e *visionExtractor) Extract(ctx context.Context, imagePath string) *expense.Record {
	record, err := e.extract(ctx, imagePath)
	if err != nil {
		e.logger.Warn("Receipt extraction failed, falling back",
			zap.String("image_path", imagePath),
			zap.Error(err))
		return nil
	}
	return record
}

func (e *visionExtractor) extract(ctx context.Context, imagePath string) (*expense.Record, error) {
	imgData, err := normalizeImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	base64Img := base64.StdEncoding.EncodeToString(imgData)
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   500,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert in reading Japanese receipts (領収書). Always respond with valid JSON.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64Img),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vision API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from vision API")
	}

	content := resp.Choices[0].Message.Content
	record, err := parseVisionResponse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	e.logger.Info("Receipt extracted",
		zap.String("image_path", imagePath),
		zap.String("merchant", record.Merchant),
		zap.Int("amount", record.Amount))

	return record, nil
}
