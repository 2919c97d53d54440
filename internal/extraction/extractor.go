package extraction

import (
	"context"
	"time"

	"github.com/garyjia/keihi-ai/internal/expense"
	"go.uber.org/zap"
)

// Extractor reads a receipt image and produces a structured expense
// record. A nil result means "no result": the capability is either not
// configured or the receipt could not be read. Extraction failures are
// absorbed here and never surfaced to the caller, which substitutes a
// fallback record instead.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) *expense.Record
}

// Config holds the settings for the vision extraction capability.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New selects the extraction capability once at construction time:
// a vision-backed extractor when an API key is configured, otherwise a
// stub that short-circuits every call so the fallback path runs without
// any network attempt.
func New(cfg Config, logger *zap.Logger) Extractor {
	if cfg.APIKey == "" {
		logger.Info("Vision extraction disabled, no API key configured")
		return &unavailableExtractor{}
	}
	return newVisionExtractor(cfg, logger)
}

// unavailableExtractor is the no-credential variant of the capability.
type unavailableExtractor struct{}

func (e *unavailableExtractor) Extract(ctx context.Context, imagePath string) *expense.Record {
	return nil
}
