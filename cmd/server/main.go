package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/keihi-ai/internal/config"
	"github.com/garyjia/keihi-ai/internal/extraction"
	httpadapter "github.com/garyjia/keihi-ai/internal/interfaces/http"
	"github.com/garyjia/keihi-ai/internal/pipeline"
	"github.com/garyjia/keihi-ai/internal/report"
	"github.com/garyjia/keihi-ai/internal/storage"
	"github.com/garyjia/keihi-ai/pkg/utils"
)

func main() {
	// Pick up OPENAI_API_KEY and friends from a local .env when present.
	gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting KeihiAI expense server",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("vision_enabled", cfg.OpenAI.APIKey != ""))

	for _, dir := range []string{cfg.Upload.Dir, cfg.Report.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create directory",
				zap.String("dir", dir),
				zap.Error(err))
		}
	}

	// Extraction capability is decided once here; jobs never re-probe.
	extractor := extraction.New(extraction.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, logger)

	staging := storage.NewStaging(cfg.Upload.Dir, logger)
	renderers := report.NewFactory(cfg.Report.OutputDir, cfg.Report.PDFFontPath, logger)
	runner := pipeline.NewRunner(extractor, staging, renderers, logger)

	store := pipeline.NewStore()
	pool := pipeline.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, runner, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)

	handlers := httpadapter.NewHandlers(store, pool, cfg.Report.OutputDir, logger)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug,
	}, handlers, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	// Stop accepting requests first, then drain queued jobs. The
	// context stays alive until the drain finishes so in-flight jobs
	// are not cut off.
	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	pool.Stop()

	logger.Info("Server exited successfully")
}
