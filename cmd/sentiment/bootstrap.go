package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"stock-sentiment/internal/classifier"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/marketcap"
	"stock-sentiment/internal/pipeline"
	"stock-sentiment/internal/store"
	"stock-sentiment/internal/trace"
)

// initializeSystem loads env and config, brings up logging and tracing,
// and wires the pipeline with its collaborators.
func initializeSystem(configPath string) (*pipeline.Pipeline, *store.Config, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	ctx := context.Background()

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, nil, err
	}

	cls := classifier.New(ctx, cfg)
	caps := marketcap.NewYahooProvider(
		cfg.MarketData.QuoteURL,
		time.Duration(cfg.MarketData.TimeoutSeconds)*time.Second,
	)

	return pipeline.New(cfg, cls, caps), cfg, nil
}
