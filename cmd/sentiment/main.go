package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/pipeline"
	"stock-sentiment/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	symbol := flag.String("symbol", "", "stock symbol to analyze (must exist in config tickers)")
	query := flag.String("query", "", "search query for text sources (defaults to the symbol)")
	input := flag.String("input", "", "path to a pre-aggregated text CSV; skips source scraping")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: sentiment -symbol AAPL [-query \"Apple stock\"]")
		os.Exit(2)
	}
	if *query == "" {
		*query = *symbol
	}

	p, cfg, err := initializeSystem(*configPath)
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Interrupted, cancelling run")
		cancel()
	}()

	var result *pipeline.Result
	if *input != "" {
		result, err = p.RunWithAggregated(ctx, *symbol, *input)
	} else {
		result, err = p.Run(ctx, *symbol, *query)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Pipeline run failed", err, "symbol", *symbol)
		_ = trace.Shutdown(context.Background())
		os.Exit(1)
	}

	b, _ := json.Marshal(result.Composite)
	fmt.Println(string(b))
	logger.Info(ctx, "Run complete",
		"symbol", *symbol,
		"insider_score", result.Insider.SentimentScore,
		"weighted_average_score", result.Composite.WeightedAverageScore,
		"tier", result.Composite.Tier,
		"output_dir", cfg.OutputDir)

	must(trace.Shutdown(context.Background()))
}
