package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"stock-sentiment/internal/classifier"
	"stock-sentiment/internal/store"
	"stock-sentiment/internal/textscore"
)

type stubCaps struct{ cap float64 }

func (s stubCaps) MarketCap(_ context.Context, _ string) (float64, error) {
	return s.cap, nil
}

func testConfig(t *testing.T, edgarURL string) *store.Config {
	t.Helper()
	cfg := &store.Config{
		Tickers:    map[string]string{"AAPL": "0000320193"},
		WindowDays: 183,
		OutputDir:  t.TempDir(),
	}
	cfg.Edgar.BaseURL = edgarURL
	cfg.Edgar.UserAgent = "test"
	cfg.Edgar.RequestsPerSecond = 100
	cfg.Edgar.TimeoutSeconds = 5
	cfg.Classifier.ConfidenceThreshold = 0.85
	cfg.Fusion.SourceWeights = map[string]float64{"GoogleSearch": 0.5, "YouTube": 0.4}
	cfg.Fusion.InsiderWeight = 0.1
	return cfg
}

func TestRunWithAggregated(t *testing.T) {
	// Submissions index with no recent filings: the insider leg scores zero.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"filings":{"recent":{"accessionNumber":[],"filingDate":[],"form":[],"primaryDocument":[]}}}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)

	input := textscore.NewTable()
	input.AddColumn("GoogleSearch", []string{"great amazing excellent news"})
	inputPath := filepath.Join(cfg.OutputDir, "input.csv")
	if err := input.WriteCSV(inputPath); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	p := New(cfg, classifier.NewKeywordClassifier(), stubCaps{})
	result, err := p.RunWithAggregated(context.Background(), "AAPL", inputPath)
	if err != nil {
		t.Fatalf("RunWithAggregated failed: %v", err)
	}

	if len(result.Sources) != 1 || result.Sources[0].Source != "GoogleSearch" {
		t.Fatalf("Expected one GoogleSearch summary, got %+v", result.Sources)
	}
	if result.Sources[0].TotalCount != 1 {
		t.Errorf("Expected 1 scored entry, got %d", result.Sources[0].TotalCount)
	}
	// Keyword classifier: three positive matches score 0.8; weighted at 0.5
	// with a zero insider leg the composite lands in the Positive tier.
	if result.Composite.Tier != "Positive" {
		t.Errorf("Expected tier Positive, got %s (score %f)",
			result.Composite.Tier, result.Composite.WeightedAverageScore)
	}

	for _, name := range []string{"summary_data.csv", "aggregated_data.csv", "source_summary.csv", "composite_score.csv"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, "AAPL", name)); err != nil {
			t.Errorf("Expected report %s written: %v", name, err)
		}
	}
}

func TestRunWithAggregatedMissingInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := New(testConfig(t, srv.URL), classifier.NewKeywordClassifier(), stubCaps{})
	if _, err := p.RunWithAggregated(context.Background(), "AAPL", "does-not-exist.csv"); err == nil {
		t.Error("Expected error for missing input file")
	}
}

func TestRunUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := New(testConfig(t, srv.URL), classifier.NewKeywordClassifier(), stubCaps{})
	if _, err := p.Run(context.Background(), "ZZZZ", "anything"); err == nil {
		t.Error("Expected error for symbol outside the configured tickers")
	}
}
