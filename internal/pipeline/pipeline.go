package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"stock-sentiment/internal/classifier"
	"stock-sentiment/internal/edgar"
	"stock-sentiment/internal/filing"
	"stock-sentiment/internal/fusion"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/marketcap"
	"stock-sentiment/internal/report"
	"stock-sentiment/internal/sources"
	"stock-sentiment/internal/store"
	"stock-sentiment/internal/textscore"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// Result collects everything one run produces.
type Result struct {
	Transactions []types.TransactionRecord
	Insider      types.CompanySentimentSummary
	Sources      []types.SourceSentimentSummary
	Composite    types.CompositeScore
}

// Pipeline runs the full single-company pass: filings to insider score,
// text sources to per-column stats, then fusion. Each run is a fresh
// computation; the only state carried across runs is the market-cap cache.
type Pipeline struct {
	cfg        *store.Config
	edgar      *edgar.Client
	caps       marketcap.Provider
	extractor  *filing.Extractor
	summarizer *filing.Summarizer
	scorer     *textscore.Scorer
	fuser      *fusion.Scorer
	srcs       []sources.TextSource
	capCache   *gocache.Cache
}

func New(cfg *store.Config, cls classifier.Classifier, caps marketcap.Provider) *Pipeline {
	weights := fusion.Weights{
		Source:             cfg.Fusion.SourceWeights,
		Insider:            cfg.Fusion.InsiderWeight,
		RenormalizeMissing: cfg.Fusion.RenormalizeMissing,
	}

	srcTimeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second
	srcs := []sources.TextSource{}
	if cfg.Sources.GoogleEnabled {
		srcs = append(srcs, sources.NewGoogleNewsSource(srcTimeout))
	}
	if cfg.Sources.YouTubeEnabled {
		srcs = append(srcs, sources.NewYouTubeSource(srcTimeout))
	}

	return &Pipeline{
		cfg: cfg,
		edgar: edgar.NewClient(
			cfg.Edgar.BaseURL,
			cfg.Edgar.UserAgent,
			cfg.Edgar.RequestsPerSecond,
			time.Duration(cfg.Edgar.TimeoutSeconds)*time.Second,
		),
		caps:       caps,
		extractor:  filing.NewExtractor(),
		summarizer: filing.NewSummarizer(cfg.WindowDays),
		scorer:     textscore.NewScorer(cls, cfg.Classifier.ConfidenceThreshold),
		fuser:      fusion.NewScorer(weights),
		srcs:       srcs,
		capCache:   gocache.New(1*time.Hour, 10*time.Minute),
	}
}

// Run executes one full pass for a symbol and a search query.
func (p *Pipeline) Run(ctx context.Context, symbol, query string) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline-run")
	defer span.End()

	table := sources.Collect(ctx, p.srcs, query, p.cfg.Sources.MaxResults)
	return p.run(ctx, symbol, table)
}

// RunWithAggregated executes one pass for a symbol, scoring a previously
// aggregated text table instead of scraping the live sources.
func (p *Pipeline) RunWithAggregated(ctx context.Context, symbol, inputPath string) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline-run")
	defer span.End()

	table, err := textscore.LoadCSV(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load aggregated input: %w", err)
	}
	logger.Info(ctx, "Aggregated input loaded", "path", inputPath, "columns", len(table.Columns()))
	return p.run(ctx, symbol, table)
}

func (p *Pipeline) run(ctx context.Context, symbol string, table *textscore.Table) (*Result, error) {
	cik, ok := p.cfg.Tickers[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found in configured tickers", symbol)
	}

	records := p.collectTransactions(ctx, symbol, cik)
	logger.Stage(ctx, "extract", symbol, "transactions", len(records))

	insider := p.summarizer.Summarize(symbol, records, time.Now(), p.marketCap(ctx, symbol))
	if insider.IgnoredRows > 0 {
		logger.Warn(ctx, "Transactions with codes outside A/D skipped",
			"symbol", symbol, "ignored", insider.IgnoredRows)
	}
	logger.Stage(ctx, "summarize", symbol, "sentiment_score", insider.SentimentScore)

	sourceSummaries := p.scorer.ScoreTable(ctx, table)
	logger.Stage(ctx, "score-sources", symbol, "sources", len(sourceSummaries))

	composite := p.fuser.Score(insider, sourceSummaries)
	logger.Stage(ctx, "fuse", symbol,
		"weighted_average_score", composite.WeightedAverageScore, "tier", composite.Tier)

	result := &Result{
		Transactions: records,
		Insider:      insider,
		Sources:      sourceSummaries,
		Composite:    composite,
	}

	if err := p.writeReports(symbol, table, result); err != nil {
		return nil, err
	}
	return result, nil
}

// collectTransactions downloads and extracts every recent Form 4 filing.
// A filing that fails to download or parse is logged and skipped; one bad
// document never aborts the run.
func (p *Pipeline) collectTransactions(ctx context.Context, symbol, cik string) []types.TransactionRecord {
	window := time.Duration(p.cfg.WindowDays) * 24 * time.Hour
	filings, err := p.edgar.RecentForm4Filings(ctx, cik, window)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch filing index", err, "symbol", symbol, "cik", cik)
		return nil
	}

	records := []types.TransactionRecord{}
	for _, f := range filings {
		content, err := p.edgar.FetchDocument(ctx, f)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to download filing", err,
				"symbol", symbol, "accession", f.AccessionNumber)
			continue
		}

		recs, err := p.extractor.Extract(content, symbol)
		if err != nil {
			var perr *filing.ParseError
			if errors.As(err, &perr) {
				logger.ErrorWithErr(ctx, "Unparsable filing skipped", err,
					"symbol", symbol, "accession", f.AccessionNumber)
				continue
			}
			logger.ErrorWithErr(ctx, "Filing extraction failed", err,
				"symbol", symbol, "accession", f.AccessionNumber)
			continue
		}
		records = append(records, recs...)
	}
	return records
}

// marketCap resolves the company's market cap, cached for the session.
// Unknown caps degrade to 0, which zeroes the percentages downstream.
func (p *Pipeline) marketCap(ctx context.Context, symbol string) float64 {
	if v, found := p.capCache.Get(symbol); found {
		return v.(float64)
	}
	mc, err := p.caps.MarketCap(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Market cap unavailable, treating as unknown", "symbol", symbol, "error", err)
		return 0
	}
	p.capCache.Set(symbol, mc, gocache.DefaultExpiration)
	return mc
}

func (p *Pipeline) writeReports(symbol string, table *textscore.Table, r *Result) error {
	dir := filepath.Join(p.cfg.OutputDir, symbol)

	if err := report.WriteTransactions(filepath.Join(dir, "form4_data.csv"), r.Transactions); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	if err := report.WriteCompanySummary(filepath.Join(dir, "summary_data.csv"), r.Insider); err != nil {
		return fmt.Errorf("write company summary: %w", err)
	}
	if err := table.WriteCSV(filepath.Join(dir, "aggregated_data.csv")); err != nil {
		return fmt.Errorf("write aggregated data: %w", err)
	}
	if err := report.WriteSourceSummaries(filepath.Join(dir, "source_summary.csv"), r.Sources); err != nil {
		return fmt.Errorf("write source summaries: %w", err)
	}
	if err := report.WriteComposite(filepath.Join(dir, "composite_score.csv"), r.Composite); err != nil {
		return fmt.Errorf("write composite score: %w", err)
	}
	return nil
}
