package textscore

import (
	"context"
	"strings"

	"stock-sentiment/internal/classifier"
	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

// Scorer turns one named column of raw text into aggregate sentiment
// statistics through a pluggable classifier.
type Scorer struct {
	classifier          classifier.Classifier
	confidenceThreshold float64
}

func NewScorer(c classifier.Classifier, confidenceThreshold float64) *Scorer {
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.85
	}
	return &Scorer{classifier: c, confidenceThreshold: confidenceThreshold}
}

// ScoreColumn classifies all non-empty entries of one column in a single
// batch call and aggregates the results. A classifier failure degrades to
// zeroed statistics with Degraded set instead of propagating: a broken
// classifier must not abort the run, but the caller can tell the result
// apart from "no sentiment found".
func (s *Scorer) ScoreColumn(ctx context.Context, source string, values []string) types.SourceSentimentSummary {
	ctx, span := trace.StartSpan(ctx, "score-column")
	defer span.End()

	summary := types.SourceSentimentSummary{Source: source}

	// Only this column's emptiness matters; other sources are scored
	// independently.
	texts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			texts = append(texts, v)
		}
	}
	if len(texts) == 0 {
		return summary
	}

	results, err := s.classifier.Classify(ctx, texts)
	if err != nil {
		logger.ErrorWithErr(ctx, "Classifier failed for column, returning degraded result", err, "source", source)
		summary.Degraded = true
		return summary
	}
	if len(results) != len(texts) {
		logger.Error(ctx, "Classifier result count mismatch, returning degraded result",
			"source", source, "texts", len(texts), "results", len(results))
		summary.Degraded = true
		return summary
	}

	var scoreSum float64
	var strongPositive, strongNegative int
	for _, r := range results {
		switch r.Label {
		case types.LabelPositive:
			scoreSum += r.Score
			if r.Score > s.confidenceThreshold {
				strongPositive++
			}
		case types.LabelNegative:
			scoreSum -= r.Score
			if r.Score > s.confidenceThreshold {
				strongNegative++
			}
		default:
			// Any label other than POSITIVE counts against the mean, but
			// only POSITIVE/NEGATIVE pass the confidence gates.
			scoreSum -= r.Score
		}
	}

	total := len(results)
	summary.TotalCount = total
	summary.PositivePercentage = float64(strongPositive) / float64(total) * 100
	summary.NegativePercentage = float64(strongNegative) / float64(total) * 100
	summary.AverageScore = scoreSum / float64(total)
	return summary
}

// ScoreTable runs ScoreColumn over every column of a merged table, in
// column order. Each column is one independent source.
func (s *Scorer) ScoreTable(ctx context.Context, t *Table) []types.SourceSentimentSummary {
	summaries := make([]types.SourceSentimentSummary, 0, len(t.Columns()))
	for _, name := range t.Columns() {
		summary := s.ScoreColumn(ctx, name, t.Column(name))
		logger.Info(ctx, "Column scored", "source", name,
			"count", summary.TotalCount, "avg_score", summary.AverageScore, "degraded", summary.Degraded)
		summaries = append(summaries, summary)
	}
	return summaries
}
