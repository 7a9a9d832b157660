package fusion

import (
	"stock-sentiment/internal/types"
)

// Weights configures the composite score. Passed in explicitly so tests
// and callers can exercise alternative weightings without touching the
// algorithm.
type Weights struct {
	// Source maps a text-source name to its weight.
	Source map[string]float64
	// Insider is the weight of the insider-filing score.
	Insider float64
	// RenormalizeMissing rescales the weights of present contributors to
	// sum to 1 when a source is absent. Off by default: the fixed-fraction
	// policy keeps scores comparable across runs at the cost of being
	// pulled toward zero when coverage is partial.
	RenormalizeMissing bool
}

// DefaultWeights returns the standard weighting: search 0.5, video 0.4,
// insider 0.1.
func DefaultWeights() Weights {
	return Weights{
		Source: map[string]float64{
			"GoogleSearch": 0.5,
			"YouTube":      0.4,
		},
		Insider: 0.1,
	}
}

// Scorer fuses per-source summaries and the insider summary into one
// bounded composite score with a qualitative tier.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the weighted average. An absent source contributes 0 at
// its weight unless renormalization is enabled.
func (s *Scorer) Score(insider types.CompanySentimentSummary, sources []types.SourceSentimentSummary) types.CompositeScore {
	bySource := make(map[string]types.SourceSentimentSummary, len(sources))
	for _, src := range sources {
		bySource[src.Source] = src
	}

	var weighted, presentWeight float64
	for name, weight := range s.weights.Source {
		src, ok := bySource[name]
		if !ok {
			continue
		}
		weighted += src.AverageScore * weight
		presentWeight += weight
	}
	weighted += insider.SentimentScore * s.weights.Insider
	presentWeight += s.weights.Insider

	if s.weights.RenormalizeMissing && presentWeight > 0 {
		weighted /= presentWeight
	}

	return types.CompositeScore{
		WeightedAverageScore: weighted,
		Tier:                 Tier(weighted),
	}
}

// Tier maps a composite score to one of five ordered labels. Comparisons
// are strict and evaluated top-down; first match wins.
func Tier(score float64) string {
	switch {
	case score > 0.5:
		return "Very Positive"
	case score > 0.2:
		return "Positive"
	case score > -0.2:
		return "Neutral"
	case score > -0.5:
		return "Negative"
	default:
		return "Very Negative"
	}
}
