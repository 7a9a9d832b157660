package classifier

import (
	"context"
	"strings"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/types"
)

// KeywordClassifier is a deterministic fallback used when no model provider
// is configured. It counts matches against small positive/negative word
// sets and never fails.
type KeywordClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var positiveWords = []string{
	"good", "great", "excellent", "positive", "amazing",
	"wonderful", "best", "love", "happy", "recommend",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "negative", "poor",
	"worst", "hate", "disappointing", "disappointed", "avoid",
}

func NewKeywordClassifier() *KeywordClassifier {
	c := &KeywordClassifier{
		positive: make(map[string]struct{}, len(positiveWords)),
		negative: make(map[string]struct{}, len(negativeWords)),
	}
	for _, w := range positiveWords {
		c.positive[w] = struct{}{}
	}
	for _, w := range negativeWords {
		c.negative[w] = struct{}{}
	}
	return c
}

// Classify implements the Classifier interface.
func (c *KeywordClassifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	logger.Debug(ctx, "Keyword classifier called", "texts", len(texts))

	results := make([]types.Classification, 0, len(texts))
	for _, text := range texts {
		results = append(results, c.classifyOne(text))
	}
	return results, nil
}

func (c *KeywordClassifier) classifyOne(text string) types.Classification {
	posMatches := 0
	negMatches := 0
	// Distinct words only: repeating a keyword must not inflate the score.
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		if _, ok := c.positive[word]; ok {
			posMatches++
		}
		if _, ok := c.negative[word]; ok {
			negMatches++
		}
	}

	switch {
	case posMatches > negMatches:
		return types.Classification{Label: types.LabelPositive, Score: 0.5 + min(0.4, float64(posMatches)*0.1)}
	case negMatches > posMatches:
		return types.Classification{Label: types.LabelNegative, Score: 0.5 + min(0.4, float64(negMatches)*0.1)}
	case posMatches > 0:
		// Matched counts tie on both sides; lean positive with low confidence.
		return types.Classification{Label: types.LabelPositive, Score: 0.55}
	default:
		return types.Classification{Label: types.LabelPositive, Score: 0.1}
	}
}
