package classifier

import (
	"context"

	"stock-sentiment/internal/types"
)

// Classifier scores a batch of raw text strings. Implementations must
// return exactly one classification per input, in input order, and should
// handle the whole batch in as few upstream calls as possible.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]types.Classification, error)
}
