package sources

import (
	"context"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/textscore"
)

// TextSource produces one named column of raw public-opinion text for a
// search query. Rows carry no meaning across sources; each column stands
// alone.
type TextSource interface {
	Name() string
	Fetch(ctx context.Context, query string, maxResults int) ([]string, error)
}

// Collect runs every source and merges the columns into one wide table.
// A failing source contributes an empty column instead of aborting: at
// fusion time an absent source is a zero contribution, not an error.
func Collect(ctx context.Context, srcs []TextSource, query string, maxResults int) *textscore.Table {
	table := textscore.NewTable()
	for _, src := range srcs {
		texts, err := src.Fetch(ctx, query, maxResults)
		if err != nil {
			logger.ErrorWithErr(ctx, "Text source failed", err, "source", src.Name())
			continue
		}
		logger.Info(ctx, "Text source collected", "source", src.Name(), "rows", len(texts))
		table.AddColumn(src.Name(), texts)
	}
	return table
}
