package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-sentiment/internal/logger"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// GoogleNewsSource scrapes news search result headlines and snippets for a
// query. Column name "GoogleSearch" matches the fusion weighting key.
type GoogleNewsSource struct {
	timeout time.Duration
}

func NewGoogleNewsSource(timeout time.Duration) *GoogleNewsSource {
	return &GoogleNewsSource{timeout: timeout}
}

func (s *GoogleNewsSource) Name() string { return "GoogleSearch" }

func (s *GoogleNewsSource) Fetch(ctx context.Context, query string, maxResults int) ([]string, error) {
	texts := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(texts) >= maxResults {
			return
		}
		title := strings.TrimSpace(e.ChildText("h3, h4"))
		if title == "" {
			return
		}
		if snippet := strings.TrimSpace(e.ChildText("p")); snippet != "" {
			title = title + ". " + snippet
		}
		texts = append(texts, title)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", s.Name(), "url", r.Request.URL.String())
	})

	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	return texts, nil
}
