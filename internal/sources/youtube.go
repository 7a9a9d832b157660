package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-sentiment/internal/logger"
)

// videoTitleRe pulls video titles out of the ytInitialData blob embedded in
// the results page; the rendered DOM is built client-side, so selectors on
// the raw HTML find nothing.
var videoTitleRe = regexp.MustCompile(`"videoRenderer":\{.*?"title":\{"runs":\[\{"text":("(?:[^"\\]|\\.)*")\}`)

// YouTubeSource scrapes video titles from the search results page.
// Column name "YouTube" matches the fusion weighting key.
type YouTubeSource struct {
	timeout time.Duration
}

func NewYouTubeSource(timeout time.Duration) *YouTubeSource {
	return &YouTubeSource{timeout: timeout}
}

func (s *YouTubeSource) Name() string { return "YouTube" }

func (s *YouTubeSource) Fetch(ctx context.Context, query string, maxResults int) ([]string, error) {
	texts := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains("www.youtube.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scraperUserAgent)
	})

	c.OnResponse(func(r *colly.Response) {
		for _, m := range videoTitleRe.FindAllSubmatch(r.Body, -1) {
			if len(texts) >= maxResults {
				return
			}
			// Titles arrive JSON-escaped; decode rather than unescaping by hand.
			var title string
			if err := json.Unmarshal(m[1], &title); err != nil {
				continue
			}
			if title = strings.TrimSpace(title); title != "" {
				texts = append(texts, title)
			}
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", s.Name(), "url", r.Request.URL.String())
	})

	searchURL := fmt.Sprintf("https://www.youtube.com/results?search_query=%s", url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape YouTube results: %w", err)
	}
	c.Wait()

	return texts, nil
}
