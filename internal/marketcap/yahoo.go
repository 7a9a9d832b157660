package marketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stock-sentiment/internal/logger"
)

// User-Agent required: Yahoo blocks generic clients (401/429)
const yahooUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Provider returns a company's market capitalization, used purely as the
// normalization denominator for the insider score.
type Provider interface {
	MarketCap(ctx context.Context, symbol string) (float64, error)
}

// YahooProvider reads marketCap from the Yahoo quote endpoint.
type YahooProvider struct {
	quoteURL string
	http     *http.Client
}

func NewYahooProvider(quoteURL string, timeout time.Duration) *YahooProvider {
	return &YahooProvider{
		quoteURL: quoteURL,
		http:     &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol    string  `json:"symbol"`
			MarketCap float64 `json:"marketCap"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// MarketCap fetches the quote for one symbol. A quote without a marketCap
// field yields 0, which downstream treats as "unknown", never an abort.
func (p *YahooProvider) MarketCap(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s?symbols=%s&fields=marketCap", p.quoteURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo quote %s: http %d", symbol, resp.StatusCode)
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return 0, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if len(qr.QuoteResponse.Result) == 0 {
		logger.Debug(ctx, "No quote result for symbol", "symbol", symbol)
		return 0, nil
	}
	return qr.QuoteResponse.Result[0].MarketCap, nil
}
