package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stock-sentiment/internal/logger"
	"stock-sentiment/internal/trace"
)

const archivesBaseURL = "https://www.sec.gov/Archives/edgar/data"

// Filing is one Form 4 filing reference from the submissions index.
type Filing struct {
	AccessionNumber string
	FilingDate      time.Time
	PrimaryDocument string
	DocumentURL     string
}

// Client retrieves filing indexes and documents from EDGAR. All requests
// carry a declared User-Agent and go through a shared rate limiter; the
// SEC blocks anonymous or bursty clients.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewClient(baseURL, userAgent string, requestsPerSecond float64, timeout time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 8
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// submissionsResponse mirrors the fields we need from
// /submissions/CIK{cik}.json.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// RecentForm4Filings lists the company's Form 4 filings from the trailing
// window, newest first as EDGAR returns them.
func (c *Client) RecentForm4Filings(ctx context.Context, cik string, window time.Duration) ([]Filing, error) {
	ctx, span := trace.StartSpan(ctx, "edgar-form4-index")
	defer span.End()

	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, cik)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var sub submissionsResponse
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("edgar submissions for CIK %s: %w", cik, err)
	}

	recent := sub.Filings.Recent
	cutoff := time.Now().Add(-window)

	filings := []Filing{}
	for i, form := range recent.Form {
		if form != "4" || i >= len(recent.FilingDate) || i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			continue
		}
		filed, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil || filed.Before(cutoff) {
			continue
		}
		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		filings = append(filings, Filing{
			AccessionNumber: accession,
			FilingDate:      filed,
			PrimaryDocument: recent.PrimaryDocument[i],
			DocumentURL: fmt.Sprintf("%s/%s/%s/%s",
				archivesBaseURL, strings.TrimLeft(cik, "0"), accession, recent.PrimaryDocument[i]),
		})
	}

	logger.Info(ctx, "Form 4 index fetched", "cik", cik, "filings", len(filings))
	return filings, nil
}

// FetchDocument downloads one filing document and returns its markup.
func (c *Client) FetchDocument(ctx context.Context, f Filing) (string, error) {
	ctx, span := trace.StartSpan(ctx, "edgar-fetch-document")
	defer span.End()

	body, err := c.get(ctx, f.DocumentURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edgar get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edgar get %s: http %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
