package filing

import (
	"math"
	"time"

	"stock-sentiment/internal/types"
)

const dateLayout = "01/02/2006"

// scoreCeiling is the compressed value of a hypothetical trade worth 100%
// of market cap, used as the normalization ceiling for the score.
var scoreCeiling = math.Log1p(100)

// Summarizer aggregates a company's transaction records over a trailing
// window into one bounded sentiment value.
type Summarizer struct {
	windowDays int
}

func NewSummarizer(windowDays int) *Summarizer {
	if windowDays <= 0 {
		windowDays = 183
	}
	return &Summarizer{windowDays: windowDays}
}

// Summarize computes the insider sentiment summary for one company.
// Records with unparsable dates or dates outside the window are dropped.
// A company with no qualifying transactions is a valid outcome with all
// values at zero, and marketCap of zero never divides.
func (s *Summarizer) Summarize(company string, records []types.TransactionRecord, now time.Time, marketCap float64) types.CompanySentimentSummary {
	cutoff := now.AddDate(0, 0, -s.windowDays)

	summary := types.CompanySentimentSummary{CompanyName: company}

	for _, rec := range records {
		dt, err := time.Parse(dateLayout, rec.TransactionDate)
		if err != nil || dt.Before(cutoff) {
			continue
		}

		value := ParseNumeric(rec.TransactionShares) * ParseNumeric(rec.TransactionPrice)

		switch rec.AcquiredOrDisposed {
		case "D":
			summary.TotalValueSold += value
		case "A":
			summary.TotalValueBought += value
		default:
			// Codes outside A/D (gifts, exercises) contribute to neither
			// bucket; counted so callers can surface how much was skipped.
			summary.IgnoredRows++
		}
	}

	if marketCap > 0 {
		summary.SoldPctMarketCap = summary.TotalValueSold / marketCap * 100
		summary.BoughtPctMarketCap = summary.TotalValueBought / marketCap * 100
	}

	summary.SentimentScore = sentimentScore(summary.BoughtPctMarketCap, summary.SoldPctMarketCap)
	return summary
}

// sentimentScore compresses the bought/sold percentages with ln(1+x) so a
// single outsized trade cannot dominate, then normalizes against the
// 100%-of-market-cap ceiling and clamps to [-1, 1].
func sentimentScore(boughtPct, soldPct float64) float64 {
	raw := math.Log1p(boughtPct) - math.Log1p(soldPct)
	score := raw / scoreCeiling
	return clamp(score, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
