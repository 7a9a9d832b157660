package filing

import (
	"math"
	"testing"
	"time"

	"stock-sentiment/internal/types"
)

func dateStr(t time.Time) string {
	return t.Format("01/02/2006")
}

func TestSummarizeBuyScenario(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{
			CompanyName:        "AAPL",
			TransactionDate:    dateStr(now),
			AcquiredOrDisposed: "A",
			TransactionShares:  "1,000",
			TransactionPrice:   "$50.00(1)",
		},
	}

	summary := s.Summarize("AAPL", records, now, 1_000_000)

	if summary.TotalValueBought != 50_000 {
		t.Errorf("Expected total bought 50000, got %f", summary.TotalValueBought)
	}
	if summary.BoughtPctMarketCap != 5.0 {
		t.Errorf("Expected bought pct 5.0, got %f", summary.BoughtPctMarketCap)
	}
	if summary.SentimentScore <= 0 {
		t.Errorf("Expected positive sentiment score, got %f", summary.SentimentScore)
	}
	want := math.Log1p(5.0) / math.Log1p(100)
	if math.Abs(summary.SentimentScore-want) > 1e-9 {
		t.Errorf("Expected score %f, got %f", want, summary.SentimentScore)
	}
}

func TestSummarizeEmptySet(t *testing.T) {
	s := NewSummarizer(183)
	summary := s.Summarize("AAPL", nil, time.Now(), 1_000_000)

	if summary.TotalValueSold != 0 || summary.TotalValueBought != 0 {
		t.Errorf("Expected zero totals, got sold=%f bought=%f", summary.TotalValueSold, summary.TotalValueBought)
	}
	if summary.SoldPctMarketCap != 0 || summary.BoughtPctMarketCap != 0 {
		t.Errorf("Expected zero percentages, got sold=%f bought=%f", summary.SoldPctMarketCap, summary.BoughtPctMarketCap)
	}
	if summary.SentimentScore != 0 {
		t.Errorf("Expected zero score, got %f", summary.SentimentScore)
	}
}

func TestSummarizeOutsideWindow(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{
			TransactionDate:    dateStr(now.AddDate(0, 0, -200)),
			AcquiredOrDisposed: "A",
			TransactionShares:  "1000",
			TransactionPrice:   "50",
		},
	}

	summary := s.Summarize("AAPL", records, now, 1_000_000)
	if summary.TotalValueBought != 0 || summary.SentimentScore != 0 {
		t.Errorf("Expected records outside window excluded, got bought=%f score=%f",
			summary.TotalValueBought, summary.SentimentScore)
	}
}

func TestSummarizeUnparsableDateDropped(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{TransactionDate: "not a date", AcquiredOrDisposed: "A", TransactionShares: "100", TransactionPrice: "10"},
		{TransactionDate: "", AcquiredOrDisposed: "D", TransactionShares: "100", TransactionPrice: "10"},
	}

	summary := s.Summarize("AAPL", records, now, 1_000_000)
	if summary.TotalValueBought != 0 || summary.TotalValueSold != 0 {
		t.Errorf("Expected unparsable dates dropped, got bought=%f sold=%f",
			summary.TotalValueBought, summary.TotalValueSold)
	}
}

func TestSummarizeZeroMarketCap(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "D", TransactionShares: "1000", TransactionPrice: "50"},
	}

	summary := s.Summarize("AAPL", records, now, 0)
	if summary.TotalValueSold != 50_000 {
		t.Errorf("Expected total sold 50000, got %f", summary.TotalValueSold)
	}
	if summary.SoldPctMarketCap != 0 {
		t.Errorf("Expected zero sold pct with unknown market cap, got %f", summary.SoldPctMarketCap)
	}
	if summary.SentimentScore != 0 {
		t.Errorf("Expected zero score with unknown market cap, got %f", summary.SentimentScore)
	}
}

func TestSummarizeIgnoresOtherCodes(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "A", TransactionShares: "100", TransactionPrice: "10"},
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "G", TransactionShares: "500", TransactionPrice: "10"},
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "", TransactionShares: "500", TransactionPrice: "10"},
	}

	summary := s.Summarize("AAPL", records, now, 1_000_000)
	if summary.TotalValueBought != 1000 {
		t.Errorf("Expected only the A row counted, got bought=%f", summary.TotalValueBought)
	}
	if summary.TotalValueSold != 0 {
		t.Errorf("Expected no sold value, got %f", summary.TotalValueSold)
	}
	if summary.IgnoredRows != 2 {
		t.Errorf("Expected 2 ignored rows, got %d", summary.IgnoredRows)
	}
}

func TestSummarizeScoreBounded(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	// Selling far more than the entire market cap must clamp at -1.
	records := []types.TransactionRecord{
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "D", TransactionShares: "1000000000", TransactionPrice: "1000"},
	}
	summary := s.Summarize("AAPL", records, now, 1000)
	if summary.SentimentScore != -1 {
		t.Errorf("Expected score clamped to -1, got %f", summary.SentimentScore)
	}

	records[0].AcquiredOrDisposed = "A"
	summary = s.Summarize("AAPL", records, now, 1000)
	if summary.SentimentScore != 1 {
		t.Errorf("Expected score clamped to 1, got %f", summary.SentimentScore)
	}
}

func TestSummarizeMonotonicInBuying(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	prev := -2.0
	for _, shares := range []string{"0", "100", "10000", "1000000", "100000000"} {
		records := []types.TransactionRecord{
			{TransactionDate: dateStr(now), AcquiredOrDisposed: "D", TransactionShares: "5000", TransactionPrice: "20"},
			{TransactionDate: dateStr(now), AcquiredOrDisposed: "A", TransactionShares: shares, TransactionPrice: "20"},
		}
		summary := s.Summarize("AAPL", records, now, 10_000_000)
		if summary.SentimentScore < prev {
			t.Fatalf("Score decreased from %f to %f as buying grew (shares=%s)", prev, summary.SentimentScore, shares)
		}
		if summary.SentimentScore < -1 || summary.SentimentScore > 1 {
			t.Fatalf("Score %f out of [-1,1]", summary.SentimentScore)
		}
		prev = summary.SentimentScore
	}
}

func TestSummarizeBadNumericDegradesToZero(t *testing.T) {
	now := time.Now()
	s := NewSummarizer(183)

	records := []types.TransactionRecord{
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "A", TransactionShares: "garbage", TransactionPrice: "50"},
		{TransactionDate: dateStr(now), AcquiredOrDisposed: "A", TransactionShares: "100", TransactionPrice: "25"},
	}

	summary := s.Summarize("AAPL", records, now, 1_000_000)
	// Bad row contributes zero value but does not abort the batch.
	if summary.TotalValueBought != 2500 {
		t.Errorf("Expected bought 2500, got %f", summary.TotalValueBought)
	}
}
