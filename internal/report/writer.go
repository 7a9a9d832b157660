package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stock-sentiment/internal/types"
)

// CSV reports are the persisted output of one run; each writer owns one of
// the output schemas.

func WriteTransactions(path string, records []types.TransactionRecord) error {
	headers := []string{
		"company_name", "relationship_to_issuer", "title_of_security",
		"transaction_date", "transaction_code", "acquired_or_disposed",
		"transaction_shares", "transaction_price", "shares_owned_after",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CompanyName, r.RelationshipToIssuer, r.TitleOfSecurity,
			r.TransactionDate, r.TransactionCode, r.AcquiredOrDisposed,
			r.TransactionShares, r.TransactionPrice, r.SharesOwnedAfter,
		})
	}
	return writeCSV(path, headers, rows)
}

func WriteCompanySummary(path string, s types.CompanySentimentSummary) error {
	headers := []string{
		"company_name", "total_value_sold_last_6m", "total_value_bought_last_6m",
		"sold_as_percent_market_cap", "bought_as_percent_market_cap", "sentiment_score",
	}
	row := []string{
		s.CompanyName,
		fmt.Sprintf("%.2f", s.TotalValueSold),
		fmt.Sprintf("%.2f", s.TotalValueBought),
		fmt.Sprintf("%.10f", s.SoldPctMarketCap),
		fmt.Sprintf("%.10f", s.BoughtPctMarketCap),
		fmt.Sprintf("%.4f", s.SentimentScore),
	}
	return writeCSV(path, headers, [][]string{row})
}

func WriteSourceSummaries(path string, summaries []types.SourceSentimentSummary) error {
	headers := []string{"column", "total_count", "positive_percentage", "negative_percentage", "avg_score", "degraded"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Source,
			strconv.Itoa(s.TotalCount),
			fmt.Sprintf("%.2f", s.PositivePercentage),
			fmt.Sprintf("%.2f", s.NegativePercentage),
			fmt.Sprintf("%.4f", s.AverageScore),
			strconv.FormatBool(s.Degraded),
		})
	}
	return writeCSV(path, headers, rows)
}

func WriteComposite(path string, c types.CompositeScore) error {
	headers := []string{"weighted_average_score", "tier"}
	row := []string{fmt.Sprintf("%.4f", c.WeightedAverageScore), c.Tier}
	return writeCSV(path, headers, [][]string{row})
}

func writeCSV(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
