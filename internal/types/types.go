package types

// TransactionRecord is one row of a Form 4 non-derivative transaction table.
// Numeric fields stay as the raw cell text; cleanup happens at aggregation
// time so a bad cell degrades to zero instead of dropping the row.
type TransactionRecord struct {
	CompanyName          string `json:"company_name"`
	RelationshipToIssuer string `json:"relationship_to_issuer"`
	TitleOfSecurity      string `json:"title_of_security"`
	TransactionDate      string `json:"transaction_date"` // MM/DD/YYYY, may be unparsable
	TransactionCode      string `json:"transaction_code"`
	AcquiredOrDisposed   string `json:"acquired_or_disposed"` // "A", "D" or empty
	TransactionShares    string `json:"transaction_shares"`
	TransactionPrice     string `json:"transaction_price"`
	SharesOwnedAfter     string `json:"shares_owned_after"`
}

// CompanySentimentSummary aggregates one company's insider activity over the
// trailing window. SentimentScore is always within [-1, 1].
type CompanySentimentSummary struct {
	CompanyName        string  `json:"company_name"`
	TotalValueSold     float64 `json:"total_value_sold_last_6m"`
	TotalValueBought   float64 `json:"total_value_bought_last_6m"`
	SoldPctMarketCap   float64 `json:"sold_as_percent_market_cap"`
	BoughtPctMarketCap float64 `json:"bought_as_percent_market_cap"`
	SentimentScore     float64 `json:"sentiment_score"`
	IgnoredRows        int     `json:"ignored_rows,omitempty"` // codes outside A/D
}

// SourceSentimentSummary holds per-source classification statistics.
type SourceSentimentSummary struct {
	Source             string  `json:"column"`
	TotalCount         int     `json:"total_count"`
	PositivePercentage float64 `json:"positive_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
	AverageScore       float64 `json:"avg_score"`
	Degraded           bool    `json:"degraded,omitempty"` // classifier failed, stats zeroed
}

// CompositeScore is the fused result of one run.
type CompositeScore struct {
	WeightedAverageScore float64 `json:"weighted_average_score"`
	Tier                 string  `json:"tier"`
}

// Sentiment labels emitted by classifiers.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Classification is one classifier verdict for one input string.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // confidence in [0, 1]
}
