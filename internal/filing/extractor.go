package filing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stock-sentiment/internal/types"
)

// Table I is the non-derivative securities table of a Form 4 filing. The
// column order is fixed by the SEC, so cells are read by position. A layout
// revision only needs a new schema here, not new row logic.
type tableSchema struct {
	version            string
	minCells           int
	titleOfSecurity    int
	transactionDate    int
	transactionCode    int
	transactionShares  int
	acquiredOrDisposed int
	transactionPrice   int
	sharesOwnedAfter   int
}

// currentSchema matches the EDGAR HTML rendering in use since 2003:
// 0=title, 1=date, 2=deemed execution date, 3=code, 4=V flag,
// 5=shares, 6=A/D, 7=price, 8=shares owned after.
var currentSchema = tableSchema{
	version:            "edgar-2003",
	minCells:           9,
	titleOfSecurity:    0,
	transactionDate:    1,
	transactionCode:    3,
	transactionShares:  5,
	acquiredOrDisposed: 6,
	transactionPrice:   7,
	sharesOwnedAfter:   8,
}

// tableMarker identifies the Table I header cell. "Table I" alone would
// also match the "Table II" derivative header.
const tableMarker = "Non-Derivative"

// relationshipMarker identifies the reporting-person relationship section.
const relationshipMarker = "relationship of reporting person"

// ParseError reports a filing document whose markup could not be parsed at
// all. It is fatal for that one document only; callers log and move on.
type ParseError struct {
	Company string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("filing for %s: unparsable markup: %v", e.Company, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor parses Form 4 filing documents into transaction records.
type Extractor struct {
	schema tableSchema
}

func NewExtractor() *Extractor {
	return &Extractor{schema: currentSchema}
}

// Extract parses one filing document and returns its Table I transactions.
// A filing without a recognizable Table I yields an empty slice: many
// filings only report derivative securities. Only markup that cannot be
// parsed at all returns an error.
func (e *Extractor) Extract(content, company string) ([]types.TransactionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Company: company, Err: err}
	}

	// Relationship/title is document-level metadata, looked up once.
	relationship := e.findRelationship(doc)

	table := e.findTransactionTable(doc)
	if table == nil {
		return nil, nil
	}

	records := []types.TransactionRecord{}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		// Footnote and spacer rows have fewer cells and are skipped.
		if cells.Length() < e.schema.minCells {
			return
		}

		cellText := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		records = append(records, types.TransactionRecord{
			CompanyName:          company,
			RelationshipToIssuer: relationship,
			TitleOfSecurity:      cellText(e.schema.titleOfSecurity),
			TransactionDate:      cellText(e.schema.transactionDate),
			TransactionCode:      cellText(e.schema.transactionCode),
			AcquiredOrDisposed:   cellText(e.schema.acquiredOrDisposed),
			TransactionShares:    cellText(e.schema.transactionShares),
			TransactionPrice:     cleanPriceCell(cellText(e.schema.transactionPrice)),
			SharesOwnedAfter:     cellText(e.schema.sharesOwnedAfter),
		})
	})

	return records, nil
}

// findTransactionTable locates the table whose header cell carries the
// Table I marker. Returns nil when the filing has no such table.
func (e *Extractor) findTransactionTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !strings.Contains(th.Text(), tableMarker) {
			return true
		}
		parent := th.Closest("table")
		if parent.Length() > 0 {
			table = parent
			return false
		}
		return true
	})
	return table
}

// findRelationship reads the reporting person's relationship to the issuer
// (e.g. an officer title). Best-effort: absence yields an empty string.
func (e *Extractor) findRelationship(doc *goquery.Document) string {
	var relationship string
	doc.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(span.Text()), relationshipMarker) {
			return true
		}
		section := span.Closest("td")
		if section.Length() == 0 {
			return true
		}
		// The officer title is usually rendered in a blue-styled cell
		// next to the "Officer (give title below)" checkbox.
		section.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			style, _ := td.Attr("style")
			if strings.Contains(style, "color: blue") {
				relationship = strings.TrimSpace(td.Text())
				return false
			}
			return true
		})
		return relationship == ""
	})
	return relationship
}

// cleanPriceCell strips the currency symbol and everything from the first
// parenthesis onward (footnote references like "$50.00(1)").
func cleanPriceCell(s string) string {
	s = strings.ReplaceAll(s, "$", "")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseNumeric converts a cleaned-up filing cell to a non-negative float.
// Thousands separators, currency symbols and parentheses are removed first;
// anything that still fails to parse degrades to 0 so a bad cell never
// drops the row or aborts the batch.
func ParseNumeric(s string) float64 {
	s = strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(s))
	// A parenthesis mid-string is a footnote marker; a leading one is
	// parenthesized-negative notation.
	if i := strings.Index(s, "("); i > 0 {
		s = s[:i]
	}
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
