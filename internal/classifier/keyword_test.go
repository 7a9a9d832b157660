package classifier

import (
	"context"
	"testing"

	"stock-sentiment/internal/types"
)

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		text      string
		wantLabel string
		wantScore float64
	}{
		{"this is a great product, highly recommend", types.LabelPositive, 0.7},
		{"terrible experience, avoid at all costs", types.LabelNegative, 0.7},
		{"good stuff but bad delivery", types.LabelPositive, 0.55}, // tie leans positive
		{"nothing notable here", types.LabelPositive, 0.1},
		{"GREAT and WONDERFUL", types.LabelPositive, 0.7}, // case-insensitive
	}

	in := make([]string, len(tests))
	for i, tt := range tests {
		in[i] = tt.text
	}

	results, err := c.Classify(context.Background(), in)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if len(results) != len(tests) {
		t.Fatalf("Expected %d results, got %d", len(tests), len(results))
	}

	for i, tt := range tests {
		if results[i].Label != tt.wantLabel {
			t.Errorf("%q: expected label %s, got %s", tt.text, tt.wantLabel, results[i].Label)
		}
		if results[i].Score != tt.wantScore {
			t.Errorf("%q: expected score %v, got %v", tt.text, tt.wantScore, results[i].Score)
		}
	}
}

func TestKeywordClassifierDeterministic(t *testing.T) {
	c := NewKeywordClassifier()
	in := []string{"love it", "hate it", "meh"}

	a, _ := c.Classify(context.Background(), in)
	b, _ := c.Classify(context.Background(), in)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected deterministic results, got %+v vs %+v", a[i], b[i])
		}
	}
}

func TestKeywordClassifierDistinctWordsCountOnce(t *testing.T) {
	c := NewKeywordClassifier()

	// One distinct positive word, however often repeated.
	res, _ := c.Classify(context.Background(), []string{"good good good"})
	if res[0].Label != types.LabelPositive || res[0].Score != 0.6 {
		t.Errorf("Expected POSITIVE 0.6 for repeated word, got %s %v", res[0].Label, res[0].Score)
	}
}

func TestKeywordClassifierScoreCap(t *testing.T) {
	c := NewKeywordClassifier()

	// Six positive matches: score capped at 0.5 + 0.4.
	res, _ := c.Classify(context.Background(), []string{"good great excellent amazing wonderful best"})
	if res[0].Score != 0.9 {
		t.Errorf("Expected capped score 0.9, got %v", res[0].Score)
	}
}
