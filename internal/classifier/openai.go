package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"stock-sentiment/internal/trace"
	"stock-sentiment/internal/types"
)

const classifySystemPrompt = "You are a sentiment classifier. " +
	"For every input text return a label (POSITIVE, NEGATIVE or NEUTRAL) and a confidence score between 0 and 1. " +
	"Respond ONLY with a valid JSON array, one object per input, in input order."

const classifySchema = `[{"label": "POSITIVE|NEGATIVE|NEUTRAL", "score": 0.0}]`

// OpenAIClassifier scores texts through the Chat Completions API. Inputs
// are sent in batches of batchSize per request rather than one call per
// string.
type OpenAIClassifier struct {
	client    *openai.Client
	model     string
	batchSize int
}

func NewOpenAIClassifier(apiKey, model string, batchSize int) (*OpenAIClassifier, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	return &OpenAIClassifier{
		client:    openai.NewClient(apiKey),
		model:     model,
		batchSize: batchSize,
	}, nil
}

// Classify implements the Classifier interface.
func (c *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([]types.Classification, error) {
	ctx, span := trace.StartSpan(ctx, "openai-classify")
	defer span.End()

	results := make([]types.Classification, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.classifyBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

func (c *OpenAIClassifier) classifyBatch(ctx context.Context, texts []string) ([]types.Classification, error) {
	inputs, _ := json.Marshal(texts)
	prompt := fmt.Sprintf("Schema:%s\nTexts:%s", classifySchema, string(inputs))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai classify: no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Some models wrap JSON in a code fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed []types.Classification
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("openai classify: invalid JSON response: %w", err)
	}
	if len(parsed) != len(texts) {
		return nil, fmt.Errorf("openai classify: got %d results for %d inputs", len(parsed), len(texts))
	}

	for i := range parsed {
		parsed[i].Label = strings.ToUpper(strings.TrimSpace(parsed[i].Label))
		switch parsed[i].Label {
		case types.LabelPositive, types.LabelNegative, types.LabelNeutral:
		default:
			parsed[i].Label = types.LabelNeutral
		}
		if parsed[i].Score < 0 || parsed[i].Score > 1 {
			parsed[i].Score = 0
		}
	}
	return parsed, nil
}
