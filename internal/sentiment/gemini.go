package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const geminiInstruction = `You are a financial news sentiment rater.
Rate the polarity of the given headline as a single compound score between -1.0 (maximally negative)
and 1.0 (maximally positive), with 0.0 meaning neutral. Judge only the text given; do not speculate.`

// contentGenerator is the part of *genai.Models used by GeminiScorer.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiScorer asks a Gemini model for a compound score. Responses are not guaranteed
// to be stable across calls, so wrap it in Cached.
type GeminiScorer struct {
	models contentGenerator
	model  string
}

// NewGeminiScorer creates a scorer backed by the Gemini API.
func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiScorer{models: client.Models, model: model}, nil
}

type geminiScore struct {
	Compound float64 `json:"compound"`
}

func (s *GeminiScorer) Score(ctx context.Context, text string) (float64, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}}
	resp, err := s.models.GenerateContent(ctx, s.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: geminiInstruction}}},
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	})
	if err != nil {
		return 0, fmt.Errorf("gemini API call failed: %w", err)
	}

	raw := resp.Text()
	var out geminiScore
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return 0, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, raw)
	}
	return out.Compound, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"compound": {
				Type:        genai.TypeNumber,
				Description: "Compound polarity between -1.0 and 1.0.",
				Minimum:     genai.Ptr[float64](-1),
				Maximum:     genai.Ptr[float64](1),
			},
		},
		Required: []string{"compound"},
	}
}
