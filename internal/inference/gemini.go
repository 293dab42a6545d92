package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements the Invoker interface using Google Gemini. It exists as
// an alternative to Bedrock for deployments without AWS access.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Invoker = (*Gemini)(nil)

// NewGemini creates a new Gemini Invoker instance
func NewGemini(ctx context.Context, apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  modelName,
	}, nil
}

// Invoke sends the request to Gemini and returns the concatenated text
// parts of the first candidate.
func (g *Gemini) Invoke(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(req.MaxTokens)
	model.SetTemperature(req.Temperature)

	var parts []genai.Part
	if req.Image != nil {
		parts = append(parts, genai.ImageData(req.Image.Format, req.Image.Data))
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var out strings.Builder
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
			found = true
		}
	}
	if !found {
		return "", ErrEmptyCompletion
	}

	return out.String(), nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
