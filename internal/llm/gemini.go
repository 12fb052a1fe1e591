package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var errEmptyResponse = errors.New("empty response from model")

// GeminiClient implements Completer against the Google Generative AI API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewGemini(ctx context.Context, apiKey, model string, maxTokens int, temperature float64) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	system := req.System
	if system == "" {
		system = SystemPrompt
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.SetTemperature(float32(c.temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt(req)))
	if err != nil {
		return "", &CompletionError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &CompletionError{Provider: "gemini", Err: errEmptyResponse}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "", &CompletionError{Provider: "gemini", Err: errEmptyResponse}
	}
	return answer, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
