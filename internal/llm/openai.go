package llm

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint; the same client serves
// both providers.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	provider    string
}

func NewOpenAI(apiKey, baseURL, model string, maxTokens int, temperature float64) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	provider := "openai"
	if baseURL != "" {
		cfg.BaseURL = baseURL
		if strings.Contains(baseURL, "groq") {
			provider = "groq"
		}
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		provider:    provider,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	system := req.System
	if system == "" {
		system = SystemPrompt
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt(req),
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		return "", &CompletionError{Provider: c.provider, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &CompletionError{Provider: c.provider, Err: errEmptyResponse}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
