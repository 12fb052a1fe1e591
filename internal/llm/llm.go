package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bm-github/persona-analyser/internal/models"
	"github.com/bm-github/persona-analyser/pkg/config"
)

// SystemPrompt frames every completion request.
const SystemPrompt = "Analyze Reddit user activity focusing on key patterns in behavior, " +
	"interests, and communication style. Provide concise, data-driven insights."

// Request carries everything a completion needs; providers are stateless
// between calls.
type Request struct {
	System   string
	History  []models.ConversationTurn
	Digest   string
	Question string
}

// Completer is the completion capability. One implementation per provider,
// selected by configuration.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompletionError wraps any provider failure. The interactive session
// reports it and continues.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// New builds the configured provider.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens, cfg.Temperature), nil
	case config.ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAI(cfg.APIKey, baseURL, cfg.Model, cfg.MaxTokens, cfg.Temperature), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// userPrompt assembles the single user message: prior turns, the new
// question, then the activity digest.
func userPrompt(req Request) string {
	var b strings.Builder
	if len(req.History) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, turn := range req.History {
			fmt.Fprintf(&b, "Previous Q: %s\nPrevious A: %s\n\n", turn.Question, turn.Answer)
		}
	}
	fmt.Fprintf(&b, "New Question: %s\n\n", req.Question)
	fmt.Fprintf(&b, "Activity to analyse:\n%s\n", req.Digest)
	b.WriteString("\nPlease provide a focused and insightful answer based on the available data and our conversation history.")
	return b.String()
}
