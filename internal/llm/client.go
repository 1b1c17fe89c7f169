package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lazypower/oracle/internal/config"
)

// ErrUnrecognizedResponse is returned when an upstream reply parses but has
// none of the fields a provider is expected to fill.
var ErrUnrecognizedResponse = errors.New("unrecognized llm response")

// Client is the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Response holds the result of an LLM completion.
type Response struct {
	Content    string
	Provider   string
	TokensUsed int
}

// NewClient creates an LLM client based on the config provider setting.
// Network providers are wrapped in a circuit breaker when MaxFailures > 0.
func NewClient(cfg config.LLMConfig) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	var client Client
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-5.1"
		}
		url := cfg.OpenAIURL
		if url == "" {
			url = openAIResponsesAPI
		}
		client = NewOpenAI(url, cfg.OpenAIKey, model, timeout)
	case "claude-cli":
		model := cfg.Model
		if model == "" {
			model = "haiku"
		}
		return NewClaudeCLI(model), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY or config")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		client = NewAnthropic(cfg.AnthropicKey, model, timeout)
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		client = NewOllama(url, model, timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}

	if cfg.MaxFailures > 0 {
		client = NewBreaker(cfg.Provider, client, cfg.MaxFailures, cfg.CoolDown)
	}
	return client, nil
}

// Disabled stands in when no provider could be configured. Every call
// fails with Err.
type Disabled struct {
	Err error
}

func (d Disabled) Complete(context.Context, string) (*Response, error) {
	return nil, fmt.Errorf("llm disabled: %w", d.Err)
}
