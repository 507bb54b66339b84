package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Chat message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Message is one role-tagged chat message
type Message struct {
	Role    string
	Content string
}

// ChatRequest is a single chat-completion call
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// Completer is a chat-completion endpoint. Complete returns the text of the
// first candidate, which may be empty.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// CompleterFunc adapts a function to the Completer interface
type CompleterFunc func(ctx context.Context, req ChatRequest) (string, error)

// Complete calls f(ctx, req)
func (f CompleterFunc) Complete(ctx context.Context, req ChatRequest) (string, error) {
	return f(ctx, req)
}

var providerModels = map[string][]string{
	ProviderOpenAI: {"gpt-4", "gpt-3.5-turbo"},
	ProviderGemini: {"gemini-2.0-flash", "gemini-1.5-pro"},
}

// Models returns the selectable models for a provider, default first
func Models(provider string) []string {
	models := providerModels[normalizeProvider(provider)]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// DefaultModel returns the first selectable model of a provider
func DefaultModel(provider string) string {
	models := providerModels[normalizeProvider(provider)]
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// IsKnownModel reports whether model is selectable for provider
func IsKnownModel(provider, model string) bool {
	for _, m := range providerModels[normalizeProvider(provider)] {
		if m == model {
			return true
		}
	}
	return false
}

// Config selects and configures the endpoint behind a Completer
type Config struct {
	Provider string // "openai" or "gemini"

	OpenAIKey     string
	OpenAIBaseURL string // optional, for OpenAI compatible gateways
	GeminiKey     string

	// Breaker settings; BreakerFailures 0 disables the circuit breaker
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// DefaultConfig returns the default endpoint configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// NewCompleter creates the Completer for the configured provider, wrapped in
// a circuit breaker. A missing credential fails here, never per translation.
func NewCompleter(config *Config) (Completer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		completer Completer
		err       error
	)

	switch normalizeProvider(config.Provider) {
	case ProviderOpenAI:
		completer, err = NewOpenAICompleter(config.OpenAIKey, config.OpenAIBaseURL)
	case ProviderGemini:
		completer, err = NewGeminiCompleter(context.Background(), config.GeminiKey)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerFailures == 0 {
		return completer, nil
	}
	return NewBreakerCompleter(normalizeProvider(config.Provider), completer, config.BreakerFailures, config.BreakerCooldown), nil
}

func normalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderOpenAI
	}
	return name
}
