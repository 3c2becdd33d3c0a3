// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm talks to hosted language models. Each backend (OpenAI,
// Anthropic, Gemini) implements Provider with a free-text completion and a
// structured completion that returns JSON shaped by a Target schema.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// Default model identifiers per backend.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultGeminiModel    = "gemini-2.5-flash"

	DefaultTemperature = 0.1
	defaultMaxTokens   = 4096
)

// Role names the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Target describes the JSON object a structured completion must produce.
// Name and Description are passed to the backend as the tool or function
// definition.
type Target struct {
	Name        string
	Description string
	Schema      *Schema
}

// Schema is the subset of JSON Schema the backends share.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Provider is a language model backend.
type Provider interface {
	Name() string

	// Complete returns the model's text answer.
	Complete(ctx context.Context, messages []Message) (string, error)

	// CompleteStructured returns a JSON object conforming to target.Schema.
	CompleteStructured(ctx context.Context, messages []Message, target Target) (json.RawMessage, error)
}

// New builds the provider selected by cfg.Provider. Missing API keys are
// reported by the backend: at call time for OpenAI and Anthropic, at
// construction for Gemini. A nil log disables logging.
func New(ctx context.Context, cfg types.ModelConfig, log *zap.Logger) (Provider, error) {
	temp := cfg.Temperature
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	client := httputil.NewClient(cfg.Timeout)

	switch cfg.Provider {
	case types.ModelOpenAI, "":
		return &OpenAI{
			APIKey:      cfg.APIKey,
			Model:       orDefault(cfg.Name, DefaultOpenAIModel),
			BaseURL:     cfg.BaseURL,
			Temperature: temp,
			MaxTokens:   maxTokens,
			UserAgent:   cfg.UserAgent,
			Client:      client,
			Log:         log,
		}, nil
	case types.ModelAnthropic:
		return &Anthropic{
			APIKey:      cfg.APIKey,
			Model:       orDefault(cfg.Name, DefaultAnthropicModel),
			BaseURL:     cfg.BaseURL,
			Temperature: temp,
			MaxTokens:   maxTokens,
			UserAgent:   cfg.UserAgent,
			Client:      client,
			Log:         log,
		}, nil
	case types.ModelGemini:
		return NewGemini(ctx, GeminiOptions{
			APIKey:      cfg.APIKey,
			Model:       orDefault(cfg.Name, DefaultGeminiModel),
			BaseURL:     cfg.BaseURL,
			Temperature: temp,
			MaxTokens:   maxTokens,
			Client:      client,
			Log:         log,
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q: use openai, anthropic, or gemini", cfg.Provider)
	}
}

// splitSystem separates system messages, joined by blank lines, from the
// conversation turns. Backends with a dedicated system field use it.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// endpoint joins a configured or default base URL with path.
func endpoint(base, def, path string) string {
	if base == "" {
		base = def
	}
	return strings.TrimRight(base, "/") + path
}

// errMissingKey is returned by HTTP backends called without a key.
func errMissingKey(service string) error {
	return fmt.Errorf("%w: %s API key is not set", types.ErrProviderUnavailable, service)
}

// modelLog tags l with the provider name. A nil l yields a no-op logger.
func modelLog(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String("model", name))
}

// headers returns the auth headers plus User-Agent when one is set.
func headers(userAgent string, auth map[string]string) map[string]string {
	if userAgent != "" {
		auth["User-Agent"] = userAgent
	}
	return auth
}
