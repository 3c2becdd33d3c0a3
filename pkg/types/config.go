// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "advance-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// BaseURL overrides the provider's API endpoint. Empty selects the
	// provider's public endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// ContentBackend identifies the search/scrape service.
type ContentBackend string

const (
	ContentFirecrawl ContentBackend = "firecrawl"
	ContentTavily    ContentBackend = "tavily"
	ContentArxiv     ContentBackend = "arxiv"

	ContentSemanticScholar ContentBackend = "semantic_scholar"
)

// RequiresKey reports whether the backend cannot run without an API key.
func (b ContentBackend) RequiresKey() bool {
	return b == ContentFirecrawl || b == ContentTavily
}

// SearchConfig holds settings for the content provider and Stage 1.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: firecrawl, tavily, arxiv, or
	// semantic_scholar.
	Provider ContentBackend `json:"provider" yaml:"provider" mapstructure:"provider"`

	// APIKey authenticates against the backend. Never serialized.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// MaxResults caps the number of sources per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// SnippetLimit bounds each source's snippet, in runes (default 1000).
	SnippetLimit int `json:"snippet_limit" yaml:"snippet_limit" mapstructure:"snippet_limit"`

	// QuerySuffix is appended to the query to bias results toward recent,
	// citable work. Empty selects a suffix built from the current year.
	QuerySuffix string `json:"query_suffix,omitempty" yaml:"query_suffix,omitempty" mapstructure:"query_suffix"`

	// Since restricts Semantic Scholar results to papers from this year
	// on. Zero disables the filter.
	Since int `json:"since,omitempty" yaml:"since,omitempty" mapstructure:"since"`

	// Depth is Tavily's search_depth: basic or advanced (default basic).
	Depth string `json:"depth,omitempty" yaml:"depth,omitempty" mapstructure:"depth"`
}

// Tavily search depths.
const (
	DefaultTavilyDepth  = "basic"
	AdvancedTavilyDepth = "advanced"
)

// ModelBackend identifies the language model API.
type ModelBackend string

const (
	ModelOpenAI    ModelBackend = "openai"
	ModelAnthropic ModelBackend = "anthropic"
	ModelGemini    ModelBackend = "gemini"
)

// ModelConfig holds settings for the language model provider.
type ModelConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: openai, anthropic, or gemini.
	Provider ModelBackend `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Name is the model identifier (e.g. "gpt-4o").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// APIKey authenticates against the model API. Never serialized.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// Temperature is the sampling temperature (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens bounds the response length where the API requires it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the console level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives JSON logs with size-based rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all settings for the agent.
type Config struct {
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Model  ModelConfig  `json:"model" yaml:"model" mapstructure:"model"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
