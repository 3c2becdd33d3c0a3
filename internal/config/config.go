// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the agent's settings from defaults, the config
// file, the environment and the .secrets directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/internal/secrets"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// EnvPrefix prefixes environment overrides: search.max_results is read
// from ADVANCE_AGENT_SEARCH_MAX_RESULTS.
const EnvPrefix = "ADVANCE_AGENT"

// ConfigName is the config file base name.
const ConfigName = "advance-agent"

// Provider credentials are also read from the variables each service
// documents.
var credentialEnv = map[string]string{
	"credentials.firecrawl": "FIRECRAWL_API_KEY",
	"credentials.tavily":    "TAVILY_API_KEY",
	"credentials.openai":    "OPENAI_API_KEY",
	"credentials.anthropic": "ANTHROPIC_API_KEY",
	"credentials.gemini":    "GEMINI_API_KEY",

	"credentials.semantic_scholar": "SEMANTIC_SCHOLAR_API_KEY",
}

// Init prepares v: defaults, environment binding, and the config file
// search path. An empty file searches ./advance-agent.yaml and
// ~/.config/advance-agent/advance-agent.yaml.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range credentialEnv {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return nil
}

// SetDefaults registers every known key so environment overrides apply
// during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("search.provider", string(types.ContentFirecrawl))
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.snippet_limit", 1000)
	v.SetDefault("search.query_suffix", "")
	v.SetDefault("search.since", 0)
	v.SetDefault("search.depth", types.DefaultTavilyDepth)
	v.SetDefault("search.timeout", 60*time.Second)
	v.SetDefault("search.user_agent", "advance-agent")
	v.SetDefault("search.base_url", "")

	v.SetDefault("model.provider", string(types.ModelOpenAI))
	v.SetDefault("model.name", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.temperature", llm.DefaultTemperature)
	v.SetDefault("model.max_tokens", 4096)
	v.SetDefault("model.timeout", 120*time.Second)
	v.SetDefault("model.user_agent", "advance-agent")
	v.SetDefault("model.base_url", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// Load reads the config file if one exists and returns the merged
// settings. API keys not set through config or ADVANCE_AGENT_* variables
// fall back to the provider's own variable and then to the secrets files.
// A content provider that needs a key and has none fails with
// types.ErrProviderUnavailable; a missing model key is left to the model
// provider.
func Load(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Search.Provider = types.ContentBackend(strings.ToLower(string(cfg.Search.Provider)))
	cfg.Model.Provider = types.ModelBackend(strings.ToLower(string(cfg.Model.Provider)))
	cfg.Search.Depth = strings.ToLower(strings.TrimSpace(cfg.Search.Depth))

	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = searchKey(v, s, cfg.Search.Provider)
	}
	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = modelKey(v, s, cfg.Model.Provider)
	}

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks provider names and the content provider's credential.
func Validate(cfg types.Config) error {
	switch cfg.Search.Provider {
	case types.ContentFirecrawl, types.ContentTavily, types.ContentArxiv, types.ContentSemanticScholar:
	default:
		return fmt.Errorf("unknown search.provider %q: use firecrawl, tavily, arxiv, or semantic_scholar", cfg.Search.Provider)
	}
	switch cfg.Search.Depth {
	case "", types.DefaultTavilyDepth, types.AdvancedTavilyDepth:
	default:
		return fmt.Errorf("unknown search.depth %q: use basic or advanced", cfg.Search.Depth)
	}
	switch cfg.Model.Provider {
	case types.ModelOpenAI, types.ModelAnthropic, types.ModelGemini:
	default:
		return fmt.Errorf("unknown model.provider %q: use openai, anthropic, or gemini", cfg.Model.Provider)
	}
	if cfg.Search.Provider.RequiresKey() && cfg.Search.APIKey == "" {
		return fmt.Errorf("%w: %s requires an API key (set %s or .secrets/%s)",
			types.ErrProviderUnavailable, cfg.Search.Provider,
			credentialEnv["credentials."+string(cfg.Search.Provider)], searchKeyFile(cfg.Search.Provider))
	}
	return nil
}

func searchKey(v *viper.Viper, s secrets.Secrets, p types.ContentBackend) string {
	file := searchKeyFile(p)
	if file == "" {
		return ""
	}
	if key := v.GetString("credentials." + string(p)); key != "" {
		return key
	}
	return s.Get(file)
}

// searchKeyFile names the secrets file of a content backend; arXiv has none.
func searchKeyFile(p types.ContentBackend) string {
	switch p {
	case types.ContentFirecrawl:
		return secrets.FirecrawlAPIKey
	case types.ContentTavily:
		return secrets.TavilyAPIKey
	case types.ContentSemanticScholar:
		return secrets.SemanticScholarAPIKey
	default:
		return ""
	}
}

func modelKey(v *viper.Viper, s secrets.Secrets, p types.ModelBackend) string {
	if key := v.GetString("credentials." + string(p)); key != "" {
		return key
	}
	switch p {
	case types.ModelAnthropic:
		return s.Get(secrets.AnthropicAPIKey)
	case types.ModelGemini:
		return s.Get(secrets.GeminiAPIKey)
	default:
		return s.Get(secrets.OpenAIAPIKey)
	}
}
