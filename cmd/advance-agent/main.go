// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the advance-agent CLI. Without a
// subcommand it runs the interactive research loop; discover runs a single
// query and scrape fetches one page through the content provider.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/config"
	"github.com/pdiddy/advance-agent/internal/console"
	"github.com/pdiddy/advance-agent/internal/content"
	"github.com/pdiddy/advance-agent/internal/httputil"
	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/internal/logging"
	"github.com/pdiddy/advance-agent/internal/pipeline"
	"github.com/pdiddy/advance-agent/internal/secrets"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Set up by loadSettings before any command that talks to a provider runs.
var (
	cfg    types.Config
	logger = zap.NewNop()
)

// rootCmd is the base command; on its own it starts the interactive loop.
var rootCmd = &cobra.Command{
	Use:   "advance-agent",
	Short: "Discover recent research advancements in a field",
	Long: `advance-agent finds recent academic and technical advancements for a
field and subtopic. It searches the web through a content provider
(Firecrawl, Tavily or arXiv), asks a language model (OpenAI, Anthropic or
Gemini) to pick out the significant advancements, extracts structured
details for each, and writes a synthesis of trends and open problems.

Run without arguments for an interactive session, or use discover for a
single query.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./advance-agent.yaml or ~/.config/advance-agent/advance-agent.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "console log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("provider", "", "content provider: firecrawl, tavily, arxiv, or semantic_scholar")
	rootCmd.PersistentFlags().String("model-provider", "", "model provider: openai, anthropic, or gemini")
	rootCmd.PersistentFlags().String("model", "", "model name (default depends on the model provider)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("search.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("model.provider", rootCmd.PersistentFlags().Lookup("model-provider"))
	_ = viper.BindPFlag("model.name", rootCmd.PersistentFlags().Lookup("model"))
}

// loadSettings reads .env, the .secrets directory and the config file, and
// builds the logger.
func loadSettings(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
	if err != nil {
		return err
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	c, err := config.Load(v, s)
	if err != nil {
		return err
	}
	cfg = c

	l, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	logger = l

	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("using config file", zap.String("path", used))
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Info("loaded secrets", zap.Strings("keys", keys))
	}
	return nil
}

// newContentProvider builds the configured content provider.
func newContentProvider() (content.Provider, error) {
	return content.New(cfg.Search, httputil.NewClient(cfg.Search.Timeout), logger.Named("content"))
}

// newPipeline wires the content and model providers into a pipeline.
func newPipeline() (*pipeline.Pipeline, error) {
	provider, err := newContentProvider()
	if err != nil {
		return nil, err
	}
	models := func(ctx context.Context) (llm.Provider, error) {
		return llm.New(ctx, cfg.Model, logger.Named("llm"))
	}
	return pipeline.New(provider, models,
		pipeline.WithLogger(logger),
		pipeline.WithSearch(cfg.Search),
	), nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	loop := &console.Loop{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Runner: p}
	err = loop.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
