// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/content"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL",
	Short: "Fetch the text of one page through the content provider",
	Long: `Scrape fetches a single page with the configured content provider and
prints its text. Firecrawl returns Markdown; Tavily and arXiv fetch the
page directly and strip it to visible text.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().Bool("json", false, "print the full result as JSON")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	provider, err := newContentProvider()
	if err != nil {
		return err
	}
	res := provider.Scrape(cmd.Context(), args[0])
	logger.Info("scraped page",
		zap.String("provider", provider.Name()),
		zap.String("url", res.URL),
		zap.String("status", string(res.Status)))

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	switch res.Status {
	case content.ScrapeError:
		return fmt.Errorf("scraping %s: %s", res.URL, res.Error)
	case content.ScrapeNoContent:
		if !asJSON {
			fmt.Fprintf(out, "%s: no content\n", res.URL)
		}
	default:
		if !asJSON {
			fmt.Fprintln(out, res.Text)
		}
	}
	return nil
}
