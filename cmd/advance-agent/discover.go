// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advance-agent/internal/query"
	"github.com/pdiddy/advance-agent/internal/report"
)

var discoverCmd = &cobra.Command{
	Use:   `discover "Field, Subtopic"`,
	Short: "Run one research query and print the results",
	Long: `Discover runs the four research stages once for a "Field, Subtopic"
query and prints the advancements, the synthesis and any errors the run
recorded. Use --format yaml or --format json for machine-readable output.`,
	Example: `  advance-agent discover "Computer Science, Distributed Systems"
  advance-agent discover "Biology, Genomics" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch report.Format(format) {
	case report.FormatText, report.FormatYAML, report.FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml, or json", format)
	}

	q, err := query.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	st := p.Run(cmd.Context(), q)
	return report.Write(cmd.OutOrStdout(), st, report.Format(format))
}
