// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the result of a research run: a colored console
// listing for people, or a YAML or JSON document for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advance-agent/pkg/types"
)

// Format selects how a run is written.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const rule = "============================================================"

// Output is the exported form of a finished run.
type Output struct {
	RunID        string              `json:"run_id" yaml:"run_id"`
	Field        string              `json:"field" yaml:"field"`
	Subtopic     string              `json:"subtopic" yaml:"subtopic"`
	Advancements []types.Advancement `json:"advancements" yaml:"advancements"`
	Synthesis    string              `json:"synthesis" yaml:"synthesis"`
	Errors       []string            `json:"errors" yaml:"errors"`
	StartedAt    time.Time           `json:"started_at" yaml:"started_at"`
	SearchTime   string              `json:"search_time" yaml:"search_time"`
}

// NewOutput converts a final state to its exported form.
func NewOutput(st types.State) Output {
	out := Output{
		RunID:        st.RunID,
		Field:        st.Query.Field,
		Subtopic:     st.Query.Subtopic,
		Advancements: st.Advancements,
		Synthesis:    st.Synthesis,
		Errors:       st.ErrorLog,
		StartedAt:    st.StartedAt,
		SearchTime:   st.Elapsed().Round(time.Millisecond).String(),
	}
	if out.Advancements == nil {
		out.Advancements = []types.Advancement{}
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	return out
}

// Write renders st to w in the given format.
func Write(w io.Writer, st types.State, format Format) error {
	switch format {
	case FormatText, "":
		Print(w, st)
		return nil
	case FormatYAML:
		data, err := yaml.Marshal(NewOutput(st))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(NewOutput(st), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml, or json", format)
	}
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
	label   = color.New(color.Faint)
)

// Print writes the console listing: errors first, then the numbered
// advancements, then the synthesis.
func Print(w io.Writer, st types.State) {
	q := st.Query
	fmt.Fprintln(w)
	heading.Fprintf(w, "Results for: %s\n", q)
	fmt.Fprintln(w, rule)

	if len(st.ErrorLog) > 0 {
		failure.Fprintln(w, "Errors encountered:")
		for _, e := range st.ErrorLog {
			fmt.Fprintf(w, "   - %s\n", e)
		}
		fmt.Fprintln(w, rule)
	}

	if len(st.Advancements) > 0 {
		fmt.Fprintln(w)
		heading.Fprintf(w, "Latest Advancements in %s:\n", q)
		for i, adv := range st.Advancements {
			printAdvancement(w, i+1, adv)
		}
	} else {
		warning.Fprintln(w, "No advancements found for this query.")
	}

	if st.HasSynthesis() {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Synthesis & Trends:")
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintln(w, st.Synthesis)
	}
	fmt.Fprintln(w, rule)
}

func printAdvancement(w io.Writer, n int, adv types.Advancement) {
	fmt.Fprintf(w, "\n%d. %s\n", n, adv.Title)
	field := func(name, value string) {
		if value == "" {
			return
		}
		label.Fprintf(w, "   %s: ", name)
		fmt.Fprintln(w, value)
	}
	list := func(name string, values []string) {
		field(name, strings.Join(values, ", "))
	}

	list("Authors", adv.Authors)
	field("Date", adv.Date)
	list("Keywords", adv.Keywords)
	field("Impact", adv.ImpactStatement)
	field("Language", adv.Language)
	field("Summary", adv.Summary)
	list("Papers", adv.PaperLinks)
	list("Blogs", adv.BlogLinks)
	list("PDFs", adv.PDFLinks)
	list("Code", adv.CodeLinks)
}
