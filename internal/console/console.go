// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console runs the interactive read loop: it reads "Field, Subtopic"
// lines, runs a research query for each, and prints the results.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/advance-agent/internal/query"
	"github.com/pdiddy/advance-agent/internal/report"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// Prompt is printed before each query is read.
const Prompt = "Research Query (Field, Subtopic): "

// Runner executes one research query.
type Runner interface {
	Run(ctx context.Context, q types.Query) types.State
}

// Loop reads queries from In until quit, exit or end of input.
type Loop struct {
	In     io.Reader
	Out    io.Writer
	Runner Runner

	// Render prints a finished run; report.Print when nil.
	Render func(w io.Writer, st types.State)
}

var hint = color.New(color.FgYellow)

// Run reads and answers queries. A failed run is printed like any other and
// the loop continues. Run returns nil on quit or end of input, and the
// context's error if ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	render := l.Render
	if render == nil {
		render = report.Print
	}

	fmt.Fprintln(l.Out, "\nAcademic Research Discovery Agent")
	fmt.Fprintln(l.Out, "Type 'quit' or 'exit' to stop.")

	scanner := bufio.NewScanner(l.In)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(l.Out, "\n"+Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(l.Out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if query.IsQuit(line) {
			fmt.Fprintln(l.Out, "Exiting. Goodbye!")
			return nil
		}
		if line == "" {
			continue
		}

		q, err := query.Parse(line)
		if err != nil {
			hint.Fprintf(l.Out, "Please enter your query in the format: Field, Subtopic (e.g., %s)\n", query.Example)
			continue
		}

		render(l.Out, l.Runner.Run(ctx, q))
	}
}
