// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// evidenceSeparator joins snippets handed to the model.
const evidenceSeparator = "\n\n"

// ParseTitles reads the model's "Title [main_link]" lines. Blank lines are
// skipped. A line holding both brackets is split at its last "[", so
// brackets inside a title stay part of the title; any other line is a
// title without a link. Order is preserved and duplicates are kept.
func ParseTitles(text string) []types.TitleCandidate {
	titles := []types.TitleCandidate{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "[") && strings.Contains(line, "]") {
			i := strings.LastIndex(line, "[")
			titles = append(titles, types.TitleCandidate{
				Title:    strings.TrimSpace(line[:i]),
				MainLink: strings.Trim(line[i+1:], " ]"),
			})
			continue
		}
		titles = append(titles, types.TitleCandidate{Title: strings.TrimSpace(line)})
	}
	return titles
}

// joinSnippets concatenates the snippets of sources in order.
func joinSnippets(sources []types.RawSource) string {
	snippets := make([]string, 0, len(sources))
	for _, s := range sources {
		snippets = append(snippets, s.Snippet)
	}
	return strings.Join(snippets, evidenceSeparator)
}

// extractTitles is Stage 2.
func (r *run) extractTitles(ctx context.Context, st types.State) types.StateUpdate {
	r.log.Info("extracting advancement titles", zap.Int("sources", len(st.Sources)))

	titles, err := r.titles(ctx, st)
	if err != nil {
		r.log.Error("title extraction failed", zap.Error(err))
		return types.StateUpdate{
			Titles: []types.TitleCandidate{},
			Errors: []string{stageError(types.ErrTitleExtraction, err)},
		}
	}
	r.log.Info("extracted advancement titles", zap.Int("count", len(titles)))
	return types.StateUpdate{Titles: titles}
}

func (r *run) titles(ctx context.Context, st types.State) ([]types.TitleCandidate, error) {
	system, err := render(titlesSystemTmpl, struct{ Since int }{r.p.now().Year() - 1})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	user, err := render(titlesUserTmpl, struct {
		Field, Subtopic, Content string
	}{st.Query.Field, st.Query.Subtopic, joinSnippets(st.Sources)})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	answer, err := r.model.Complete(ctx, []llm.Message{llm.System(system), llm.User(user)})
	if err != nil {
		return nil, err
	}
	return ParseTitles(strings.TrimSpace(answer)), nil
}
