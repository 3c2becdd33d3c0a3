// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// advancementTarget is the structured output requested for each title.
var advancementTarget = llm.Target{
	Name:        "ResearchAdvancement",
	Description: "Details of one recent research advancement, breakthrough, or paper.",
	Schema: &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"title":            {Type: "string", Description: "Full, official title of the advancement or paper."},
			"summary":          {Type: "string", Description: "2-4 sentence summary of the main contribution."},
			"authors":          stringList("Author names."),
			"keywords":         stringList("Key topics, methods, or technologies."),
			"impact_statement": {Type: "string", Description: "1-2 sentences on significance or impact."},
			"language":         {Type: "string", Description: "Primary language of the resource."},
			"paper_links":      stringList("URLs of official papers."),
			"blog_links":       stringList("URLs of blogs or news coverage."),
			"pdf_links":        stringList("Direct PDF URLs."),
			"code_links":       stringList("URLs of source code."),
			"date":             {Type: "string", Description: "Publication year or date (YYYY or YYYY-MM-DD)."},
		},
		Required: []string{"title", "summary"},
	},
}

func stringList(desc string) *llm.Schema {
	return &llm.Schema{Type: "array", Description: desc, Items: &llm.Schema{Type: "string"}}
}

// RelatedSources returns the sources associated with t: those whose URL
// contains t's main link, or whose title contains t's title ignoring case.
func RelatedSources(t types.TitleCandidate, sources []types.RawSource) []types.RawSource {
	title := strings.ToLower(t.Title)
	var related []types.RawSource
	for _, s := range sources {
		if t.MainLink != "" && strings.Contains(s.URL, t.MainLink) {
			related = append(related, s)
			continue
		}
		if strings.Contains(strings.ToLower(s.Title), title) {
			related = append(related, s)
		}
	}
	return related
}

// extractDetails is Stage 3. Candidates are processed in order; a failed
// candidate is recorded as "<title>: <error>" and skipped.
func (r *run) extractDetails(ctx context.Context, st types.State) types.StateUpdate {
	r.log.Info("extracting advancement details", zap.Int("titles", len(st.Titles)))

	advancements := []types.Advancement{}
	var errs []string
	for _, t := range st.Titles {
		adv, err := r.detail(ctx, t, st.Sources)
		if err != nil {
			err = fmt.Errorf("%w: %v", types.ErrDetailExtraction, err)
			r.log.Error("detail extraction failed", zap.String("title", t.Title), zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s: %v", t.Title, err))
			continue
		}
		advancements = append(advancements, adv)
	}

	r.log.Info("extracted advancement details",
		zap.Int("count", len(advancements)), zap.Int("failed", len(errs)))
	return types.StateUpdate{Advancements: advancements, Errors: errs}
}

func (r *run) detail(ctx context.Context, t types.TitleCandidate, sources []types.RawSource) (types.Advancement, error) {
	evidence := joinSnippets(RelatedSources(t, sources))
	if evidence == "" {
		r.log.Warn("no content found for advancement", zap.String("title", t.Title))
	}

	user, err := render(detailUserTmpl, struct{ Title, Content string }{t.Title, evidence})
	if err != nil {
		return types.Advancement{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := r.model.CompleteStructured(ctx,
		[]llm.Message{llm.System(detailSystemPrompt), llm.User(user)}, advancementTarget)
	if err != nil {
		return types.Advancement{}, err
	}
	return r.p.decodeAdvancement(raw)
}

// decodeAdvancement parses the model's JSON into an Advancement, fills in
// empty collections and checks the required fields.
func (p *Pipeline) decodeAdvancement(raw json.RawMessage) (types.Advancement, error) {
	var adv types.Advancement
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&adv); err != nil {
		return types.Advancement{}, fmt.Errorf("decoding advancement: %w", err)
	}
	adv.Normalize()
	if err := p.validate.Struct(adv); err != nil {
		return types.Advancement{}, fmt.Errorf("invalid advancement: %w", err)
	}
	return adv, nil
}
