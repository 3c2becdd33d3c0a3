// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// synthesize is Stage 4. It runs even when no advancements were extracted.
func (r *run) synthesize(ctx context.Context, st types.State) types.StateUpdate {
	r.log.Info("synthesizing trends", zap.Int("advancements", len(st.Advancements)))

	text, err := r.synthesis(ctx, st)
	if err != nil {
		r.log.Error("synthesis failed", zap.Error(err))
		return types.StateUpdate{Errors: []string{stageError(types.ErrSynthesis, err)}}
	}
	r.log.Info("synthesis complete")
	return types.StateUpdate{Synthesis: &text}
}

func (r *run) synthesis(ctx context.Context, st types.State) (string, error) {
	advYAML, err := marshalAdvancements(st.Advancements)
	if err != nil {
		return "", err
	}
	user, err := render(synthesisUserTmpl, struct {
		Field, Subtopic, Advancements string
	}{st.Query.Field, st.Query.Subtopic, advYAML})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := r.model.Complete(ctx, []llm.Message{llm.System(synthesisSystemPrompt), llm.User(user)})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("model returned an empty synthesis")
	}
	return text, nil
}

// marshalAdvancements renders advancements as YAML for the prompt. An
// empty list renders as "[]".
func marshalAdvancements(advs []types.Advancement) (string, error) {
	if len(advs) == 0 {
		return "[]", nil
	}
	data, err := yaml.Marshal(advs)
	if err != nil {
		return "", fmt.Errorf("marshaling advancements: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
