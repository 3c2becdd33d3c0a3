// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/content"
	"github.com/pdiddy/advance-agent/pkg/types"
)

const defaultMaxResults = 10

// DefaultQuerySuffix returns the terms appended to every search to favor
// recent, citable work: the previous and current year plus venue names.
func DefaultQuerySuffix(year int) string {
	return fmt.Sprintf("research advancements %d %d arXiv IEEE Nature blog github", year-1, year)
}

// searchQuery is the text sent to the content provider for q.
func searchQuery(q types.Query, suffix string, year int) string {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultQuerySuffix(year)
	}
	return q.String() + " " + suffix
}

// searchSources is Stage 1. A provider error leaves the run with no sources.
func (r *run) searchSources(ctx context.Context, st types.State) types.StateUpdate {
	query := st.Query.String()
	if idx, ok := r.p.content.(content.ScholarlyIndex); !ok || !idx.ScholarlyIndex() {
		query = searchQuery(st.Query, r.p.suffix, r.p.now().Year())
	}
	r.log.Info("searching sources", zap.String("provider", r.p.content.Name()), zap.String("search", query))

	sources, err := r.p.content.Search(ctx, query, r.p.maxResults)
	if err != nil {
		r.log.Error("source search failed", zap.Error(err))
		return types.StateUpdate{
			Sources: []types.RawSource{},
			Errors:  []string{stageError(types.ErrSearch, err)},
		}
	}
	if sources == nil {
		sources = []types.RawSource{}
	}
	r.log.Info("found sources", zap.Int("count", len(sources)))
	return types.StateUpdate{Sources: sources}
}
