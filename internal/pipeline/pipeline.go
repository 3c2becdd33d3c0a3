// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline discovers research advancements for a query in four
// sequential stages: source discovery, title extraction, detail extraction
// and synthesis. Each stage is total: failures are recorded in the run's
// ErrorLog and the next stage runs on whatever data exists.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/content"
	"github.com/pdiddy/advance-agent/internal/llm"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// ModelFactory builds the language model provider on first use.
type ModelFactory func(ctx context.Context) (llm.Provider, error)

// StaticModel returns a factory that always yields p.
func StaticModel(p llm.Provider) ModelFactory {
	return func(context.Context) (llm.Provider, error) { return p, nil }
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l.Named("pipeline") }
}

// WithClock replaces time.Now, which also fixes the year used in prompts.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithRunIDs replaces the run ID generator (random UUIDs by default).
func WithRunIDs(next func() string) Option {
	return func(p *Pipeline) { p.newID = next }
}

// WithSearch sets the source cap and the query suffix of Stage 1. Zero
// values keep the defaults.
func WithSearch(cfg types.SearchConfig) Option {
	return func(p *Pipeline) {
		if cfg.MaxResults > 0 {
			p.maxResults = cfg.MaxResults
		}
		p.suffix = cfg.QuerySuffix
	}
}

// Pipeline runs discovery queries. A Pipeline may run many queries, one
// after another or concurrently; each run gets a fresh State.
type Pipeline struct {
	content content.Provider
	models  ModelFactory

	mu    sync.Mutex
	model llm.Provider

	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	maxResults int
	suffix     string
	validate   *validator.Validate
}

// New returns a Pipeline searching with c and resolving its language model
// through models.
func New(c content.Provider, models ModelFactory, opts ...Option) *Pipeline {
	p := &Pipeline{
		content:    c,
		models:     models,
		log:        zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
		maxResults: defaultMaxResults,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// stage is one step of a run: it reads the current state and returns the
// fields it produced.
type stage func(ctx context.Context, st types.State) types.StateUpdate

// run holds what the stages of a single query share.
type run struct {
	p     *Pipeline
	model llm.Provider
	log   *zap.Logger
}

// Run executes the four stages for q and returns the final state. It never
// fails: stage errors are in the ErrorLog, and a failure to start the run
// (or a panic inside a stage) yields a state holding only the query and
// that one error.
func (p *Pipeline) Run(ctx context.Context, q types.Query) (st types.State) {
	st = types.NewState(p.newID(), q, p.now())
	log := p.log.With(zap.String("run_id", st.RunID), zap.Stringer("query", q))
	log.Info("starting research run")

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", types.ErrOrchestration, r)
			log.Error("run aborted", zap.Error(err), zap.Stack("stack"))
			st = p.abort(st, err)
		}
	}()

	model, err := p.resolve(ctx)
	if err != nil {
		log.Error("run aborted", zap.Error(err))
		return p.abort(st, err)
	}

	r := &run{p: p, model: model, log: log}
	for _, s := range []stage{r.searchSources, r.extractTitles, r.extractDetails, r.synthesize} {
		st = st.Apply(s(ctx, st))
	}
	st.FinishedAt = p.now()

	log.Info("research run complete",
		zap.Int("sources", len(st.Sources)),
		zap.Int("titles", len(st.Titles)),
		zap.Int("advancements", len(st.Advancements)),
		zap.Int("errors", len(st.ErrorLog)),
		zap.Duration("elapsed", st.Elapsed()))
	return st
}

// resolve returns the model provider, building it on first success.
func (p *Pipeline) resolve(ctx context.Context) (llm.Provider, error) {
	if p.content == nil {
		return nil, fmt.Errorf("%w: no content provider configured", types.ErrOrchestration)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		return p.model, nil
	}
	if p.models == nil {
		return nil, fmt.Errorf("%w: no model provider configured", types.ErrOrchestration)
	}
	m, err := p.models(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: building model provider: %v", types.ErrOrchestration, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: model factory returned no provider", types.ErrOrchestration)
	}
	p.model = m
	return m, nil
}

// abort returns the terminal state of a run that could not proceed.
func (p *Pipeline) abort(st types.State, err error) types.State {
	return types.State{
		RunID:      st.RunID,
		Query:      st.Query,
		ErrorLog:   []string{err.Error()},
		StartedAt:  st.StartedAt,
		FinishedAt: p.now(),
	}
}

// stageError renders a stage failure for the ErrorLog.
func stageError(kind, err error) string {
	return fmt.Errorf("%w: %v", kind, err).Error()
}
