// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// State accumulates the results of one pipeline run. It is created fresh
// for every query and only ever grows: stages contribute a StateUpdate and
// failures are recorded in ErrorLog instead of aborting the run.
type State struct {
	// RunID correlates log lines belonging to the same run.
	RunID string `json:"run_id" yaml:"run_id"`

	Query        Query            `json:"query" yaml:"query"`
	Sources      []RawSource      `json:"sources" yaml:"sources"`
	Titles       []TitleCandidate `json:"titles" yaml:"titles"`
	Advancements []Advancement    `json:"advancements" yaml:"advancements"`

	// Synthesis is the narrative trend summary; empty when Stage 4 failed.
	Synthesis string `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`

	// ErrorLog lists human-readable failures in the order they occurred.
	ErrorLog []string `json:"error_log" yaml:"error_log"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// NewState returns the initial state for a run: only the query is set.
func NewState(runID string, q Query, now time.Time) State {
	return State{
		RunID:     runID,
		Query:     q,
		StartedAt: now,
	}
}

// Elapsed returns how long the run took, or zero if it has not finished.
func (s State) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// HasSynthesis reports whether Stage 4 produced a synthesis.
func (s State) HasSynthesis() bool {
	return s.Synthesis != ""
}

// StateUpdate is the partial result of one stage. Nil fields leave the
// state untouched; Errors are appended to the state's ErrorLog.
type StateUpdate struct {
	Sources      []RawSource
	Titles       []TitleCandidate
	Advancements []Advancement
	Synthesis    *string
	Errors       []string
}

// Apply merges u into s and returns the result. A non-nil slice in u
// replaces the corresponding field, including an empty slice.
func (s State) Apply(u StateUpdate) State {
	if u.Sources != nil {
		s.Sources = u.Sources
	}
	if u.Titles != nil {
		s.Titles = u.Titles
	}
	if u.Advancements != nil {
		s.Advancements = u.Advancements
	}
	if u.Synthesis != nil {
		s.Synthesis = *u.Synthesis
	}
	if len(u.Errors) > 0 {
		log := make([]string, 0, len(s.ErrorLog)+len(u.Errors))
		log = append(log, s.ErrorLog...)
		s.ErrorLog = append(log, u.Errors...)
	}
	return s
}
