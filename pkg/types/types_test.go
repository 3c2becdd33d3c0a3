// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryString(t *testing.T) {
	q := Query{Field: "Computer Science", Subtopic: "Distributed Systems"}
	assert.Equal(t, "Computer Science -> Distributed Systems", q.String())
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want Query
	}{
		{"canonical", "Computer Science -> Distributed Systems", Query{"Computer Science", "Distributed Systems"}},
		{"no spaces", "Biology->Genomics", Query{"Biology", "Genomics"}},
		{"splits on first separator", "A -> B -> C", Query{"A", "B -> C"}},
		{"no separator", "Physics", Query{"Physics", ""}},
		{"empty", "", Query{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.wire))
		})
	}
}

func TestParseQueryRoundTrip(t *testing.T) {
	q := Query{Field: "Chemistry", Subtopic: "Catalysis"}
	assert.Equal(t, q, ParseQuery(q.String()))
}

func TestAdvancementNormalize(t *testing.T) {
	a := Advancement{Title: "T", Summary: "S", Authors: []string{"Ada"}}
	a.Normalize()

	assert.Equal(t, []string{"Ada"}, a.Authors)
	assert.NotNil(t, a.Keywords)
	assert.Empty(t, a.Keywords)
	assert.NotNil(t, a.PaperLinks)
	assert.NotNil(t, a.BlogLinks)
	assert.NotNil(t, a.PDFLinks)
	assert.NotNil(t, a.CodeLinks)
}

func TestStateApply(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewState("run-1", Query{Field: "F", Subtopic: "S"}, start)

	s = s.Apply(StateUpdate{Sources: []RawSource{{Title: "a"}}})
	assert.Len(t, s.Sources, 1)
	assert.Empty(t, s.ErrorLog)

	s = s.Apply(StateUpdate{Errors: []string{"first"}})
	s = s.Apply(StateUpdate{Titles: []TitleCandidate{}, Errors: []string{"second"}})
	assert.Equal(t, []string{"first", "second"}, s.ErrorLog)
	assert.NotNil(t, s.Titles)
	assert.Len(t, s.Sources, 1, "fields absent from the update are kept")

	synthesis := "trends"
	s = s.Apply(StateUpdate{Synthesis: &synthesis})
	assert.True(t, s.HasSynthesis())
	assert.Equal(t, "trends", s.Synthesis)
}

func TestStateApplyDoesNotAlias(t *testing.T) {
	base := State{ErrorLog: make([]string, 1, 4)}
	base.ErrorLog[0] = "base"

	a := base.Apply(StateUpdate{Errors: []string{"a"}})
	b := base.Apply(StateUpdate{Errors: []string{"b"}})

	assert.Equal(t, []string{"base", "a"}, a.ErrorLog)
	assert.Equal(t, []string{"base", "b"}, b.ErrorLog)
}

func TestStateElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewState("r", Query{}, start)
	assert.Zero(t, s.Elapsed())

	s.FinishedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, s.Elapsed())
}

func TestContentBackendRequiresKey(t *testing.T) {
	assert.True(t, ContentFirecrawl.RequiresKey())
	assert.True(t, ContentTavily.RequiresKey())
	assert.False(t, ContentArxiv.RequiresKey())
	assert.False(t, ContentSemanticScholar.RequiresKey(), "the key only raises the rate limit")
}
