// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/advance-agent/pkg/types"
)

func init() {
	color.NoColor = true
}

func sampleState() types.State {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	adv := types.Advancement{
		Title:      "Raft consensus improvements",
		Summary:    "Faster leader election.",
		Authors:    []string{"D. Ongaro", "J. Ousterhout"},
		Date:       "2025",
		PaperLinks: []string{"http://example.com/paper"},
	}
	adv.Normalize()
	return types.State{
		RunID:        "run-1",
		Query:        types.Query{Field: "Computer Science", Subtopic: "Distributed Systems"},
		Advancements: []types.Advancement{adv},
		Synthesis:    "Consensus research is accelerating.",
		ErrorLog:     []string{"Paxos revisited: detail extraction failed: timeout"},
		StartedAt:    start,
		FinishedAt:   start.Add(1500 * time.Millisecond),
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, sampleState())
	out := buf.String()

	assert.Contains(t, out, "Results for: Computer Science -> Distributed Systems")
	assert.Contains(t, out, "Errors encountered:\n   - Paxos revisited: detail extraction failed: timeout")
	assert.Contains(t, out, "1. Raft consensus improvements")
	assert.Contains(t, out, "   Authors: D. Ongaro, J. Ousterhout")
	assert.Contains(t, out, "   Date: 2025")
	assert.Contains(t, out, "   Papers: http://example.com/paper")
	assert.NotContains(t, out, "Keywords:", "empty lists are omitted")
	assert.NotContains(t, out, "Impact:")
	assert.Contains(t, out, "Synthesis & Trends:")
	assert.Contains(t, out, "Consensus research is accelerating.")

	assert.Less(t, strings.Index(out, "Errors encountered"), strings.Index(out, "1. Raft"))
	assert.Less(t, strings.Index(out, "1. Raft"), strings.Index(out, "Synthesis & Trends"))
}

func TestPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, types.State{Query: types.Query{Field: "Biology", Subtopic: "Genomics"}})
	out := buf.String()

	assert.Contains(t, out, "No advancements found for this query.")
	assert.NotContains(t, out, "Errors encountered")
	assert.NotContains(t, out, "Synthesis & Trends")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatYAML))

	var got Output
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Computer Science", got.Field)
	assert.Equal(t, "Distributed Systems", got.Subtopic)
	assert.Equal(t, "1.5s", got.SearchTime)
	require.Len(t, got.Advancements, 1)
	assert.Equal(t, "Raft consensus improvements", got.Advancements[0].Title)
	assert.Len(t, got.Errors, 1)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	st := sampleState()
	st.ErrorLog = nil
	st.Advancements = nil
	require.NoError(t, Write(&buf, st, FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, []any{}, got["advancements"], "never null")
	assert.Equal(t, []any{}, got["errors"])
	assert.Equal(t, "Consensus research is accelerating.", got["synthesis"])
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleState(), Format("csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "csv"`)
}
