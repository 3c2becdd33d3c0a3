// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses console input of the form "Field, Subtopic".
package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/advance-agent/pkg/types"
)

// Example is shown to users who enter a malformed query.
const Example = "Computer Science, Distributed Systems"

// Parse splits raw input on its single comma into field and subtopic.
// Input with zero or more than one comma is rejected with an error wrapping
// types.ErrInvalidQueryFormat. Either half may be empty after trimming.
func Parse(raw string) (types.Query, error) {
	n := strings.Count(raw, ",")
	if n != 1 {
		return types.Query{}, fmt.Errorf("%w: expected exactly one comma, found %d (e.g. %s)",
			types.ErrInvalidQueryFormat, n, Example)
	}
	field, subtopic, _ := strings.Cut(raw, ",")
	return types.Query{
		Field:    strings.TrimSpace(field),
		Subtopic: strings.TrimSpace(subtopic),
	}, nil
}

// IsQuit reports whether raw asks to leave the interactive loop.
func IsQuit(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "quit", "exit":
		return true
	}
	return false
}
