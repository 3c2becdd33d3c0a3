// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the advance-agent pipeline:
// the query, the raw sources returned by a content provider, the title
// candidates and advancement records produced by the model, and the state
// threaded through the four pipeline stages.
package types

import "strings"

// querySeparator joins field and subtopic in the wire form of a Query.
const querySeparator = "->"

// Query identifies what to research: a field and a subtopic within it.
type Query struct {
	Field    string `json:"field" yaml:"field"`
	Subtopic string `json:"subtopic" yaml:"subtopic"`
}

// String returns the wire form "field -> subtopic".
func (q Query) String() string {
	return q.Field + " " + querySeparator + " " + q.Subtopic
}

// ParseQuery splits the wire form on the first "->". A string without the
// separator becomes a Query with an empty subtopic; ParseQuery never fails.
func ParseQuery(wire string) Query {
	field, subtopic, _ := strings.Cut(wire, querySeparator)
	return Query{
		Field:    strings.TrimSpace(field),
		Subtopic: strings.TrimSpace(subtopic),
	}
}
