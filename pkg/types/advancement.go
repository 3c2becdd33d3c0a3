// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// RawSource is one search hit returned by a content provider. It is
// immutable once Stage 1 has produced it.
type RawSource struct {
	// Title is the page title reported by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the address of the page.
	URL string `json:"url" yaml:"url"`

	// Snippet is the page text, truncated to the configured snippet limit.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Raw is the provider's original record, passed through untouched.
	Raw json.RawMessage `json:"raw,omitempty" yaml:"-"`
}

// TitleCandidate is an advancement title read from the model's free-text
// answer, with the link it was cited under (empty when none was given).
type TitleCandidate struct {
	Title    string `json:"title" yaml:"title"`
	MainLink string `json:"main_link" yaml:"main_link"`
}

// Advancement describes one research or technical breakthrough. Title and
// Summary are required; list fields are never nil once Normalize has run.
type Advancement struct {
	// Title is the full, official title of the paper or advancement.
	Title string `json:"title" yaml:"title" validate:"required"`

	// Summary describes the main contribution in a few sentences.
	Summary string `json:"summary" yaml:"summary" validate:"required"`

	Authors  []string `json:"authors" yaml:"authors"`
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ImpactStatement is a short note on significance, if the model gave one.
	ImpactStatement string `json:"impact_statement,omitempty" yaml:"impact_statement,omitempty"`

	// Language is the primary language of the paper or resource.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	PaperLinks []string `json:"paper_links" yaml:"paper_links"`
	BlogLinks  []string `json:"blog_links" yaml:"blog_links"`
	PDFLinks   []string `json:"pdf_links" yaml:"pdf_links"`
	CodeLinks  []string `json:"code_links" yaml:"code_links"`

	// Date is the publication year or date (YYYY or YYYY-MM-DD).
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Normalize replaces nil collections with empty ones.
func (a *Advancement) Normalize() {
	for _, list := range []*[]string{
		&a.Authors, &a.Keywords, &a.PaperLinks, &a.BlogLinks, &a.PDFLinks, &a.CodeLinks,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}
