// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds. Stage and item failures wrap one of these before they are
// rendered into a State's ErrorLog; callers test for them with errors.Is.
var (
	// ErrInvalidQueryFormat rejects console input that is not "Field, Subtopic".
	ErrInvalidQueryFormat = errors.New("invalid query format")

	// ErrProviderUnavailable means a required credential is missing at startup.
	ErrProviderUnavailable = errors.New("provider unavailable")

	ErrSearch           = errors.New("search failed")
	ErrTitleExtraction  = errors.New("title extraction failed")
	ErrDetailExtraction = errors.New("detail extraction failed")
	ErrSynthesis        = errors.New("synthesis failed")

	// ErrOrchestration aborts a run before or between stages.
	ErrOrchestration = errors.New("orchestration failed")
)
