// Package renderer materializes an approved presentation plan into a
// persisted deck through an external deck-builder service.
package renderer

import (
	"context"
	"fmt"

	"deckplan/pkg/schema"
)

// Result describes a rendered deck
type Result struct {
	ArtifactID string `json:"artifact_id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	SlideCount int    `json:"slide_count"`
}

// Service defines the interface for the rendering backend. Failures are
// advisory at the workflow layer; they never revert an approval.
type Service interface {
	// CreatePresentation renders a plan into a persisted deck
	CreatePresentation(ctx context.Context, plan *schema.PresentationPlan) (*Result, error)
}

// RenderError reports a rendering backend failure
type RenderError struct {
	Reason string
	Err    error
}

// Error returns the error message
func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("render: %s", e.Reason)
}

// Unwrap returns the underlying error
func (e *RenderError) Unwrap() error {
	return e.Err
}
