// Package synth is the boundary to the external plan synthesis service.
// The workflow core depends only on the Client contract defined here.
package synth

import (
	"context"
	"fmt"

	"deckplan/pkg/schema"
)

// DocumentAnalysis is the structured summary of an input document
type DocumentAnalysis struct {
	MainTopic           string   `json:"main_topic"`
	KeySections         []string `json:"key_sections"`
	TechnicalHighlights []string `json:"technical_highlights"`
	EconomicHighlights  []string `json:"economic_highlights"`
	TargetAudience      string   `json:"target_audience"`
	SuggestedTone       string   `json:"suggested_tone"`
}

// Client defines the interface for the synthesis service. There are no
// retries at this layer; failures propagate to the calling step.
type Client interface {
	// AnalyzeDocument extracts a structured analysis from a document
	AnalyzeDocument(ctx context.Context, document string) (*DocumentAnalysis, error)

	// GeneratePlan creates a presentation plan from an analysis and document
	GeneratePlan(ctx context.Context, analysis *DocumentAnalysis, document string) (*schema.PresentationPlan, error)

	// RevisePlan produces a revised plan from the current plan and feedback
	RevisePlan(ctx context.Context, plan *schema.PresentationPlan, feedback, document string) (*schema.PresentationPlan, error)
}

// Error reports a failed or unusable synthesis call
type Error struct {
	Op  string
	Err error
}

// Error returns the error message
func (e *Error) Error() string {
	return fmt.Sprintf("synthesis %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}
