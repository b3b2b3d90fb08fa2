package workflow

import (
	"context"
	"fmt"

	"deckplan/pkg/renderer"
	"deckplan/pkg/synth"
)

// Engine holds the external collaborators the steps call. A nil
// renderer disables deck rendering during finalize.
type Engine struct {
	synth    synth.Client
	renderer renderer.Service
}

// NewEngine creates a step engine
func NewEngine(client synth.Client, rendererService renderer.Service) *Engine {
	return &Engine{
		synth:    client,
		renderer: rendererService,
	}
}

// AnalyzeDocument extracts a structured analysis from the document.
// Status is left unchanged on both paths.
func (e *Engine) AnalyzeDocument(ctx context.Context, s *State) Update {
	analysis, err := e.synth.AnalyzeDocument(ctx, s.Document)
	if err != nil {
		return Update{
			Err:      stringUpdate(fmt.Sprintf("failed to analyze document: %v", err)),
			Messages: []string{fmt.Sprintf("Error analyzing document: %v", err)},
		}
	}
	return Update{
		Analysis: analysis,
		Messages: []string{fmt.Sprintf("Document analyzed. Main topic: %s", analysis.MainTopic)},
	}
}

// GeneratePlan creates the initial presentation plan
func (e *Engine) GeneratePlan(ctx context.Context, s *State) Update {
	plan, err := e.synth.GeneratePlan(ctx, s.Analysis, s.Document)
	if err != nil {
		return Update{
			Err:      stringUpdate(fmt.Sprintf("failed to generate plan: %v", err)),
			Status:   statusUpdate(StatusPending),
			Messages: []string{fmt.Sprintf("Error generating plan: %v", err)},
		}
	}
	return Update{
		Plan:   plan,
		Status: statusUpdate(StatusDraft),
		Messages: []string{fmt.Sprintf("Created a presentation plan with %d slides.\n\n%s",
			plan.SlideCount(), plan.SlideSummary())},
	}
}

// PresentForReview formats the current plan for human review. This is
// the step after which the runner suspends the session.
func (e *Engine) PresentForReview(s *State) Update {
	if s.Plan == nil {
		return Update{Messages: []string{"No plan available for review."}}
	}

	review := fmt.Sprintf(`## Presentation Plan Review

%s

## Detailed Slide Content:
%s

---
Review the plan above and reply with one of the following:
- "approve" - accept this plan and continue
- "reject" - discard this plan entirely
- Your comments - request specific changes

Remaining revisions: %d`,
		s.Plan.SlideSummary(), s.Plan.DetailedView(), s.RemainingRevisions())

	return Update{Messages: []string{review}}
}

// RevisePlan reworks the plan from the pending feedback. A failed
// revision leaves the plan, status, feedback and revision count exactly
// as they were so the same feedback can be retried.
func (e *Engine) RevisePlan(ctx context.Context, s *State) Update {
	revised, err := e.synth.RevisePlan(ctx, s.Plan, s.Feedback, s.Document)
	if err != nil {
		return Update{
			Err:      stringUpdate(fmt.Sprintf("failed to revise plan: %v", err)),
			Messages: []string{fmt.Sprintf("Error revising plan: %v", err)},
		}
	}
	return Update{
		Plan:          revised,
		Status:        statusUpdate(StatusDraft),
		RevisionDelta: 1,
		Feedback:      stringUpdate(""),
		Messages: []string{fmt.Sprintf("Revised the presentation plan based on your feedback.\n\n%s",
			revised.SlideSummary())},
	}
}

// FinalizePlan approves the plan and attempts best-effort rendering.
// Rendering problems are reported as advisory text and never revert the
// approval or set the session error.
func (e *Engine) FinalizePlan(ctx context.Context, s *State) Update {
	if s.Plan == nil {
		return Update{
			Err:      stringUpdate("no plan to finalize"),
			Messages: []string{"Error: no plan available to finalize."},
		}
	}

	message := fmt.Sprintf("Plan approved and finalized!\n\n%s", s.Plan.SlideSummary())

	if e.renderer == nil {
		message += "\n\nConfigure a slides service credential to render the deck automatically."
	} else if result, err := e.renderer.CreatePresentation(ctx, s.Plan); err != nil {
		message += fmt.Sprintf("\n\nCould not render slides: %v", err)
	} else {
		message += fmt.Sprintf("\n\nSlides created (%d slides): %s", result.SlideCount, result.URL)
	}

	return Update{
		Status:   statusUpdate(StatusApproved),
		Messages: []string{message},
	}
}

// HandleRejection marks the session rejected
func (e *Engine) HandleRejection(s *State) Update {
	return Update{
		Status:   statusUpdate(StatusRejected),
		Messages: []string{"The presentation plan has been rejected. Start a new session with a new document or different requirements."},
	}
}
