package synth

import (
	"context"
	"fmt"

	"deckplan/pkg/schema"
)

// ScriptedClient is an offline Client returning canned results. It backs
// the -mock CLI mode and keeps tests independent of any provider.
type ScriptedClient struct {
	revisions int
}

// NewScriptedClient creates a scripted synthesis client
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// AnalyzeDocument returns a canned analysis
func (c *ScriptedClient) AnalyzeDocument(ctx context.Context, document string) (*DocumentAnalysis, error) {
	return &DocumentAnalysis{
		MainTopic:           "Scripted proposal walkthrough",
		KeySections:         []string{"Overview", "Approach", "Costs"},
		TechnicalHighlights: []string{"Phased rollout", "Managed infrastructure"},
		EconomicHighlights:  []string{"Lower operating costs"},
		TargetAudience:      "Executive stakeholders",
		SuggestedTone:       "professional",
	}, nil
}

// GeneratePlan returns a canned plan
func (c *ScriptedClient) GeneratePlan(ctx context.Context, analysis *DocumentAnalysis, document string) (*schema.PresentationPlan, error) {
	topic := "Proposal"
	audience := ""
	if analysis != nil {
		topic = analysis.MainTopic
		audience = analysis.TargetAudience
	}
	plan := &schema.PresentationPlan{
		Title:                    topic,
		Description:              "Scripted presentation plan",
		TargetAudience:           audience,
		EstimatedDurationMinutes: 30,
		Slides: []schema.Slide{
			&schema.TitleSlide{Title: topic, Subtitle: "Proposal overview"},
			&schema.AgendaSlide{Title: "Agenda", Items: []string{"Overview", "Approach", "Costs", "Next steps"}},
			&schema.ContentSlide{Title: "Approach", Body: "Phased delivery with weekly checkpoints."},
			&schema.KeyPointsSlide{Title: "Why now", Points: []schema.KeyPoint{
				{Title: "Savings", Description: "Lower operating costs"},
				{Title: "Reliability", Description: "Managed infrastructure"},
			}},
			&schema.ClosingSlide{Title: "Thank You", Message: "Questions welcome."},
		},
	}
	if err := plan.Validate(); err != nil {
		return nil, &Error{Op: "generate", Err: err}
	}
	return plan, nil
}

// RevisePlan returns the plan with a revision marker applied
func (c *ScriptedClient) RevisePlan(ctx context.Context, plan *schema.PresentationPlan, feedback, document string) (*schema.PresentationPlan, error) {
	if plan == nil {
		return nil, &Error{Op: "revise", Err: fmt.Errorf("no plan to revise")}
	}
	c.revisions++
	revised := *plan
	revised.Slides = append([]schema.Slide(nil), plan.Slides...)
	revised.Description = fmt.Sprintf("Scripted revision %d (feedback: %s)", c.revisions, feedback)
	return &revised, nil
}
