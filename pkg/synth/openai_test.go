package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckplan/pkg/schema"
)

func TestExtractJSON(t *testing.T) {
	payload, err := extractJSON("Here is the plan:\n```json\n{\"title\": \"X\"}\n```\nLet me know!")
	require.NoError(t, err)
	assert.Equal(t, `{"title": "X"}`, payload)

	_, err = extractJSON("no json here")
	assert.Error(t, err)

	_, err = extractJSON("} backwards {")
	assert.Error(t, err)
}

func TestParsePlanValidatesSchema(t *testing.T) {
	plan, err := parsePlan(`{
		"title": "Pitch",
		"estimated_duration_minutes": 20,
		"slides": [
			{"slide_type": "title", "title": "Pitch"},
			{"slide_type": "agenda", "items": ["One", "Two"]},
			{"slide_type": "closing"}
		]
	}`)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.SlideCount())
	assert.Equal(t, "Agenda", plan.Slides[1].(*schema.AgendaSlide).Title)
}

func TestParsePlanRejectsUnknownVariant(t *testing.T) {
	_, err := parsePlan(`{"title": "Pitch", "slides": [{"slide_type": "chart"}]}`)
	require.Error(t, err)

	var schemaErr *schema.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParsePlanRejectsEmptyPlan(t *testing.T) {
	_, err := parsePlan(`{"title": "Pitch", "slides": []}`)
	require.Error(t, err)
}

func TestScriptedClientDrivesAFullCycle(t *testing.T) {
	client := NewScriptedClient()
	ctx := context.Background()

	analysis, err := client.AnalyzeDocument(ctx, "doc")
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.MainTopic)

	plan, err := client.GeneratePlan(ctx, analysis, "doc")
	require.NoError(t, err)
	require.NoError(t, plan.Validate())

	revised, err := client.RevisePlan(ctx, plan, "shorter", "doc")
	require.NoError(t, err)
	assert.Equal(t, plan.SlideCount(), revised.SlideCount())
	assert.Contains(t, revised.Description, "shorter")
}
