package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *PresentationPlan {
	return &PresentationPlan{
		Title:                    "Cloud Migration Proposal",
		Description:              "Migration pitch",
		TargetAudience:           "Executives",
		EstimatedDurationMinutes: 30,
		Slides: []Slide{
			&TitleSlide{Title: "Cloud Migration", Subtitle: "A proposal", Author: "Jane", Date: "2026-01-01"},
			&AgendaSlide{Title: "Agenda", Items: []string{"Overview", "Costs"}},
			&ContentSlide{Title: "Approach", Body: "Phased migration.", ImageSuggestion: "roadmap diagram"},
			&KeyPointsSlide{Title: "Benefits", Points: []KeyPoint{
				{Title: "Savings", Description: "40% lower costs"},
				{Title: "Reliability", Description: "Managed infra"},
			}},
			&SectionHeaderSlide{Title: "Economics"},
			&ClosingSlide{Title: "Thank You", Message: "Questions?"},
		},
	}
}

func TestPlanRoundTrip(t *testing.T) {
	plan := testPlan()

	data, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded PresentationPlan
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, plan.SlideCount(), decoded.SlideCount())
	for i, slide := range plan.Slides {
		assert.Equal(t, slide.Type(), decoded.Slides[i].Type(), "slide %d type", i+1)
	}
	require.NoError(t, decoded.Validate())

	title, ok := decoded.Slides[0].(*TitleSlide)
	require.True(t, ok)
	assert.Equal(t, "Cloud Migration", title.Title)
	points, ok := decoded.Slides[3].(*KeyPointsSlide)
	require.True(t, ok)
	require.Len(t, points.Points, 2)
	assert.Equal(t, "Savings", points.Points[0].Title)
}

func TestDecodeSlideUnknownType(t *testing.T) {
	_, err := DecodeSlide([]byte(`{"slide_type":"pie_chart","title":"Costs"}`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, SlideType("pie_chart"), schemaErr.Variant)
	assert.Equal(t, "slide_type", schemaErr.Field)
}

func TestDecodeSlideMissingDiscriminator(t *testing.T) {
	_, err := DecodeSlide([]byte(`{"title":"Costs"}`))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "slide_type", schemaErr.Field)
}

func TestDecodeSlideDefaults(t *testing.T) {
	agenda, err := DecodeSlide([]byte(`{"slide_type":"agenda","items":["One"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Agenda", agenda.(*AgendaSlide).Title)

	closing, err := DecodeSlide([]byte(`{"slide_type":"closing"}`))
	require.NoError(t, err)
	assert.Equal(t, "Thank You", closing.(*ClosingSlide).Title)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		slide Slide
		field string
	}{
		{"title slide without title", &TitleSlide{}, "title"},
		{"agenda without items", &AgendaSlide{Title: "Agenda"}, "items"},
		{"content without body", &ContentSlide{Title: "X"}, "body"},
		{"key points without points", &KeyPointsSlide{Title: "X"}, "points"},
		{"section header without title", &SectionHeaderSlide{}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &PresentationPlan{Title: "P", Slides: []Slide{tt.slide}}
			err := plan.Validate()
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

func TestValidatePlanEnvelope(t *testing.T) {
	err := (&PresentationPlan{Slides: []Slide{&ClosingSlide{Title: "Bye"}}}).Validate()
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "title", schemaErr.Field)

	err = (&PresentationPlan{Title: "P"}).Validate()
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "slides", schemaErr.Field)

	assert.NoError(t, (&PresentationPlan{Title: "P", Slides: []Slide{&ClosingSlide{Title: "Bye"}}}).Validate())
}

func TestSlideSummaryFormat(t *testing.T) {
	plan := testPlan()
	summary := plan.SlideSummary()

	lines := strings.Split(summary, "\n")
	require.GreaterOrEqual(t, len(lines), 6+plan.SlideCount())
	assert.Equal(t, "Presentation: Cloud Migration Proposal", lines[0])
	assert.Equal(t, "Slides: 6", lines[1])
	assert.Equal(t, "Duration: ~30 minutes", lines[2])
	assert.Equal(t, strings.Repeat("-", 40), lines[5])

	assert.Equal(t, " 1. [title          ] Cloud Migration", lines[6])
	assert.Equal(t, " 2. [agenda         ] Agenda", lines[7])
	assert.Equal(t, " 4. [key_points     ] Benefits", lines[9])
	assert.Equal(t, " 6. [closing        ] Thank You", lines[11])
}

func TestSlideSummaryFallsBackToTypeTag(t *testing.T) {
	plan := &PresentationPlan{
		Title:  "P",
		Slides: []Slide{&ClosingSlide{}},
	}
	assert.Contains(t, plan.SlideSummary(), "[closing        ] closing")
}

func TestDetailedView(t *testing.T) {
	plan := testPlan()
	view := plan.DetailedView()

	assert.Contains(t, view, "### Slide 1: TITLE")
	assert.Contains(t, view, "### Slide 4: KEY_POINTS")
	assert.Contains(t, view, "  - title: Cloud Migration")
	// list fields are bulleted
	assert.Contains(t, view, "  - items:")
	assert.Contains(t, view, "    • Overview")
	// structured list items are flattened to JSON text
	assert.Contains(t, view, `    • {"title":"Savings","description":"40% lower costs"}`)
	// the discriminator is never dumped
	assert.NotContains(t, view, "slide_type")
	// empty fields are skipped
	assert.NotContains(t, view, "speaker_notes")
}

func TestDurationDefaultOnDecode(t *testing.T) {
	var plan PresentationPlan
	require.NoError(t, json.Unmarshal([]byte(`{"title":"P","slides":[{"slide_type":"closing"}]}`), &plan))
	assert.Equal(t, DefaultDurationMinutes, plan.EstimatedDurationMinutes)
}
