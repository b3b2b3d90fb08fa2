package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultDurationMinutes is used when a plan omits its estimated duration
const DefaultDurationMinutes = 30

// PresentationPlan is a complete presentation plan. The slide order is
// presentation order and is never reordered; revisions replace the whole
// plan.
type PresentationPlan struct {
	Title                    string  `json:"title"`
	Description              string  `json:"description,omitempty"`
	TargetAudience           string  `json:"target_audience,omitempty"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	Slides                   []Slide `json:"slides"`
}

// UnmarshalJSON decodes the plan envelope and dispatches each slide on
// its discriminator
func (p *PresentationPlan) UnmarshalJSON(data []byte) error {
	var aux struct {
		Title                    string            `json:"title"`
		Description              string            `json:"description"`
		TargetAudience           string            `json:"target_audience"`
		EstimatedDurationMinutes int               `json:"estimated_duration_minutes"`
		Slides                   []json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return &SchemaError{Reason: fmt.Sprintf("invalid plan payload: %v", err)}
	}

	p.Title = aux.Title
	p.Description = aux.Description
	p.TargetAudience = aux.TargetAudience
	p.EstimatedDurationMinutes = aux.EstimatedDurationMinutes
	if p.EstimatedDurationMinutes == 0 {
		p.EstimatedDurationMinutes = DefaultDurationMinutes
	}

	p.Slides = make([]Slide, 0, len(aux.Slides))
	for i, raw := range aux.Slides {
		slide, err := DecodeSlide(raw)
		if err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		p.Slides = append(p.Slides, slide)
	}
	return nil
}

// Validate checks the plan envelope and every slide against the variant
// field requirements
func (p *PresentationPlan) Validate() error {
	if p.Title == "" {
		return &SchemaError{Field: "title", Reason: "required field is missing"}
	}
	if len(p.Slides) == 0 {
		return &SchemaError{Field: "slides", Reason: "plan contains no slides"}
	}
	for i, slide := range p.Slides {
		if err := validateSlide(slide); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

// SlideCount returns the total number of slides
func (p *PresentationPlan) SlideCount() int {
	return len(p.Slides)
}

// SlideSummary returns a deterministic, human-readable summary of the
// plan: one line per slide with its 1-based index, type tag and title.
func (p *PresentationPlan) SlideSummary() string {
	lines := []string{
		fmt.Sprintf("Presentation: %s", p.Title),
		fmt.Sprintf("Slides: %d", p.SlideCount()),
		fmt.Sprintf("Duration: ~%d minutes", p.EstimatedDurationMinutes),
		"",
		"Slide Structure:",
		strings.Repeat("-", 40),
	}
	for i, slide := range p.Slides {
		lines = append(lines, fmt.Sprintf("%2d. [%-15s] %s", i+1, string(slide.Type()), slideTitle(slide)))
	}
	return strings.Join(lines, "\n")
}

// DetailedView renders every non-empty field of every slide, excluding
// the discriminator. List fields are bulleted; structured list items are
// flattened to JSON text.
func (p *PresentationPlan) DetailedView() string {
	var lines []string
	for i, slide := range p.Slides {
		lines = append(lines, fmt.Sprintf("\n### Slide %d: %s", i+1, strings.ToUpper(string(slide.Type()))))
		for _, f := range slideFields(slide) {
			if f.list != nil {
				if len(f.list) == 0 {
					continue
				}
				lines = append(lines, fmt.Sprintf("  - %s:", f.key))
				for _, item := range f.list {
					lines = append(lines, fmt.Sprintf("    • %s", item))
				}
				continue
			}
			if f.value == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("  - %s: %s", f.key, f.value))
		}
	}
	return strings.Join(lines, "\n")
}

type fieldEntry struct {
	key   string
	value string
	list  []string
}

// slideFields lists the renderable fields of a slide in declaration
// order. Adding a slide variant forces an update here.
func slideFields(s Slide) []fieldEntry {
	switch v := s.(type) {
	case *TitleSlide:
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "subtitle", value: v.Subtitle},
			{key: "author", value: v.Author},
			{key: "date", value: v.Date},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	case *AgendaSlide:
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "items", list: v.Items},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	case *ContentSlide:
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "body", value: v.Body},
			{key: "image_suggestion", value: v.ImageSuggestion},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	case *KeyPointsSlide:
		points := make([]string, 0, len(v.Points))
		for _, p := range v.Points {
			data, err := json.Marshal(p)
			if err != nil {
				continue
			}
			points = append(points, string(data))
		}
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "points", list: points},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	case *SectionHeaderSlide:
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "subtitle", value: v.Subtitle},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	case *ClosingSlide:
		return []fieldEntry{
			{key: "title", value: v.Title},
			{key: "message", value: v.Message},
			{key: "speaker_notes", value: v.SpeakerNotes},
		}
	}
	return nil
}
