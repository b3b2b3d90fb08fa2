package schema

import (
	"encoding/json"
	"fmt"
)

// SlideType identifies one of the supported slide variants
type SlideType string

// Slide types
const (
	SlideTypeTitle         SlideType = "title"
	SlideTypeAgenda        SlideType = "agenda"
	SlideTypeContent       SlideType = "content"
	SlideTypeKeyPoints     SlideType = "key_points"
	SlideTypeSectionHeader SlideType = "section_header"
	SlideTypeClosing       SlideType = "closing"
)

// Slide is the closed set of slide variants. Only the types in this
// package implement it; consumers switch exhaustively over the concrete
// types.
type Slide interface {
	// Type returns the slide_type discriminator
	Type() SlideType

	// Notes returns the speaker notes for the slide
	Notes() string

	slide()
}

// SchemaError reports a structural problem in a plan or slide payload
type SchemaError struct {
	Variant SlideType
	Field   string
	Reason  string
}

// Error returns the error message
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: slide type %q: field %q: %s", e.Variant, e.Field, e.Reason)
	}
	if e.Variant != "" {
		return fmt.Sprintf("schema: slide type %q: %s", e.Variant, e.Reason)
	}
	return fmt.Sprintf("schema: %s", e.Reason)
}

// TitleSlide is typically the first slide of the presentation
type TitleSlide struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Author       string `json:"author,omitempty"`
	Date         string `json:"date,omitempty"`
	SpeakerNotes string `json:"speaker_notes,omitempty"`
}

// AgendaSlide outlines the presentation structure
type AgendaSlide struct {
	Title        string   `json:"title"`
	Items        []string `json:"items"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
}

// ContentSlide is a general purpose slide with title and body text
type ContentSlide struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	ImageSuggestion string `json:"image_suggestion,omitempty"`
	SpeakerNotes    string `json:"speaker_notes,omitempty"`
}

// KeyPoint is a single highlighted point on a key points slide
type KeyPoint struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// KeyPointsSlide highlights important points
type KeyPointsSlide struct {
	Title        string     `json:"title"`
	Points       []KeyPoint `json:"points"`
	SpeakerNotes string     `json:"speaker_notes,omitempty"`
}

// SectionHeaderSlide introduces a new section of the presentation
type SectionHeaderSlide struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	SpeakerNotes string `json:"speaker_notes,omitempty"`
}

// ClosingSlide is typically the last slide with a call to action
type ClosingSlide struct {
	Title        string `json:"title"`
	Message      string `json:"message,omitempty"`
	SpeakerNotes string `json:"speaker_notes,omitempty"`
}

func (s *TitleSlide) Type() SlideType         { return SlideTypeTitle }
func (s *AgendaSlide) Type() SlideType        { return SlideTypeAgenda }
func (s *ContentSlide) Type() SlideType       { return SlideTypeContent }
func (s *KeyPointsSlide) Type() SlideType     { return SlideTypeKeyPoints }
func (s *SectionHeaderSlide) Type() SlideType { return SlideTypeSectionHeader }
func (s *ClosingSlide) Type() SlideType       { return SlideTypeClosing }

func (s *TitleSlide) Notes() string         { return s.SpeakerNotes }
func (s *AgendaSlide) Notes() string        { return s.SpeakerNotes }
func (s *ContentSlide) Notes() string       { return s.SpeakerNotes }
func (s *KeyPointsSlide) Notes() string     { return s.SpeakerNotes }
func (s *SectionHeaderSlide) Notes() string { return s.SpeakerNotes }
func (s *ClosingSlide) Notes() string       { return s.SpeakerNotes }

func (s *TitleSlide) slide()         {}
func (s *AgendaSlide) slide()        {}
func (s *ContentSlide) slide()       {}
func (s *KeyPointsSlide) slide()     {}
func (s *SectionHeaderSlide) slide() {}
func (s *ClosingSlide) slide()       {}

// MarshalJSON includes the slide_type discriminator
func (s *TitleSlide) MarshalJSON() ([]byte, error) {
	type alias TitleSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeTitle, (*alias)(s)})
}

// MarshalJSON includes the slide_type discriminator
func (s *AgendaSlide) MarshalJSON() ([]byte, error) {
	type alias AgendaSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeAgenda, (*alias)(s)})
}

// MarshalJSON includes the slide_type discriminator
func (s *ContentSlide) MarshalJSON() ([]byte, error) {
	type alias ContentSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeContent, (*alias)(s)})
}

// MarshalJSON includes the slide_type discriminator
func (s *KeyPointsSlide) MarshalJSON() ([]byte, error) {
	type alias KeyPointsSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeKeyPoints, (*alias)(s)})
}

// MarshalJSON includes the slide_type discriminator
func (s *SectionHeaderSlide) MarshalJSON() ([]byte, error) {
	type alias SectionHeaderSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeSectionHeader, (*alias)(s)})
}

// MarshalJSON includes the slide_type discriminator
func (s *ClosingSlide) MarshalJSON() ([]byte, error) {
	type alias ClosingSlide
	return json.Marshal(struct {
		SlideType SlideType `json:"slide_type"`
		*alias
	}{SlideTypeClosing, (*alias)(s)})
}

// DecodeSlide parses a single slide payload, dispatching on the
// slide_type discriminator. Defaults are applied (agenda and closing
// titles) and unknown discriminators are rejected with a SchemaError.
func DecodeSlide(data []byte) (Slide, error) {
	var head struct {
		SlideType SlideType `json:"slide_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid slide payload: %v", err)}
	}

	var slide Slide
	switch head.SlideType {
	case SlideTypeTitle:
		slide = &TitleSlide{}
	case SlideTypeAgenda:
		slide = &AgendaSlide{}
	case SlideTypeContent:
		slide = &ContentSlide{}
	case SlideTypeKeyPoints:
		slide = &KeyPointsSlide{}
	case SlideTypeSectionHeader:
		slide = &SectionHeaderSlide{}
	case SlideTypeClosing:
		slide = &ClosingSlide{}
	case "":
		return nil, &SchemaError{Field: "slide_type", Reason: "missing discriminator"}
	default:
		return nil, &SchemaError{Variant: head.SlideType, Field: "slide_type", Reason: "unknown slide type"}
	}

	if err := json.Unmarshal(data, slide); err != nil {
		return nil, &SchemaError{Variant: head.SlideType, Reason: fmt.Sprintf("invalid slide payload: %v", err)}
	}
	applySlideDefaults(slide)
	return slide, nil
}

func applySlideDefaults(s Slide) {
	switch v := s.(type) {
	case *AgendaSlide:
		if v.Title == "" {
			v.Title = "Agenda"
		}
	case *ClosingSlide:
		if v.Title == "" {
			v.Title = "Thank You"
		}
	}
}

// validateSlide checks the required fields of one slide variant
func validateSlide(s Slide) error {
	switch v := s.(type) {
	case *TitleSlide:
		if v.Title == "" {
			return &SchemaError{Variant: SlideTypeTitle, Field: "title", Reason: "required field is missing"}
		}
	case *AgendaSlide:
		if len(v.Items) == 0 {
			return &SchemaError{Variant: SlideTypeAgenda, Field: "items", Reason: "required field is missing"}
		}
	case *ContentSlide:
		if v.Title == "" {
			return &SchemaError{Variant: SlideTypeContent, Field: "title", Reason: "required field is missing"}
		}
		if v.Body == "" {
			return &SchemaError{Variant: SlideTypeContent, Field: "body", Reason: "required field is missing"}
		}
	case *KeyPointsSlide:
		if v.Title == "" {
			return &SchemaError{Variant: SlideTypeKeyPoints, Field: "title", Reason: "required field is missing"}
		}
		if len(v.Points) == 0 {
			return &SchemaError{Variant: SlideTypeKeyPoints, Field: "points", Reason: "required field is missing"}
		}
	case *SectionHeaderSlide:
		if v.Title == "" {
			return &SchemaError{Variant: SlideTypeSectionHeader, Field: "title", Reason: "required field is missing"}
		}
	case *ClosingSlide:
		// no required fields
	default:
		return &SchemaError{Reason: fmt.Sprintf("unknown slide variant %T", s)}
	}
	return nil
}

// slideTitle returns the title-like field of a slide, falling back to
// the type tag when the variant carries no usable title.
func slideTitle(s Slide) string {
	var title string
	switch v := s.(type) {
	case *TitleSlide:
		title = v.Title
	case *AgendaSlide:
		title = v.Title
	case *ContentSlide:
		title = v.Title
	case *KeyPointsSlide:
		title = v.Title
	case *SectionHeaderSlide:
		title = v.Title
	case *ClosingSlide:
		title = v.Title
	}
	if title == "" {
		return string(s.Type())
	}
	return title
}
