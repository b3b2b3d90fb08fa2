package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"deckplan/pkg/schema"
)

// SlidesClient implements Service against a deck-builder REST service
type SlidesClient struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewSlidesClient creates a client for the deck-builder service. The
// credential file holds a bearer token.
func NewSlidesClient(baseURL, credentialsPath string) (*SlidesClient, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read slides credentials: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil, fmt.Errorf("slides credentials file %s is empty", credentialsPath)
	}

	return &SlidesClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Timeout:    30 * time.Second,
		HTTPClient: &http.Client{},
	}, nil
}

// WithTimeout sets the timeout for rendering requests
func (c *SlidesClient) WithTimeout(timeout time.Duration) *SlidesClient {
	c.Timeout = timeout
	return c
}

// deckRequest is the service payload for a new deck
type deckRequest struct {
	Title    string      `json:"title"`
	Audience string      `json:"audience,omitempty"`
	Slides   []deckSlide `json:"slides"`
}

// deckSlide is one slide in the service payload
type deckSlide struct {
	Layout     string   `json:"layout"`
	Heading    string   `json:"heading,omitempty"`
	Subheading string   `json:"subheading,omitempty"`
	Body       []string `json:"body,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// deckResponse is the service response for a created deck
type deckResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePresentation renders a plan into a persisted deck
func (c *SlidesClient) CreatePresentation(ctx context.Context, plan *schema.PresentationPlan) (*Result, error) {
	if plan == nil {
		return nil, &RenderError{Reason: "no plan to render"}
	}

	payload := deckRequest{
		Title:    plan.Title,
		Audience: plan.TargetAudience,
		Slides:   make([]deckSlide, 0, plan.SlideCount()),
	}
	for _, slide := range plan.Slides {
		payload.Slides = append(payload.Slides, translateSlide(slide))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &RenderError{Reason: "failed to marshal deck payload", Err: err}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1/decks", c.BaseURL)
	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, &RenderError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &RenderError{Reason: "failed to reach slides service", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RenderError{Reason: "failed to read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &RenderError{Reason: fmt.Sprintf("slides service returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var deck deckResponse
	if err := json.Unmarshal(respBody, &deck); err != nil {
		return nil, &RenderError{Reason: "failed to parse response", Err: err}
	}

	return &Result{
		ArtifactID: deck.ID,
		URL:        deck.URL,
		Title:      plan.Title,
		SlideCount: plan.SlideCount(),
	}, nil
}

// translateSlide maps one slide variant to the service layout. Adding a
// slide variant forces an update here.
func translateSlide(s schema.Slide) deckSlide {
	switch v := s.(type) {
	case *schema.TitleSlide:
		var body []string
		if v.Author != "" {
			body = append(body, v.Author)
		}
		if v.Date != "" {
			body = append(body, v.Date)
		}
		return deckSlide{Layout: "title", Heading: v.Title, Subheading: v.Subtitle, Body: body, Notes: v.SpeakerNotes}
	case *schema.AgendaSlide:
		return deckSlide{Layout: "bullets", Heading: v.Title, Body: append([]string(nil), v.Items...), Notes: v.SpeakerNotes}
	case *schema.ContentSlide:
		notes := v.SpeakerNotes
		if v.ImageSuggestion != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += "Image suggestion: " + v.ImageSuggestion
		}
		return deckSlide{Layout: "body", Heading: v.Title, Body: strings.Split(v.Body, "\n"), Notes: notes}
	case *schema.KeyPointsSlide:
		body := make([]string, 0, len(v.Points))
		for _, p := range v.Points {
			body = append(body, fmt.Sprintf("%s: %s", p.Title, p.Description))
		}
		return deckSlide{Layout: "key_points", Heading: v.Title, Body: body, Notes: v.SpeakerNotes}
	case *schema.SectionHeaderSlide:
		return deckSlide{Layout: "section", Heading: v.Title, Subheading: v.Subtitle, Notes: v.SpeakerNotes}
	case *schema.ClosingSlide:
		var body []string
		if v.Message != "" {
			body = append(body, v.Message)
		}
		return deckSlide{Layout: "closing", Heading: v.Title, Body: body, Notes: v.SpeakerNotes}
	}
	return deckSlide{Layout: string(s.Type()), Notes: s.Notes()}
}
