package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"deckplan/pkg/workflow"
)

// Client is an HTTP client for the session API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// StartSession starts a session and returns its state at the review
// suspension point
func (c *Client) StartSession(document, sessionID string, maxRevisions int) (*workflow.State, error) {
	request := CreateSessionRequest{
		Document:     document,
		SessionID:    sessionID,
		MaxRevisions: maxRevisions,
	}
	return c.postState("/api/v1/sessions", request)
}

// SubmitFeedback resumes a session with one feedback signal
func (c *Client) SubmitFeedback(sessionID, feedback string) (*workflow.State, error) {
	request := FeedbackRequest{Feedback: feedback}
	return c.postState(fmt.Sprintf("/api/v1/sessions/%s/feedback", sessionID), request)
}

// GetSession returns the persisted snapshot of a session
func (c *Client) GetSession(sessionID string) (*workflow.State, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + fmt.Sprintf("/api/v1/sessions/%s", sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return decodeState(resp)
}

// ListSessions returns the identifiers of all sessions on the server
func (c *Client) ListSessions() ([]string, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	var payload struct {
		Sessions []string `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return payload.Sessions, nil
}

// Health checks whether the server is reachable
func (c *Client) Health() error {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/health")
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postState(path string, request interface{}) (*workflow.State, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return decodeState(resp)
}

func decodeState(resp *http.Response) (*workflow.State, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var state workflow.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}
