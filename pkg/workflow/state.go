// Package workflow drives a proposal document through analysis, plan
// generation, human review and finalization. The review point is the
// single suspension point: state is persisted there and the session
// resumes on a later feedback signal.
package workflow

import (
	"deckplan/pkg/schema"
	"deckplan/pkg/synth"
)

// Status is the review-cycle status of a session
type Status string

// Session statuses. Approved and rejected are terminal.
const (
	StatusPending           Status = "pending"
	StatusDraft             Status = "draft"
	StatusRevisionRequested Status = "revision_requested"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
)

// Terminal reports whether no further transition leaves this status
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DefaultMaxRevisions is the revision budget for new sessions
const DefaultMaxRevisions = 5

// State is the full record of one session. It is serializable so a
// session can suspend at the review point and resume in a later call.
type State struct {
	SessionID     string                   `json:"session_id"`
	Document      string                   `json:"document"`
	Analysis      *synth.DocumentAnalysis  `json:"analysis,omitempty"`
	Plan          *schema.PresentationPlan `json:"plan,omitempty"`
	Status        Status                   `json:"status"`
	Feedback      string                   `json:"feedback"`
	RevisionCount int                      `json:"revision_count"`
	MaxRevisions  int                      `json:"max_revisions"`
	Messages      []string                 `json:"messages"`
	Error         string                   `json:"error,omitempty"`
}

// NewState creates the initial state for a session. A maxRevisions of
// zero or less selects the default budget.
func NewState(sessionID, document string, maxRevisions int) *State {
	if maxRevisions <= 0 {
		maxRevisions = DefaultMaxRevisions
	}
	return &State{
		SessionID:    sessionID,
		Document:     document,
		Status:       StatusPending,
		MaxRevisions: maxRevisions,
	}
}

// RemainingRevisions returns the unused part of the revision budget
func (s *State) RemainingRevisions() int {
	return s.MaxRevisions - s.RevisionCount
}

// LastMessage returns the most recent message, or empty
func (s *State) LastMessage() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1]
}

// Update is the partial state overlay returned by a step. Nil fields
// leave the state untouched; messages are appended.
type Update struct {
	Analysis      *synth.DocumentAnalysis
	Plan          *schema.PresentationPlan
	Status        *Status
	Feedback      *string
	RevisionDelta int
	Err           *string
	Messages      []string
}

// Apply merges an update into the state. A successful step (Err unset)
// clears any stale error from an earlier failure.
func (s *State) Apply(u Update) {
	if u.Analysis != nil {
		s.Analysis = u.Analysis
	}
	if u.Plan != nil {
		s.Plan = u.Plan
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.Feedback != nil {
		s.Feedback = *u.Feedback
	}
	s.RevisionCount += u.RevisionDelta
	if u.Err != nil {
		s.Error = *u.Err
	} else {
		s.Error = ""
	}
	s.Messages = append(s.Messages, u.Messages...)
}

func statusUpdate(st Status) *Status {
	return &st
}

func stringUpdate(v string) *string {
	return &v
}
