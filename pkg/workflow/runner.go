package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"deckplan/pkg/memory"
)

// Runner errors
var (
	// ErrEmptyFeedback is returned when a resume carries a blank signal;
	// the session is left untouched so the caller can re-prompt.
	ErrEmptyFeedback = errors.New("feedback is empty; reply with comments, \"approve\" or \"reject\"")

	// ErrSessionBusy is returned when a session already has a step in flight
	ErrSessionBusy = errors.New("session already has a step in flight")

	// ErrSessionClosed is returned when a session reached a terminal status
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionNotFound is returned when no session exists for an identifier
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when starting a session with a used identifier
	ErrSessionExists = errors.New("session already exists")

	// ErrNotAwaitingReview is returned when resuming a session that never
	// reached the review point
	ErrNotAwaitingReview = errors.New("session is not awaiting review")
)

// Runner executes steps strictly sequentially per session and suspends
// after present-for-review by persisting the state and returning. A
// later Resume call reloads the state and applies one review cycle, so
// interactive and stateless drives behave identically.
type Runner struct {
	engine *Engine
	store  memory.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRunner creates a runner over a session store
func NewRunner(engine *Engine, store memory.Store) *Runner {
	return &Runner{
		engine: engine,
		store:  store,
		locks:  make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the per-session mutex, creating it on first use
func (r *Runner) sessionLock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[sessionID] = lock
	}
	return lock
}

// Start creates a session for a document and runs it up to the review
// suspension point (or to error termination). The returned state is the
// persisted snapshot.
func (r *Runner) Start(ctx context.Context, sessionID, document string, maxRevisions int) (*State, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session identifier is required")
	}
	if document == "" {
		return nil, fmt.Errorf("document is required")
	}

	lock := r.sessionLock(sessionID)
	if !lock.TryLock() {
		return nil, ErrSessionBusy
	}
	defer lock.Unlock()

	if _, err := r.store.Load(ctx, sessionID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, sessionID)
	}

	s := NewState(sessionID, document, maxRevisions)

	s.Apply(r.engine.AnalyzeDocument(ctx, s))
	if ErrorCheck(s) == RouteError {
		return s, r.save(ctx, s)
	}

	s.Apply(r.engine.GeneratePlan(ctx, s))
	if ErrorCheck(s) == RouteError {
		return s, r.save(ctx, s)
	}

	s.Apply(r.engine.PresentForReview(s))
	return s, r.save(ctx, s)
}

// Resume applies one review-decision cycle to a suspended session and
// returns the resulting persisted snapshot.
func (r *Runner) Resume(ctx context.Context, sessionID, feedback string) (*State, error) {
	lock := r.sessionLock(sessionID)
	if !lock.TryLock() {
		return nil, ErrSessionBusy
	}
	defer lock.Unlock()

	s, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status.Terminal() {
		return s, ErrSessionClosed
	}
	if s.Status != StatusDraft {
		return s, ErrNotAwaitingReview
	}
	if strings.TrimSpace(feedback) == "" {
		return s, ErrEmptyFeedback
	}

	s.Feedback = feedback

	switch ReviewDecision(s) {
	case DecisionFinalize:
		s.Apply(r.engine.FinalizePlan(ctx, s))
	case DecisionReject:
		s.Apply(r.engine.HandleRejection(s))
	case DecisionRevise:
		s.Apply(r.engine.RevisePlan(ctx, s))
		if ErrorCheck(s) == RouteError {
			return s, r.save(ctx, s)
		}
		s.Apply(r.engine.PresentForReview(s))
	}

	return s, r.save(ctx, s)
}

// Get returns the persisted snapshot of a session
func (r *Runner) Get(ctx context.Context, sessionID string) (*State, error) {
	return r.load(ctx, sessionID)
}

// List returns the identifiers of all persisted sessions
func (r *Runner) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

func (r *Runner) save(ctx context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := r.store.Save(ctx, s.SessionID, data); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

func (r *Runner) load(ctx context.Context, sessionID string) (*State, error) {
	data, err := r.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &s, nil
}
