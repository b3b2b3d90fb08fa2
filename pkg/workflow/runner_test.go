package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckplan/pkg/memory"
	"deckplan/pkg/schema"
	"deckplan/pkg/synth"
)

func newTestRunner(t *testing.T, client synth.Client) *Runner {
	t.Helper()
	if client == nil {
		client = &fakeSynth{}
	}
	return NewRunner(NewEngine(client, nil), memory.NewInMemoryStore())
}

func TestRunnerStartSuspendsAtReview(t *testing.T) {
	runner := newTestRunner(t, nil)

	state, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, state.Status)
	require.NotNil(t, state.Plan)
	require.Len(t, state.Messages, 3) // analyze, generate, review
	assert.Contains(t, state.Messages[2], "Remaining revisions: 5")

	// the suspended state is persisted and reloadable
	loaded, err := runner.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, state.Status, loaded.Status)
	assert.Equal(t, state.Messages, loaded.Messages)
	assert.Equal(t, state.Plan.SlideCount(), loaded.Plan.SlideCount())
}

func TestRunnerStartValidatesInput(t *testing.T) {
	runner := newTestRunner(t, nil)

	_, err := runner.Start(context.Background(), "", "doc", 0)
	assert.Error(t, err)
	_, err = runner.Start(context.Background(), "s1", "", 0)
	assert.Error(t, err)
}

func TestRunnerStartRejectsDuplicateSession(t *testing.T) {
	runner := newTestRunner(t, nil)

	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	_, err = runner.Start(context.Background(), "s1", "doc", 0)
	assert.ErrorIs(t, err, ErrSessionExists)
}

// Scenario: generate fails, the session terminates via the error route
func TestRunnerStartGenerateFailure(t *testing.T) {
	runner := newTestRunner(t, &fakeSynth{
		generateFn: func(ctx context.Context, analysis *synth.DocumentAnalysis, document string) (*schema.PresentationPlan, error) {
			return nil, &synth.Error{Op: "generate", Err: errors.New("model unavailable")}
		},
	})

	state, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, state.Status)
	assert.NotEmpty(t, state.Error)
	require.Len(t, state.Messages, 2) // analyze, generate error

	// the parked error state never reached review; resume is refused
	_, err = runner.Resume(context.Background(), "s1", "approve")
	assert.ErrorIs(t, err, ErrNotAwaitingReview)
}

// Scenario: the Spanish approve keyword finalizes the plan
func TestRunnerResumeApprove(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	state, err := runner.Resume(context.Background(), "s1", "aprobar")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, state.Status)
	assert.Empty(t, state.Error)
	last := state.LastMessage()
	assert.Contains(t, last, "Plan approved and finalized!")
	assert.Contains(t, last, "Presentation:")
	assert.Contains(t, last, "Configure a slides service credential")
}

// Scenario: the Spanish reject keyword terminates the session
func TestRunnerResumeReject(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	state, err := runner.Resume(context.Background(), "s1", "rechazar")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, state.Status)

	// terminal sessions refuse further resumes
	_, err = runner.Resume(context.Background(), "s1", "aprobar")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRunnerResumeRevisionCycle(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	state, err := runner.Resume(context.Background(), "s1", "make the agenda shorter")
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, state.Status, "revision re-enters review")
	assert.Equal(t, 1, state.RevisionCount)
	assert.Empty(t, state.Feedback)
	assert.Contains(t, state.LastMessage(), "Remaining revisions: 4")
}

// Scenario: at budget exhaustion, arbitrary feedback still finalizes
func TestRunnerForcedFinalizeAtBudget(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Start(context.Background(), "s1", "doc", 5)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		state, err := runner.Resume(context.Background(), "s1", "another tweak")
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, state.Status)
	}

	state, err := runner.Resume(context.Background(), "s1", "change slide 3")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, state.Status)
	assert.Equal(t, 5, state.RevisionCount, "revision count never exceeds the budget")
}

func TestRunnerResumeBlankFeedback(t *testing.T) {
	runner := newTestRunner(t, nil)
	started, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	state, err := runner.Resume(context.Background(), "s1", "   \n ")
	assert.ErrorIs(t, err, ErrEmptyFeedback)

	// the session is untouched: same status, same messages, no feedback
	require.NotNil(t, state)
	assert.Equal(t, started.Status, state.Status)
	assert.Equal(t, len(started.Messages), len(state.Messages))
	assert.Empty(t, state.Feedback)
}

func TestRunnerResumeUnknownSession(t *testing.T) {
	runner := newTestRunner(t, nil)
	_, err := runner.Resume(context.Background(), "missing", "approve")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// A failed revision preserves the feedback and budget so the same
// signal can be retried after the failure
func TestRunnerFailedReviseIsRetryable(t *testing.T) {
	failures := 1
	runner := newTestRunner(t, &fakeSynth{
		reviseFn: func(ctx context.Context, plan *schema.PresentationPlan, feedback, document string) (*schema.PresentationPlan, error) {
			if failures > 0 {
				failures--
				return nil, &synth.Error{Op: "revise", Err: errors.New("timeout")}
			}
			revised := *plan
			revised.Description = "revised: " + feedback
			return &revised, nil
		},
	})
	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	state, err := runner.Resume(context.Background(), "s1", "shorter agenda")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, state.Status)
	assert.Equal(t, 0, state.RevisionCount)
	assert.Equal(t, "shorter agenda", state.Feedback)
	assert.NotEmpty(t, state.Error)

	// retry with the same feedback succeeds and clears the stale error
	state, err = runner.Resume(context.Background(), "s1", "shorter agenda")
	require.NoError(t, err)
	assert.Equal(t, 1, state.RevisionCount)
	assert.Empty(t, state.Feedback)
	assert.Empty(t, state.Error)
	assert.Equal(t, "revised: shorter agenda", state.Plan.Description)
}

// Concurrent resumes on one session: the second call is rejected
func TestRunnerRejectsConcurrentResume(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	runner := newTestRunner(t, &fakeSynth{
		reviseFn: func(ctx context.Context, plan *schema.PresentationPlan, feedback, document string) (*schema.PresentationPlan, error) {
			close(started)
			<-block
			revised := *plan
			return &revised, nil
		},
	})
	_, err := runner.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Resume(context.Background(), "s1", "tweak it")
		done <- err
	}()

	<-started
	_, err = runner.Resume(context.Background(), "s1", "another tweak")
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(block)
	require.NoError(t, <-done)
}

// Suspend and resume across separate runner instances sharing a file
// store: the stateless drive matches the interactive one
func TestRunnerResumeFromPersistedState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions")

	store1, err := memory.NewFileStore(path)
	require.NoError(t, err)
	runner1 := NewRunner(NewEngine(&fakeSynth{}, nil), store1)

	started, err := runner1.Start(context.Background(), "s1", "doc", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, started.Status)

	// a fresh process: new store over the same directory, new runner
	store2, err := memory.NewFileStore(path)
	require.NoError(t, err)
	runner2 := NewRunner(NewEngine(&fakeSynth{}, nil), store2)

	reloaded, err := runner2.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, started.Messages, reloaded.Messages)
	assert.Equal(t, started.Plan.SlideCount(), reloaded.Plan.SlideCount())

	state, err := runner2.Resume(context.Background(), "s1", "approve")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, state.Status)
}
