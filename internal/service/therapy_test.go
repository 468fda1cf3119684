package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacehq/solace/internal/adapters/badgerstore"
	"github.com/solacehq/solace/internal/adapters/otel"
	"github.com/solacehq/solace/internal/domain"
)

// fixedClock advances by one second per Now call so that ordering
// assertions on timestamps are meaningful.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestService(t *testing.T) *TherapyService {
	t.Helper()

	store, err := badgerstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &fixedClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(store.Profiles(), store.Sessions(), clock, otel.NewNoOpExporter(), logger)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	profile, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Principal)
	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, uint32(0), profile.SessionCount)
	assert.Equal(t, uint32(0), profile.TotalSessions)
	assert.Equal(t, profile.CreatedAt, profile.LastActive)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tests := []struct {
		name      string
		principal string
		username  string
		wantErr   error
	}{
		{"anonymous caller", "", "Alice", domain.ErrUnauthenticated},
		{"empty username", "alice", "", domain.ErrInvalidInput},
		{"whitespace username", "alice", "   \t", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.principal, tt.username)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterTwiceKeepsFirstProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "Someone Else")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestProfileUnregistered(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Profile(context.Background(), "stranger")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Profile(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTouchActivity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	profile, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.TouchActivity(ctx, "alice"))

	got, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.LastActive.After(profile.LastActive))

	assert.ErrorIs(t, svc.TouchActivity(ctx, "stranger"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.TouchActivity(ctx, ""), domain.ErrUnauthenticated)
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	id, err := svc.StartSession(ctx, "alice", "EMDR", 7.5)
	require.NoError(t, err)
	assert.Equal(t, badgerstore.FormatSessionID(1), id)

	sessions, err := svc.Sessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	open := sessions[0]
	assert.Equal(t, "alice", open.Principal)
	assert.Equal(t, "EMDR", open.SessionType)
	assert.Equal(t, uint32(0), open.Duration)
	assert.Equal(t, 7.5, open.StressLevelBefore)
	assert.Equal(t, 7.5, open.StressLevelAfter)
	assert.Empty(t, open.Notes)
	assert.Equal(t, domain.SessionOpen, open.State)
	assert.Empty(t, open.Voice.Emotion)

	// Starting bumps session_count but not total_sessions.
	profile, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), profile.SessionCount)
	assert.Equal(t, uint32(0), profile.TotalSessions)
}

func TestStartSessionRequiresProfile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StartSession(context.Background(), "stranger", "CBT", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.StartSession(context.Background(), "", "CBT", 5)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionIDsIncreaseAcrossPrincipals(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "Bob")
	require.NoError(t, err)

	var prev string
	for i := 0; i < 10; i++ {
		principal := "alice"
		if i%2 == 1 {
			principal = "bob"
		}
		id, err := svc.StartSession(ctx, principal, "CBT", 5)
		require.NoError(t, err)
		if prev != "" {
			assert.Greater(t, id, prev)
		}
		prev = id
	}
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	id, err := svc.StartSession(ctx, "alice", "CBT", 8)
	require.NoError(t, err)

	ended, err := svc.EndSession(ctx, "alice", id, 50, 4, "made progress", 260, 190)
	require.NoError(t, err)

	assert.Equal(t, id, ended.ID)
	assert.Equal(t, "alice", ended.Principal)
	assert.Equal(t, uint32(50), ended.Duration)
	assert.Equal(t, 4.0, ended.StressLevelAfter)
	assert.Equal(t, "made progress", ended.Notes)
	assert.Equal(t, domain.SessionEnded, ended.State)
	assert.Equal(t, "High stress", ended.Voice.Emotion)
	assert.Equal(t, []string{"Elevated pitch - high stress", "Fast speech - nervousness"}, ended.Voice.StressIndicators)

	// Every field written by end comes back unchanged from the next list.
	sessions, err := svc.Sessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, ended, sessions[0])

	// Completion bookkeeping on the profile.
	profile, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), profile.TotalSessions)
}

func TestEndSessionErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "mallory", "Mallory")
	require.NoError(t, err)

	id, err := svc.StartSession(ctx, "alice", "CBT", 8)
	require.NoError(t, err)

	_, err = svc.EndSession(ctx, "alice", "session_000000009999", 10, 5, "", 200, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.EndSession(ctx, "mallory", id, 10, 5, "hijack", 200, 100)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.EndSession(ctx, "", id, 10, 5, "", 200, 100)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// The failed attempts must leave the session untouched.
	sessions, err := svc.Sessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionOpen, sessions[0].State)
	assert.Empty(t, sessions[0].Notes)

	// And mallory's profile must not have gained a completion.
	profile, err := svc.Profile(ctx, "mallory")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), profile.TotalSessions)
}

func TestEndSessionTwiceOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	id, err := svc.StartSession(ctx, "alice", "CBT", 8)
	require.NoError(t, err)

	_, err = svc.EndSession(ctx, "alice", id, 30, 5, "first pass", 200, 100)
	require.NoError(t, err)

	again, err := svc.EndSession(ctx, "alice", id, 45, 3, "second pass", 170, 90)
	require.NoError(t, err)
	assert.Equal(t, uint32(45), again.Duration)
	assert.Equal(t, "second pass", again.Notes)
	assert.Equal(t, "Possible depression", again.Voice.Emotion)

	// Each end counts as a completion; nothing blocks the second one.
	profile, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), profile.TotalSessions)
}

func TestSessionsListIsolation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "Bob")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.StartSession(ctx, "alice", "CBT", 5)
		require.NoError(t, err)
	}
	_, err = svc.StartSession(ctx, "bob", "EMDR", 6)
	require.NoError(t, err)

	alice, err := svc.Sessions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 3)

	bob, err := svc.Sessions(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob, 1)

	// A registered caller with no sessions gets an empty list.
	_, err = svc.Register(ctx, "carol", "Carol")
	require.NoError(t, err)
	carol, err := svc.Sessions(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, carol)

	_, err = svc.Sessions(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestProgressReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	pairs := []struct{ before, after float64 }{{8, 5}, {7, 4}, {6, 5}}
	for _, p := range pairs {
		id, err := svc.StartSession(ctx, "alice", "CBT", p.before)
		require.NoError(t, err)
		_, err = svc.EndSession(ctx, "alice", id, 45, p.after, "", 200, 100)
		require.NoError(t, err)
	}

	report, err := svc.ProgressReport(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", report.Principal)
	assert.Equal(t, uint32(3), report.TotalSessions)
	assert.InDelta(t, 2.33, report.AvgStressReduction, 0.01)
	assert.Equal(t, "Excellent progress", report.Trend)
	assert.Contains(t, report.Recommendations, domain.RecommendKeepGoing)
}

func TestProgressReportNotFoundPaths(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// Unregistered caller: no profile, no sessions.
	_, err := svc.ProgressReport(ctx, "stranger")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Registered caller with zero sessions is a distinct path to the
	// same error class.
	_, err = svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.ProgressReport(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// And the profile itself is still reachable.
	_, err = svc.Profile(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.ProgressReport(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)

	for _, after := range []float64{2, 3} {
		id, err := svc.StartSession(ctx, "alice", "CBT", 5)
		require.NoError(t, err)
		_, err = svc.EndSession(ctx, "alice", id, 30, after, "", 200, 100)
		require.NoError(t, err)
	}

	summary, err := svc.SessionSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Sessions: 2, Avg Stress: 2.50 — Improving", summary)

	_, err = svc.SessionSummary(ctx, "stranger")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReflectionAndTrauma(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	reflection, err := svc.Reflection(ctx, "alice", "I'm a failure")
	require.NoError(t, err)
	assert.Equal(t, "Try to reframe: Everyone fails sometimes. What did you learn?", reflection)

	_, err = svc.Reflection(ctx, "", "anything")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	severity, err := svc.AssessTrauma(ctx, "alice", []string{"panic", "violence"})
	require.NoError(t, err)
	assert.Equal(t, "Moderate severity", severity)

	_, err = svc.AssessTrauma(ctx, "", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestDiagnosticCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	users, err := svc.TotalUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), users)

	_, err = svc.Register(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "Bob")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, "alice", "CBT", 5)
	require.NoError(t, err)

	users, err = svc.TotalUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), users)

	total, err := svc.TotalSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
}
