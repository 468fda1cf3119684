// Package service implements the public operation surface of the
// therapy tracker: registration, the session lifecycle and progress
// reporting. Every operation takes the caller principal resolved by the
// transport layer; the anonymous principal (empty string) is rejected
// before anything else.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/solacehq/solace/internal/analysis"
	"github.com/solacehq/solace/internal/domain"
	"github.com/solacehq/solace/internal/ports"
)

// TherapyService coordinates the profile and session stores and the
// classification rules. Mutating operations are serialized behind one
// mutex: each call fully applies its writes or, on a validation
// failure, applies none.
type TherapyService struct {
	mu       sync.Mutex
	profiles ports.ProfileRepository
	sessions ports.SessionRepository
	clock    ports.Clock
	metrics  ports.MetricsExporter
	logger   *slog.Logger
}

func New(
	profiles ports.ProfileRepository,
	sessions ports.SessionRepository,
	clock ports.Clock,
	metrics ports.MetricsExporter,
	logger *slog.Logger,
) *TherapyService {
	return &TherapyService{
		profiles: profiles,
		sessions: sessions,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

func requirePrincipal(principal string) error {
	if principal == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// Register creates the profile for principal. Fails if the username is
// empty or whitespace-only, or if the principal is already registered.
func (s *TherapyService) Register(ctx context.Context, principal, username string) (*domain.UserProfile, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("username must not be empty: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	profile := &domain.UserProfile{
		Principal:  principal,
		Username:   username,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.metrics.RecordRegistration(ctx)
	s.logger.Info("user registered", "principal", principal)
	return profile, nil
}

// Profile returns the caller's profile.
func (s *TherapyService) Profile(ctx context.Context, principal string) (*domain.UserProfile, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, principal)
}

// TouchActivity refreshes the caller's last-active timestamp.
func (s *TherapyService) TouchActivity(ctx context.Context, principal string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Get(ctx, principal)
	if err != nil {
		return err
	}
	profile.LastActive = s.clock.Now()
	return s.profiles.Update(ctx, profile)
}

// StartSession opens a new session for the caller. The caller must be
// registered. The session identifier comes from the store's monotonic
// counter and is returned to the caller.
func (s *TherapyService) StartSession(ctx context.Context, principal, sessionType string, stressBefore float64) (string, error) {
	if err := requirePrincipal(principal); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Get(ctx, principal)
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	session := &domain.TherapySession{
		Principal:         principal,
		SessionType:       sessionType,
		Timestamp:         now,
		StressLevelBefore: stressBefore,
		StressLevelAfter:  stressBefore,
		Voice:             domain.VoiceAnalysis{StressIndicators: []string{}},
		State:             domain.SessionOpen,
	}

	id, err := s.sessions.Insert(ctx, session)
	if err != nil {
		return "", err
	}

	profile.SessionCount++
	profile.LastActive = now
	if err := s.profiles.Update(ctx, profile); err != nil {
		// The session is already durable; losing the profile touch is
		// preferable to failing the start after the fact.
		s.logger.Warn("failed to update profile after session start", "principal", principal, "error", err)
	}

	s.metrics.RecordSessionStarted(ctx, sessionType)
	s.logger.Info("session started", "principal", principal, "session_id", id, "session_type", sessionType)
	return id, nil
}

// EndSession closes a session: it overwrites duration, stress level and
// notes, recomputes the voice analysis from the supplied acoustic
// features, and records the completion on the owner's profile. Only the
// session owner may end it. Re-ending an already-ended session is
// permitted and simply overwrites the end-phase fields again.
func (s *TherapyService) EndSession(ctx context.Context, principal, sessionID string, duration uint32, stressAfter float64, notes string, pitch, tempo float64) (*domain.TherapySession, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Principal != principal {
		return nil, fmt.Errorf("session %s is not owned by caller: %w", sessionID, domain.ErrUnauthorized)
	}

	session.Duration = duration
	session.StressLevelAfter = stressAfter
	session.Notes = notes
	session.Voice = domain.VoiceAnalysis{
		Pitch:            pitch,
		Tempo:            tempo,
		Emotion:          analysis.ClassifyEmotion(pitch, tempo),
		StressIndicators: analysis.StressIndicators(pitch, tempo),
	}
	session.State = domain.SessionEnded

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.recordCompletion(ctx, principal)

	s.metrics.RecordSessionCompleted(ctx, session.SessionType, duration, session.StressReduction())
	s.logger.Info("session ended",
		"principal", principal,
		"session_id", sessionID,
		"duration", duration,
		"emotion", session.Voice.Emotion,
	)
	return session, nil
}

// recordCompletion bumps total_sessions and refreshes last_active on
// the owner's profile. A vanished profile cannot occur while sessions
// require registration, so it is logged and swallowed rather than
// surfaced to the caller.
func (s *TherapyService) recordCompletion(ctx context.Context, principal string) {
	profile, err := s.profiles.Get(ctx, principal)
	if err != nil {
		s.logger.Warn("profile missing on session completion", "principal", principal, "error", err)
		return
	}
	profile.TotalSessions++
	profile.LastActive = s.clock.Now()
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Warn("failed to record session completion", "principal", principal, "error", err)
	}
}

// Sessions lists the caller's sessions in creation order. A registered
// caller with no sessions gets an empty list, not an error.
func (s *TherapyService) Sessions(ctx context.Context, principal string) ([]*domain.TherapySession, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	return s.sessions.ListByPrincipal(ctx, principal)
}

// ProgressReport aggregates the caller's full session history. A caller
// with no sessions gets ErrNotFound; this is a separate condition from
// the caller being unregistered, which surfaces through Profile.
func (s *TherapyService) ProgressReport(ctx context.Context, principal string) (*domain.ProgressReport, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListByPrincipal(ctx, principal)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found for caller: %w", domain.ErrNotFound)
	}

	report := domain.BuildReport(principal, sessions, s.clock.Now())

	s.metrics.RecordReportGenerated(ctx, report.Trend)
	return report, nil
}

// SessionSummary renders the one-line summary over the caller's
// post-session stress history.
func (s *TherapyService) SessionSummary(ctx context.Context, principal string) (string, error) {
	if err := requirePrincipal(principal); err != nil {
		return "", err
	}

	sessions, err := s.sessions.ListByPrincipal(ctx, principal)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions found for caller: %w", domain.ErrNotFound)
	}

	levels := make([]float64, len(sessions))
	for i, sess := range sessions {
		levels[i] = sess.StressLevelAfter
	}
	return domain.SummaryLine(uint32(len(sessions)), levels), nil
}

// Reflection returns a CBT reframing prompt for the given thought.
func (s *TherapyService) Reflection(ctx context.Context, principal, thought string) (string, error) {
	if err := requirePrincipal(principal); err != nil {
		return "", err
	}
	return analysis.CBTReflection(thought), nil
}

// AssessTrauma scores the given tokens against the trauma keyword set.
func (s *TherapyService) AssessTrauma(ctx context.Context, principal string, words []string) (string, error) {
	if err := requirePrincipal(principal); err != nil {
		return "", err
	}
	return analysis.TraumaSeverity(words), nil
}

// TotalUsers is an unauthenticated diagnostic count.
func (s *TherapyService) TotalUsers(ctx context.Context) (uint64, error) {
	return s.profiles.Count(ctx)
}

// TotalSessions is an unauthenticated diagnostic count.
func (s *TherapyService) TotalSessions(ctx context.Context) (uint64, error) {
	return s.sessions.Count(ctx)
}
