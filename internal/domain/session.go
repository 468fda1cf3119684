package domain

import "time"

// SessionState tags the two-phase session lifecycle. Ending an
// already-ended session is permitted and overwrites the end-phase
// fields; the tag exists so readers can tell the phases apart.
type SessionState string

const (
	SessionOpen  SessionState = "open"
	SessionEnded SessionState = "ended"
)

// VoiceAnalysis holds the acoustic features captured at session end and
// the labels derived from them. It is recomputed wholesale on every end
// call, never edited field by field.
type VoiceAnalysis struct {
	Pitch            float64  `json:"pitch"`
	Tempo            float64  `json:"tempo"`
	Emotion          string   `json:"emotion"`
	StressIndicators []string `json:"stress_indicators"`
}

// TherapySession is one therapy interaction owned by exactly one
// principal. A session is open (zero duration, empty notes,
// stress_after == stress_before) until explicitly ended.
type TherapySession struct {
	ID                string        `json:"id"`
	Principal         string        `json:"principal"`
	SessionType       string        `json:"session_type"`
	Timestamp         time.Time     `json:"timestamp"`
	Duration          uint32        `json:"duration"`
	StressLevelBefore float64       `json:"stress_level_before"`
	StressLevelAfter  float64       `json:"stress_level_after"`
	Notes             string        `json:"notes"`
	Voice             VoiceAnalysis `json:"voice_analysis"`
	State             SessionState  `json:"state"`
}

// StressReduction is the per-session improvement, before minus after.
// Negative when the session ended worse than it started.
func (s *TherapySession) StressReduction() float64 {
	return s.StressLevelBefore - s.StressLevelAfter
}
