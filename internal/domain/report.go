package domain

import (
	"fmt"
	"time"

	"github.com/solacehq/solace/internal/analysis"
)

// Recommendation strings appended by BuildReport, in order of evaluation.
const (
	RecommendLongerSessions = "Consider longer therapy sessions"
	RecommendVaryTherapy    = "Try different therapy types"
	RecommendKeepGoing      = "Continue regular sessions"
	RecommendSeekSupport    = "Consider additional professional support"
)

// recentWindow is how many of the latest sessions feed the high-stress
// recommendation check.
const recentWindow = 3

// highStressThreshold is the recent average stress_after level above
// which professional support is suggested.
const highStressThreshold = 6.0

// ProgressReport is computed on demand from a principal's full session
// history and never persisted.
type ProgressReport struct {
	Principal          string    `json:"principal"`
	TotalSessions      uint32    `json:"total_sessions"`
	AvgStressReduction float64   `json:"avg_stress_reduction"`
	Trend              string    `json:"trend"`
	Recommendations    []string  `json:"recommendations"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// BuildReport synthesizes a progress report from the given sessions,
// which must be in store order (creation order) and non-empty; the
// caller is responsible for rejecting an empty history.
func BuildReport(principal string, sessions []*TherapySession, now time.Time) *ProgressReport {
	var total float64
	for _, s := range sessions {
		total += s.StressReduction()
	}
	avg := total / float64(len(sessions))

	recommendations := []string{}
	if avg < 1.0 {
		recommendations = append(recommendations, RecommendLongerSessions, RecommendVaryTherapy)
	}
	if len(sessions) < 5 {
		recommendations = append(recommendations, RecommendKeepGoing)
	}
	if recentAvgStressAfter(sessions) > highStressThreshold {
		recommendations = append(recommendations, RecommendSeekSupport)
	}

	return &ProgressReport{
		Principal:          principal,
		TotalSessions:      uint32(len(sessions)),
		AvgStressReduction: avg,
		Trend:              analysis.ReductionTrend(avg),
		Recommendations:    recommendations,
		GeneratedAt:        now,
	}
}

// recentAvgStressAfter averages stress_after over the last up-to-three
// sessions in store order.
func recentAvgStressAfter(sessions []*TherapySession) float64 {
	start := len(sessions) - recentWindow
	if start < 0 {
		start = 0
	}
	recent := sessions[start:]

	var total float64
	for _, s := range recent {
		total += s.StressLevelAfter
	}
	return total / float64(len(recent))
}

// SummaryLine renders the one-line session summary over a stress_after
// history: session count, average stress and the absolute-stress trend.
func SummaryLine(sessionCount uint32, stressLevels []float64) string {
	var total float64
	for _, v := range stressLevels {
		total += v
	}
	avg := 0.0
	if len(stressLevels) > 0 {
		avg = total / float64(len(stressLevels))
	}
	return fmt.Sprintf("Sessions: %d, Avg Stress: %.2f — %s", sessionCount, avg, analysis.StressTrend(avg))
}
