package analysis

// StressTrend labels an average absolute stress level. Used by the
// session summary, which looks at where a user's stress currently sits
// rather than how far it has moved.
func StressTrend(avgStress float64) string {
	switch {
	case avgStress < 3.0:
		return "Improving"
	case avgStress < 6.0:
		return "Stable"
	default:
		return "Needs attention"
	}
}

// ReductionTrend labels an average per-session stress reduction
// (before minus after). Used by the progress report.
func ReductionTrend(avgReduction float64) string {
	switch {
	case avgReduction > 2.0:
		return "Excellent progress"
	case avgReduction > 1.0:
		return "Good improvement"
	case avgReduction > 0.0:
		return "Gradual progress"
	default:
		return "Needs attention"
	}
}
