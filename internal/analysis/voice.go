// Package analysis contains the pure classification rules applied to
// session data: voice-emotion labels, stress indicators, trauma keyword
// scoring, CBT reflections and trend labels. Functions here are total,
// deterministic and free of I/O.
package analysis

// ClassifyEmotion maps two acoustic features to an emotion label.
// The rule table is ordered; overlapping ranges resolve to the first
// matching clause, not the best fit.
func ClassifyEmotion(pitch, tempo float64) string {
	switch {
	case pitch > 250 && tempo > 180:
		return "High stress"
	case pitch < 180 && tempo < 100:
		return "Possible depression"
	case pitch > 200 && tempo > 120:
		return "Anxiety"
	case pitch < 200 && tempo > 140:
		return "Agitation"
	default:
		return "Neutral"
	}
}

// StressIndicators evaluates pitch and tempo thresholds independently.
// Each axis contributes at most one indicator; the pitch-derived entry
// always precedes the tempo-derived one. The result is never nil.
func StressIndicators(pitch, tempo float64) []string {
	indicators := []string{}

	if pitch > 300 {
		indicators = append(indicators, "Very high pitch - extreme stress")
	} else if pitch > 250 {
		indicators = append(indicators, "Elevated pitch - high stress")
	}

	if tempo > 200 {
		indicators = append(indicators, "Very fast speech - anxiety")
	} else if tempo > 160 {
		indicators = append(indicators, "Fast speech - nervousness")
	} else if tempo < 80 {
		indicators = append(indicators, "Slow speech - possible depression")
	}

	return indicators
}
