package analysis

import "strings"

// traumaKeywords is the fixed vocabulary scored by TraumaSeverity.
var traumaKeywords = []string{"death", "abuse", "violence", "accident", "panic"}

// cbtPatterns maps catastrophic-thought fragments to reframing prompts.
// Matching is case-sensitive substring search, first match wins.
var cbtPatterns = []struct {
	fragment string
	prompt   string
}{
	{"I'm a failure", "Try to reframe: Everyone fails sometimes. What did you learn?"},
	{"No one cares about me", "Challenge that thought: Is that 100% true? What evidence do you have?"},
}

const cbtFallback = "Reflect: Is this thought helping you or hurting you?"

// TraumaSeverity counts exact-token matches against the trauma keyword set.
// Matching is token equality, not substring search.
func TraumaSeverity(words []string) string {
	score := 0
	for _, word := range words {
		for _, kw := range traumaKeywords {
			if word == kw {
				score++
				break
			}
		}
	}

	switch {
	case score == 0:
		return "Low severity"
	case score <= 2:
		return "Moderate severity"
	default:
		return "High severity"
	}
}

// CBTReflection returns a reframing prompt for the first catastrophic
// pattern found in thought, or a generic reflective prompt.
func CBTReflection(thought string) string {
	for _, p := range cbtPatterns {
		if strings.Contains(thought, p.fragment) {
			return p.prompt
		}
	}
	return cbtFallback
}
