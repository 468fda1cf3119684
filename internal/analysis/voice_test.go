package analysis

import (
	"reflect"
	"testing"
)

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		name     string
		pitch    float64
		tempo    float64
		expected string
	}{
		{"high pitch and tempo", 260, 190, "High stress"},
		{"low pitch and tempo", 170, 90, "Possible depression"},
		{"raised pitch moderate tempo", 210, 130, "Anxiety"},
		{"low pitch fast tempo", 150, 150, "Agitation"},
		{"mid range", 190, 110, "Neutral"},
		// Overlap between the high-stress and anxiety clauses resolves
		// to the earlier rule.
		{"overlap favours first rule", 260, 185, "High stress"},
		{"anxiety boundary not crossed", 200, 130, "Neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyEmotion(tt.pitch, tt.tempo); got != tt.expected {
				t.Errorf("ClassifyEmotion(%v, %v) = %q, want %q", tt.pitch, tt.tempo, got, tt.expected)
			}
		})
	}
}

func TestStressIndicators(t *testing.T) {
	tests := []struct {
		name     string
		pitch    float64
		tempo    float64
		expected []string
	}{
		{
			name:  "extreme pitch and very fast speech",
			pitch: 310, tempo: 210,
			expected: []string{"Very high pitch - extreme stress", "Very fast speech - anxiety"},
		},
		{
			name:  "elevated pitch only",
			pitch: 260, tempo: 120,
			expected: []string{"Elevated pitch - high stress"},
		},
		{
			name:  "nervous tempo only",
			pitch: 200, tempo: 170,
			expected: []string{"Fast speech - nervousness"},
		},
		{
			name:  "slow speech",
			pitch: 200, tempo: 70,
			expected: []string{"Slow speech - possible depression"},
		},
		{
			name:  "nothing notable",
			pitch: 200, tempo: 120,
			expected: []string{},
		},
		{
			name:  "both axes, pitch entry first",
			pitch: 260, tempo: 165,
			expected: []string{"Elevated pitch - high stress", "Fast speech - nervousness"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StressIndicators(tt.pitch, tt.tempo)
			if got == nil {
				t.Fatal("StressIndicators returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("StressIndicators(%v, %v) = %v, want %v", tt.pitch, tt.tempo, got, tt.expected)
			}
			if len(got) > 2 {
				t.Errorf("StressIndicators returned %d entries, want at most 2", len(got))
			}
		})
	}
}
