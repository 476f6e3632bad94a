package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Analysis
	}{
		{
			name: "well formed",
			text: "SCORE: 82\nPANELS: 3\nNARRATIVE: A fork stages a quiet rebellion against the soup course.",
			want: Analysis{Score: 82, PanelCount: 3, Narrative: "A fork stages a quiet rebellion against the soup course."},
		},
		{
			name: "leading whitespace and extra lines",
			text: "Here is my rating.\n  SCORE: 40\n\n  PANELS: 2\n  NARRATIVE: Mildly odd evening.\nThanks!",
			want: Analysis{Score: 40, PanelCount: 2, Narrative: "Mildly odd evening."},
		},
		{
			name: "out of range values clamped",
			text: "SCORE: 250\nPANELS: 0\nNARRATIVE: x",
			want: Analysis{Score: 100, PanelCount: 1, Narrative: "x"},
		},
		{
			name: "negative score clamped",
			text: "SCORE: -5\nPANELS: 7\nNARRATIVE: y",
			want: Analysis{Score: 0, PanelCount: 4, Narrative: "y"},
		},
		{
			name: "non-numeric fields fall back to mildest",
			text: "SCORE: very\nPANELS: some\nNARRATIVE: z",
			want: Analysis{Score: 0, PanelCount: 1, Narrative: "z"},
		},
		{
			name: "missing fields",
			text: "the model rambled and gave nothing usable",
			want: Analysis{Score: 0, PanelCount: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnalysis(tt.text))
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-1))
	assert.Equal(t, 0, ClampScore(0))
	assert.Equal(t, 55, ClampScore(55))
	assert.Equal(t, 100, ClampScore(100))
	assert.Equal(t, 100, ClampScore(101))
}

func TestClampPanels(t *testing.T) {
	assert.Equal(t, 1, ClampPanels(0))
	assert.Equal(t, 1, ClampPanels(1))
	assert.Equal(t, 4, ClampPanels(4))
	assert.Equal(t, 4, ClampPanels(5))
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(t.Context(), "", "gemini-2.0-flash")
	assert.Error(t, err)
}
