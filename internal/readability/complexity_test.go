package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cvscore/internal/domain"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name string
		text string
		want domain.ComplexityResult
	}{
		{
			name: "empty",
			text: "",
			want: domain.ComplexityResult{Score: 0, Level: LevelCompact},
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: domain.ComplexityResult{Score: 0, Level: LevelCompact},
		},
		{
			// 2 words / 1 sentence *3 = 6, words keep their punctuation: 4.5 *5 = 22.5
			name: "short",
			text: "Team lead.",
			want: domain.ComplexityResult{Score: 29, Level: LevelCompact},
		},
		{
			// 4 words / 2 sentences *3 = 6, (5+7+3+8)/4 = 5.75 *5 = 28.75
			name: "terminator runs count once",
			text: "Built APIs!!! Led teams?..",
			want: domain.ComplexityResult{Score: 35, Level: LevelComfortable},
		},
		{
			// 6 words / 1 sentence *3 = 18, (8+11+12+3+10+14)/6 = 9.67 *5 = 48.33
			name: "no terminator is one sentence",
			text: "Designed distributed microservice and Kubernetes infrastructure",
			want: domain.ComplexityResult{Score: 66, Level: LevelSpacious},
		},
		{
			name: "clamped",
			text: "Responsabilités " + strings.Repeat("internationalisation ", 40),
			want: domain.ComplexityResult{Score: 100, Level: LevelSpacious},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Analyze(tt.text))
		})
	}
}

func TestSentences(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, []string{"One", "Two", "Three"}, a.Sentences("One. Two!! Three?"))
	assert.Empty(t, a.Sentences("...!?"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, LevelCompact, Level(29))
	assert.Equal(t, LevelComfortable, Level(30))
	assert.Equal(t, LevelComfortable, Level(60))
	assert.Equal(t, LevelSpacious, Level(61))
}
