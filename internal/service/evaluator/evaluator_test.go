package evaluator

import (
	"testing"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func labels(pairs ...interface{}) []models.DetectedLabel {
	out := make([]models.DetectedLabel, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.DetectedLabel{Label: pairs[i].(string), Confidence: pairs[i+1].(float64)})
	}
	return out
}

func TestMatch(t *testing.T) {
	expected := []string{"tree", "plant", "garden"}

	tests := []struct {
		name        string
		detected    []models.DetectedLabel
		expected    []string
		wantScore   int
		wantMatched bool
		wantMatches []string
	}{
		{
			name:        "partial match averages matched confidences",
			detected:    labels("tree", 0.90, "plant", 0.82, "environment", 0.75),
			expected:    expected,
			wantScore:   86,
			wantMatched: true,
			wantMatches: []string{"tree", "plant"},
		},
		{
			name:        "no match scores zero",
			detected:    labels("car", 0.95),
			expected:    expected,
			wantScore:   0,
			wantMatched: false,
			wantMatches: []string{},
		},
		{
			name:        "case insensitive on both sides",
			detected:    labels("TREE", 0.70),
			expected:    []string{"Tree"},
			wantScore:   70,
			wantMatched: true,
			wantMatches: []string{"TREE"},
		},
		{
			name:        "single match",
			detected:    labels("tree", 0.61),
			expected:    expected,
			wantScore:   61,
			wantMatched: true,
			wantMatches: []string{"tree"},
		},
		{
			name:        "empty detection",
			detected:    nil,
			expected:    expected,
			wantScore:   0,
			wantMatched: false,
			wantMatches: []string{},
		},
		{
			name:        "empty expected labels",
			detected:    labels("tree", 0.9),
			expected:    nil,
			wantScore:   0,
			wantMatched: false,
			wantMatches: []string{},
		},
		{
			name:        "matched label with zero confidence still matches",
			detected:    labels("tree", 0.0),
			expected:    expected,
			wantScore:   0,
			wantMatched: true,
			wantMatches: []string{"tree"},
		},
		{
			name:        "out of range confidences are clamped",
			detected:    labels("tree", 1.7, "plant", -0.4),
			expected:    expected,
			wantScore:   50,
			wantMatched: true,
			wantMatches: []string{"tree", "plant"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.detected, tt.expected)
			assert.Equal(t, tt.wantScore, got.AIScore)
			assert.Equal(t, tt.wantMatched, got.Matched)
			assert.Equal(t, tt.wantMatches, got.MatchedLabels)
			assert.Len(t, got.Labels, len(tt.detected))
			assert.GreaterOrEqual(t, got.AIScore, 0)
			assert.LessOrEqual(t, got.AIScore, 100)
		})
	}
}

func TestMatchKeepsAllDetectedLabels(t *testing.T) {
	got := Match(labels("tree", 0.90, "plant", 0.82, "environment", 0.75), []string{"tree"})
	assert.Equal(t, []string{"tree", "plant", "environment"}, got.Labels)
}

func TestMatchIsDeterministic(t *testing.T) {
	detected := labels("tree", 0.33, "garden", 0.91, "plant", 0.47)
	expected := []string{"garden", "plant"}

	first := Match(detected, expected)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Match(detected, expected))
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		matched bool
		score   int
		want    models.SubmissionStatus
	}{
		{name: "matched at threshold", matched: true, score: 60, want: models.SubmissionStatusApproved},
		{name: "matched above threshold", matched: true, score: 86, want: models.SubmissionStatusApproved},
		{name: "matched below threshold", matched: true, score: 59, want: models.SubmissionStatusPending},
		{name: "unmatched with high score", matched: false, score: 100, want: models.SubmissionStatusPending},
		{name: "unmatched zero", matched: false, score: 0, want: models.SubmissionStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.matched, tt.score)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, models.SubmissionStatusRejected, got)
		})
	}
}

func TestEvaluatorEvaluate(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())

	approved := e.Evaluate(labels("tree", 0.90, "plant", 0.82, "environment", 0.75), []string{"tree", "plant", "garden"})
	assert.Equal(t, models.SubmissionStatusApproved, approved.Status)
	assert.Equal(t, 86, approved.AIScore)

	pending := e.Evaluate(labels("car", 0.95), []string{"tree", "plant", "garden"})
	assert.Equal(t, models.SubmissionStatusPending, pending.Status)
	assert.Equal(t, 0, pending.AIScore)
}
