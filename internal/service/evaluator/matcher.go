package evaluator

import (
	"math"
	"strings"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

type MatchResult struct {
	// Labels holds every detected label in the order the labeler returned them.
	Labels        []string `json:"labels"`
	MatchedLabels []string `json:"matched_labels"`
	Matched       bool     `json:"matched"`
	AIScore       int      `json:"ai_score"`
}

// Match compares detected labels against a task's expected labels, case-insensitively.
// AIScore is the rounded percentage mean of the matched confidences, or 0 when nothing matched.
func Match(detected []models.DetectedLabel, expected []string) MatchResult {
	expectedSet := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		expectedSet[normalizeLabel(e)] = struct{}{}
	}

	result := MatchResult{
		Labels:        make([]string, 0, len(detected)),
		MatchedLabels: []string{},
	}

	var sum float64
	for _, d := range detected {
		result.Labels = append(result.Labels, d.Label)

		if _, ok := expectedSet[normalizeLabel(d.Label)]; !ok {
			continue
		}
		result.MatchedLabels = append(result.MatchedLabels, d.Label)
		sum += clampConfidence(d.Confidence)
	}

	if len(result.MatchedLabels) == 0 {
		return result
	}

	result.Matched = true
	mean := sum / float64(len(result.MatchedLabels))
	result.AIScore = int(math.Round(mean * 100))

	return result
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
