package evaluator

import (
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/rs/zerolog"
)

// ApprovalThreshold is the minimum AI score for automatic approval.
const ApprovalThreshold = 60

// Decide returns the initial status of a submission. Rejection is never automatic.
func Decide(matched bool, aiScore int) models.SubmissionStatus {
	if matched && aiScore >= ApprovalThreshold {
		return models.SubmissionStatusApproved
	}
	return models.SubmissionStatusPending
}

type Evaluation struct {
	MatchResult
	Status models.SubmissionStatus `json:"status"`
}

type Evaluator interface {
	Evaluate(detected []models.DetectedLabel, expected []string) Evaluation
}

type evaluator struct {
	logger zerolog.Logger
}

func NewEvaluator(logger zerolog.Logger) Evaluator {
	return &evaluator{
		logger: logger,
	}
}

func (e *evaluator) Evaluate(detected []models.DetectedLabel, expected []string) Evaluation {
	match := Match(detected, expected)
	status := Decide(match.Matched, match.AIScore)

	e.logger.Debug().
		Strs("labels", match.Labels).
		Strs("matched_labels", match.MatchedLabels).
		Int("ai_score", match.AIScore).
		Str("status", status.String()).
		Msg("Submission evaluated")

	return Evaluation{
		MatchResult: match,
		Status:      status,
	}
}
