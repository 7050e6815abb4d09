package models

import (
	"time"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
)

var ErrInvalidStatus = apperror.Validation("invalid submission status: must be approved or rejected")

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

// IsReviewTarget reports whether an admin may set a submission to s.
func (s SubmissionStatus) IsReviewTarget() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// Transition validates an admin override from s to next and reports whether the
// student must be credited. Only a move into approved from a non-approved state credits;
// approved -> rejected keeps the points already awarded.
func (s SubmissionStatus) Transition(next SubmissionStatus) (credit bool, err error) {
	if !next.IsReviewTarget() {
		return false, ErrInvalidStatus
	}
	return s != SubmissionStatusApproved && next == SubmissionStatusApproved, nil
}

type Submission struct {
	ID         string           `json:"id" db:"id"`
	StudentID  string           `json:"student_id" db:"student_id"`
	TaskID     string           `json:"task_id" db:"task_id"`
	ImageURL   string           `json:"image_url" db:"image_url"`
	Status     SubmissionStatus `json:"status" db:"status"`
	Labels     []string         `json:"labels" db:"labels"`
	AIScore    int              `json:"ai_score" db:"ai_score"`
	ReviewedBy *string          `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

type SubmissionWithDetails struct {
	Submission
	StudentName  string `json:"student_name" db:"student_name"`
	StudentEmail string `json:"student_email" db:"student_email"`
	TaskTitle    string `json:"task_title" db:"task_title"`
	TaskPoints   int    `json:"task_points" db:"task_points"`
}

// DetectedLabel is one (label, confidence) pair returned by a labeler.
type DetectedLabel struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
