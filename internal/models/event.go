package models

type SubmissionEvaluatedEvent struct {
	SubmissionID  string           `json:"submission_id"`
	StudentID     string           `json:"student_id"`
	TaskID        string           `json:"task_id"`
	Status        SubmissionStatus `json:"status"`
	AIScore       int              `json:"ai_score"`
	Labels        []string         `json:"labels"`
	PointsAwarded int              `json:"points_awarded"`
	Timestamp     int64            `json:"timestamp"`
}

type SubmissionReviewedEvent struct {
	SubmissionID   string           `json:"submission_id"`
	StudentID      string           `json:"student_id"`
	ReviewerID     string           `json:"reviewer_id"`
	PreviousStatus SubmissionStatus `json:"previous_status"`
	Status         SubmissionStatus `json:"status"`
	PointsAwarded  int              `json:"points_awarded"`
	Timestamp      int64            `json:"timestamp"`
}
