package models

import "time"

// Data Transfer Objects

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,max=20"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

type CreateTaskRequest struct {
	Title          string     `json:"title" validate:"required,min=3,max=255"`
	Description    string     `json:"description" validate:"max=1000"`
	Category       string     `json:"category" validate:"max=100"`
	Points         int        `json:"points" validate:"required,gt=0"`
	ExpectedLabels []string   `json:"expected_labels" validate:"required,min=1,dive,required,max=100"`
	Deadline       *time.Time `json:"deadline"`
}

type UploadImage struct {
	FileName string
	Content  []byte
}

type ReviewSubmissionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Total       int                `json:"total"`
}

type SubmissionsResponse struct {
	Submissions []SubmissionWithDetails `json:"submissions"`
	Total       int                     `json:"total"`
}
