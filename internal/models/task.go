package models

import (
	"time"
)

type Task struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Category       string     `json:"category" db:"category"`
	Points         int        `json:"points" db:"points"`
	ExpectedLabels []string   `json:"expected_labels" db:"expected_labels"`
	Deadline       *time.Time `json:"deadline,omitempty" db:"deadline"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedBy      *string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
