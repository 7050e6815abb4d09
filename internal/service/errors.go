package service

import (
	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

var (
	ErrAccountNotFound    = apperror.New(apperror.KindNotFound, "account not found")
	ErrTaskNotFound       = apperror.New(apperror.KindNotFound, "task not found")
	ErrSubmissionNotFound = apperror.New(apperror.KindNotFound, "submission not found")

	ErrDuplicateEmail     = apperror.New(apperror.KindConflict, "email already registered")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid credentials")
	ErrNotStudent         = apperror.New(apperror.KindForbidden, "only students can submit eco-tasks")

	ErrInvalidStatus          = models.ErrInvalidStatus
	ErrImageRequired          = apperror.Validation("image is required")
	ErrUnsupportedImage       = apperror.Validation("unsupported image type")
	ErrInvalidPoints          = apperror.Validation("points must be greater than 0")
	ErrExpectedLabelsRequired = apperror.Validation("at least one expected label is required")
)
