package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/evaluator"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/integration"
)

type SubmissionService interface {
	CreateSubmission(ctx context.Context, studentID, taskID string, image *models.UploadImage) (*models.Submission, error)
	ListSubmissions(ctx context.Context) (*models.SubmissionsResponse, error)
	ReviewSubmission(ctx context.Context, adminID, submissionID string, status models.SubmissionStatus) (*models.Submission, error)
}

type submissionService struct {
	tx             repository.Transactor
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	accountRepo    repository.AccountRepository
	blobs          repository.BlobStore
	ledger         LedgerService
	evaluator      evaluator.Evaluator
	labeler        integration.Labeler
	publisher      integration.EventPublisher
	logger         zerolog.Logger
	now            func() time.Time
}

func NewSubmissionService(
	tx repository.Transactor,
	submissionRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	accountRepo repository.AccountRepository,
	blobs repository.BlobStore,
	ledger LedgerService,
	eval evaluator.Evaluator,
	labeler integration.Labeler,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		tx:             tx,
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		accountRepo:    accountRepo,
		blobs:          blobs,
		ledger:         ledger,
		evaluator:      eval,
		labeler:        labeler,
		publisher:      publisher,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *submissionService) CreateSubmission(ctx context.Context, studentID, taskID string, image *models.UploadImage) (*models.Submission, error) {
	if image == nil || len(image.Content) == 0 {
		return nil, ErrImageRequired
	}
	if _, ok := repository.ImageContentType(image.FileName); !ok {
		return nil, ErrUnsupportedImage
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, ErrTaskNotFound
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to load task")
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	student, err := s.accountRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to load account")
	}
	if student == nil {
		return nil, ErrAccountNotFound
	}
	if !student.IsStudent() {
		return nil, ErrNotStudent
	}

	stored, err := s.blobs.Put(ctx, image.FileName, image.Content)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, err, "failed to store image")
	}

	detected, err := s.labeler.DetectLabels(ctx, stored.URL, image.Content)
	if err != nil {
		s.discardImage(stored.Key)
		return nil, apperror.Wrap(apperror.KindInternal, err, "failed to analyze image")
	}

	evaluation := s.evaluator.Evaluate(detected, task.ExpectedLabels)

	now := s.now()
	submission := &models.Submission{
		ID:        uuid.New().String(),
		StudentID: student.ID,
		TaskID:    task.ID,
		ImageURL:  stored.URL,
		Status:    evaluation.Status,
		Labels:    evaluation.Labels,
		AIScore:   evaluation.AIScore,
		CreatedAt: now,
		UpdatedAt: now,
	}

	pointsAwarded := 0
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.submissionRepo.Create(ctx, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		if submission.Status != models.SubmissionStatusApproved {
			return nil
		}
		if _, err := s.ledger.Credit(ctx, student.ID, task.Points); err != nil {
			return err
		}
		pointsAwarded = task.Points
		return nil
	})
	if err != nil {
		s.discardImage(stored.Key)
		return nil, apperror.Storage(err, "failed to save submission")
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", student.ID).
		Str("task_id", task.ID).
		Int("ai_score", submission.AIScore).
		Str("status", submission.Status.String()).
		Int("points_awarded", pointsAwarded).
		Msg("Submission created")

	event := &models.SubmissionEvaluatedEvent{
		SubmissionID:  submission.ID,
		StudentID:     submission.StudentID,
		TaskID:        submission.TaskID,
		Status:        submission.Status,
		AIScore:       submission.AIScore,
		Labels:        submission.Labels,
		PointsAwarded: pointsAwarded,
		Timestamp:     now.Unix(),
	}
	if err := s.publisher.PublishSubmissionEvaluated(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("submission_id", submission.ID).Msg("Failed to publish submission evaluated event")
	}

	return submission, nil
}

// discardImage removes an upload whose submission was never committed.
func (s *submissionService) discardImage(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete orphaned image")
	}
}

func (s *submissionService) ListSubmissions(ctx context.Context) (*models.SubmissionsResponse, error) {
	submissions, err := s.submissionRepo.ListWithDetails(ctx)
	if err != nil {
		return nil, apperror.Storage(err, "failed to list submissions")
	}
	if submissions == nil {
		submissions = []models.SubmissionWithDetails{}
	}

	return &models.SubmissionsResponse{
		Submissions: submissions,
		Total:       len(submissions),
	}, nil
}

func (s *submissionService) ReviewSubmission(ctx context.Context, adminID, submissionID string, status models.SubmissionStatus) (*models.Submission, error) {
	if !status.IsReviewTarget() {
		return nil, ErrInvalidStatus
	}
	if _, err := uuid.Parse(submissionID); err != nil {
		return nil, ErrSubmissionNotFound
	}

	var (
		reviewed       *models.Submission
		previousStatus models.SubmissionStatus
		pointsAwarded  int
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		submission, err := s.submissionRepo.GetByIDForUpdate(ctx, submissionID)
		if err != nil {
			return fmt.Errorf("failed to load submission: %w", err)
		}
		if submission == nil {
			return ErrSubmissionNotFound
		}

		credit, err := submission.Status.Transition(status)
		if err != nil {
			return err
		}

		if credit {
			task, err := s.taskRepo.GetByID(ctx, submission.TaskID)
			if err != nil {
				return fmt.Errorf("failed to load task: %w", err)
			}
			if task == nil {
				return ErrTaskNotFound
			}
			if _, err := s.ledger.Credit(ctx, submission.StudentID, task.Points); err != nil {
				return err
			}
			pointsAwarded = task.Points
		}

		now := s.now()
		previousStatus = submission.Status
		submission.Status = status
		submission.ReviewedBy = &adminID
		submission.ReviewedAt = &now
		submission.UpdatedAt = now

		if err := s.submissionRepo.UpdateReview(ctx, submission); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		reviewed = submission
		return nil
	})
	if err != nil {
		return nil, apperror.Storage(err, "failed to review submission")
	}

	s.logger.Info().
		Str("submission_id", reviewed.ID).
		Str("reviewer_id", adminID).
		Str("previous_status", previousStatus.String()).
		Str("status", reviewed.Status.String()).
		Int("points_awarded", pointsAwarded).
		Msg("Submission reviewed")

	event := &models.SubmissionReviewedEvent{
		SubmissionID:   reviewed.ID,
		StudentID:      reviewed.StudentID,
		ReviewerID:     adminID,
		PreviousStatus: previousStatus,
		Status:         reviewed.Status,
		PointsAwarded:  pointsAwarded,
		Timestamp:      reviewed.UpdatedAt.Unix(),
	}
	if err := s.publisher.PublishSubmissionReviewed(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("submission_id", reviewed.ID).Msg("Failed to publish submission reviewed event")
	}

	return reviewed, nil
}
