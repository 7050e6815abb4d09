package repository

import (
	"context"
	"database/sql"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Submission, error)
	UpdateReview(ctx context.Context, submission *models.Submission) error
	ListWithDetails(ctx context.Context) ([]models.SubmissionWithDetails, error)
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const submissionColumns = `s.id, s.student_id, s.task_id, s.image_url, s.status, s.labels, s.ai_score, s.reviewed_by, s.reviewed_at, s.created_at, s.updated_at`

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, student_id, task_id, image_url, status, labels, ai_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		submission.ID,
		submission.StudentID,
		submission.TaskID,
		submission.ImageURL,
		submission.Status,
		pq.Array(nonNilStrings(submission.Labels)),
		submission.AIScore,
		submission.CreatedAt,
		submission.UpdatedAt,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s WHERE s.id = $1`

	return r.getOne(ctx, query, id)
}

func (r *submissionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions s WHERE s.id = $1 FOR UPDATE`

	return r.getOne(ctx, query, id)
}

func (r *submissionRepository) getOne(ctx context.Context, query, id string) (*models.Submission, error) {
	submission := &models.Submission{}
	err := scanSubmission(r.conn(ctx).QueryRowContext(ctx, query, id), submission)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return submission, nil
}

func (r *submissionRepository) UpdateReview(ctx context.Context, submission *models.Submission) error {
	query := `
		UPDATE submissions
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		submission.Status,
		submission.ReviewedBy,
		submission.ReviewedAt,
		submission.UpdatedAt,
		submission.ID,
	)
	return err
}

func (r *submissionRepository) ListWithDetails(ctx context.Context) ([]models.SubmissionWithDetails, error) {
	query := `
		SELECT ` + submissionColumns + `,
			a.name AS student_name, a.email AS student_email,
			t.title AS task_title, t.points AS task_points
		FROM submissions s
		JOIN accounts a ON s.student_id = a.id
		JOIN tasks t ON s.task_id = t.id
		ORDER BY s.created_at DESC, s.id ASC
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.SubmissionWithDetails
	for rows.Next() {
		var item models.SubmissionWithDetails
		err := scanSubmission(rows, &item.Submission,
			&item.StudentName,
			&item.StudentEmail,
			&item.TaskTitle,
			&item.TaskPoints,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, item)
	}

	return submissions, rows.Err()
}

func scanSubmission(row rowScanner, submission *models.Submission, extra ...interface{}) error {
	var (
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
	)

	dest := []interface{}{
		&submission.ID,
		&submission.StudentID,
		&submission.TaskID,
		&submission.ImageURL,
		&submission.Status,
		pq.Array(&submission.Labels),
		&submission.AIScore,
		&reviewedBy,
		&reviewedAt,
		&submission.CreatedAt,
		&submission.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	if reviewedBy.Valid {
		submission.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		submission.ReviewedAt = &reviewedAt.Time
	}
	submission.Labels = nonNilStrings(submission.Labels)

	return nil
}
