package repository

import (
	"context"
	"database/sql"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	ListActive(ctx context.Context) ([]models.Task, error)
	Count(ctx context.Context) (int, error)
}

type taskRepository struct {
	*PostgresRepository
}

func NewTaskRepository(db *sql.DB, logger zerolog.Logger) TaskRepository {
	return &taskRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const taskColumns = `id, title, description, category, points, expected_labels, deadline, is_active, created_by, created_at`

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, category, points, expected_labels, deadline, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Category,
		task.Points,
		pq.Array(nonNilStrings(task.ExpectedLabels)),
		task.Deadline,
		task.IsActive,
		task.CreatedBy,
		task.CreatedAt,
	)

	return err
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.conn(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return task, err
}

func (r *taskRepository) ListActive(ctx context.Context) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE is_active = TRUE
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total)
	return total, err
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var (
		deadline  sql.NullTime
		createdBy sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Points,
		pq.Array(&task.ExpectedLabels),
		&deadline,
		&task.IsActive,
		&createdBy,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		task.Deadline = &deadline.Time
	}
	if createdBy.Valid {
		task.CreatedBy = &createdBy.String
	}
	task.ExpectedLabels = nonNilStrings(task.ExpectedLabels)

	return task, nil
}
