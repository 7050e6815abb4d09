package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

type TaskService interface {
	CreateTask(ctx context.Context, adminID string, req *models.CreateTaskRequest) (*models.Task, error)
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	// SeedDemoTasks inserts the starter tasks when no task exists yet and returns how many were created.
	SeedDemoTasks(ctx context.Context) (int, error)
}

type taskService struct {
	tx       repository.Transactor
	taskRepo repository.TaskRepository
	logger   zerolog.Logger
}

func NewTaskService(tx repository.Transactor, taskRepo repository.TaskRepository, logger zerolog.Logger) TaskService {
	return &taskService{
		tx:       tx,
		taskRepo: taskRepo,
		logger:   logger,
	}
}

var demoTasks = []models.CreateTaskRequest{
	{
		Title:          "Plant a Sapling",
		Description:    "Plant a sapling in your home, hostel, or neighbourhood and water it regularly.",
		Category:       "Plantation",
		Points:         20,
		ExpectedLabels: []string{"tree", "plant", "garden"},
	},
	{
		Title:          "Clean Your Classroom Area",
		Description:    "Collect litter around your classroom or lab and put it in the dustbin.",
		Category:       "Waste Management",
		Points:         15,
		ExpectedLabels: []string{"trash", "litter", "bin"},
	},
	{
		Title:          "Cycle or Walk to College",
		Description:    "Use a bicycle or walk instead of a motorbike for at least one trip to college.",
		Category:       "Energy Saving",
		Points:         25,
		ExpectedLabels: []string{"bicycle", "bike", "cycle"},
	},
}

func (s *taskService) CreateTask(ctx context.Context, adminID string, req *models.CreateTaskRequest) (*models.Task, error) {
	task, err := newTask(adminID, req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, apperror.Storage(err, "failed to create task")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("title", task.Title).
		Int("points", task.Points).
		Msg("Task created")

	return task, nil
}

func newTask(adminID string, req *models.CreateTaskRequest, now time.Time) (*models.Task, error) {
	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}

	labels := normalizeLabels(req.ExpectedLabels)
	if len(labels) == 0 {
		return nil, ErrExpectedLabelsRequired
	}

	task := &models.Task{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Points:         req.Points,
		ExpectedLabels: labels,
		Deadline:       req.Deadline,
		IsActive:       true,
		CreatedAt:      now,
	}
	if adminID != "" {
		task.CreatedBy = &adminID
	}
	return task, nil
}

// normalizeLabels lower-cases, trims and de-duplicates, keeping first-seen order.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func (s *taskService) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Storage(err, "failed to list tasks")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *taskService) SeedDemoTasks(ctx context.Context) (int, error) {
	created := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		total, err := s.taskRepo.Count(ctx)
		if err != nil {
			return err
		}
		if total > 0 {
			return nil
		}

		now := time.Now().UTC()
		for i := range demoTasks {
			// distinct timestamps keep the seeded order stable
			task, err := newTask("", &demoTasks[i], now.Add(time.Duration(i)*time.Millisecond))
			if err != nil {
				return err
			}
			if err := s.taskRepo.Create(ctx, task); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, apperror.Storage(err, "failed to seed demo tasks")
	}

	if created > 0 {
		s.logger.Info().Int("count", created).Msg("Demo eco tasks inserted")
	}
	return created, nil
}
