package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository/memory"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/evaluator"
)

type fakeLabeler struct {
	mu     sync.Mutex
	labels []models.DetectedLabel
	err    error
	calls  int
}

func (f *fakeLabeler) DetectLabels(ctx context.Context, imageURL string, content []byte) ([]models.DetectedLabel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.DetectedLabel(nil), f.labels...), nil
}

func (f *fakeLabeler) set(labels ...models.DetectedLabel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = labels
}

type recordingPublisher struct {
	mu        sync.Mutex
	evaluated []models.SubmissionEvaluatedEvent
	reviewed  []models.SubmissionReviewedEvent
	err       error
}

func (p *recordingPublisher) PublishSubmissionEvaluated(ctx context.Context, event *models.SubmissionEvaluatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.evaluated = append(p.evaluated, *event)
	return nil
}

func (p *recordingPublisher) PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.reviewed = append(p.reviewed, *event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// failingAccounts fails AddPoints so a credit aborts the surrounding transaction.
type failingAccounts struct {
	repository.AccountRepository
}

func (f failingAccounts) AddPoints(ctx context.Context, id string, delta int) (*models.Account, error) {
	return nil, errors.New("disk full")
}

// uuidTasks and uuidSubmissions reject non-UUID ids the way a UUID column does.
type uuidTasks struct {
	repository.TaskRepository
}

func (r uuidTasks) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New("invalid input syntax for type uuid")
	}
	return r.TaskRepository.GetByID(ctx, id)
}

type uuidSubmissions struct {
	repository.SubmissionRepository
}

func (r uuidSubmissions) GetByIDForUpdate(ctx context.Context, id string) (*models.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New("invalid input syntax for type uuid")
	}
	return r.SubmissionRepository.GetByIDForUpdate(ctx, id)
}

type testEnv struct {
	store       *memory.Store
	blobs       *memory.BlobStore
	labeler     *fakeLabeler
	publisher   *recordingPublisher
	tokens      auth.TokenManager
	ledger      LedgerService
	accounts    AccountService
	tasks       TaskService
	submissions SubmissionService
	leaderboard LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	store := memory.NewStore()
	env := &testEnv{
		store:     store,
		blobs:     memory.NewBlobStore("/uploads"),
		labeler:   &fakeLabeler{},
		publisher: &recordingPublisher{},
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
	}

	env.ledger = NewLedgerService(store, store.Accounts(), logger)
	env.accounts = NewAccountService(store.Accounts(), env.tokens, logger)
	env.tasks = NewTaskService(store, store.Tasks(), logger)
	env.submissions = env.newSubmissionService(store.Submissions(), store.Accounts())
	env.leaderboard = NewLeaderboardService(store.Accounts(), logger)

	return env
}

func (e *testEnv) newSubmissionService(submissions repository.SubmissionRepository, accounts repository.AccountRepository) SubmissionService {
	logger := zerolog.Nop()
	return NewSubmissionService(
		e.store,
		submissions,
		e.store.Tasks(),
		accounts,
		e.blobs,
		NewLedgerService(e.store, accounts, logger),
		evaluator.NewEvaluator(logger),
		e.labeler,
		e.publisher,
		logger,
	)
}

// newUUIDCheckedSubmissionService reads tasks and submissions through uuidTasks and uuidSubmissions.
func (e *testEnv) newUUIDCheckedSubmissionService() SubmissionService {
	logger := zerolog.Nop()
	return NewSubmissionService(
		e.store,
		uuidSubmissions{e.store.Submissions()},
		uuidTasks{e.store.Tasks()},
		e.store.Accounts(),
		e.blobs,
		e.ledger,
		evaluator.NewEvaluator(logger),
		e.labeler,
		e.publisher,
		logger,
	)
}

func (e *testEnv) addAccount(t *testing.T, name string, role models.Role, points int) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     name + "@campus.edu",
		Role:      role,
		Points:    points,
		Badges:    []string{},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.store.Accounts().Create(context.Background(), account))
	return account
}

func (e *testEnv) addTask(t *testing.T, points int, labels ...string) *models.Task {
	t.Helper()

	task, err := e.tasks.CreateTask(context.Background(), "", &models.CreateTaskRequest{
		Title:          "Eco task",
		Points:         points,
		ExpectedLabels: labels,
	})
	require.NoError(t, err)
	return task
}

func (e *testEnv) points(t *testing.T, accountID string) int {
	t.Helper()

	account, err := e.store.Accounts().GetByID(context.Background(), accountID)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.Points
}

func photo() *models.UploadImage {
	return &models.UploadImage{FileName: "proof.jpg", Content: []byte("jpeg-bytes")}
}

var (
	treeScene = []models.DetectedLabel{
		{Label: "tree", Confidence: 0.90},
		{Label: "plant", Confidence: 0.82},
		{Label: "environment", Confidence: 0.75},
	}
	carScene = []models.DetectedLabel{
		{Label: "car", Confidence: 0.95},
	}
)
