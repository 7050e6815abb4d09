// Package memory provides in-process implementations of the repository interfaces.
// Transactions are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
)

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	accounts    map[string]*models.Account
	tasks       map[string]*models.Task
	submissions map[string]*models.Submission
	// insertion order, used for stable ordering
	accountOrder    []string
	taskOrder       []string
	submissionOrder []string
}

func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*models.Account),
		tasks:       make(map[string]*models.Task),
		submissions: make(map[string]*models.Submission),
	}
}

func (s *Store) Accounts() repository.AccountRepository {
	return &accountRepository{store: s}
}

func (s *Store) Tasks() repository.TaskRepository {
	return &taskRepository{store: s}
}

func (s *Store) Submissions() repository.SubmissionRepository {
	return &submissionRepository{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lockWrite serializes a write made outside a transaction with running
// transactions, so a rollback never restores over it.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type snapshot struct {
	accounts        map[string]*models.Account
	tasks           map[string]*models.Task
	submissions     map[string]*models.Submission
	accountOrder    []string
	taskOrder       []string
	submissionOrder []string
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		accounts:        make(map[string]*models.Account, len(s.accounts)),
		tasks:           make(map[string]*models.Task, len(s.tasks)),
		submissions:     make(map[string]*models.Submission, len(s.submissions)),
		accountOrder:    append([]string(nil), s.accountOrder...),
		taskOrder:       append([]string(nil), s.taskOrder...),
		submissionOrder: append([]string(nil), s.submissionOrder...),
	}
	for id, a := range s.accounts {
		snap.accounts[id] = cloneAccount(a)
	}
	for id, t := range s.tasks {
		snap.tasks[id] = cloneTask(t)
	}
	for id, sub := range s.submissions {
		snap.submissions[id] = cloneSubmission(sub)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snap.accounts
	s.tasks = snap.tasks
	s.submissions = snap.submissions
	s.accountOrder = snap.accountOrder
	s.taskOrder = snap.taskOrder
	s.submissionOrder = snap.submissionOrder
}

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateKey
		}
	}
	if _, ok := s.accounts[account.ID]; ok {
		return repository.ErrDuplicateKey
	}

	s.accounts[account.ID] = cloneAccount(account)
	s.accountOrder = append(s.accountOrder, account.ID)
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(a), nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (r *accountRepository) AddPoints(ctx context.Context, id string, delta int) (*models.Account, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	a.Points += delta
	a.UpdatedAt = time.Now().UTC()
	return cloneAccount(a), nil
}

func (r *accountRepository) UpdateBadges(ctx context.Context, id string, badges []string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accounts[id]; ok {
		a.Badges = append([]string{}, badges...)
		a.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *accountRepository) ListStudentsByPoints(ctx context.Context) ([]models.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var students []models.Account
	for _, id := range s.accountOrder {
		a := s.accounts[id]
		if a.Role == models.RoleStudent {
			students = append(students, *cloneAccount(a))
		}
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Points > students[j].Points
	})
	return students, nil
}

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return repository.ErrDuplicateKey
	}
	s.tasks[task.ID] = cloneTask(task)
	s.taskOrder = append(s.taskOrder, task.ID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return cloneTask(t), nil
}

func (r *taskRepository) ListActive(ctx context.Context) ([]models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []models.Task
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; t.IsActive {
			tasks = append(tasks, *cloneTask(t))
		}
	}
	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks), nil
}

type submissionRepository struct {
	store *Store
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[submission.ID]; ok {
		return repository.ErrDuplicateKey
	}
	s.submissions[submission.ID] = cloneSubmission(submission)
	s.submissionOrder = append(s.submissionOrder, submission.ID)
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, nil
	}
	return cloneSubmission(sub), nil
}

// GetByIDForUpdate relies on WithinTx serializing transactions.
func (r *submissionRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Submission, error) {
	return r.GetByID(ctx, id)
}

func (r *submissionRepository) UpdateReview(ctx context.Context, submission *models.Submission) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.submissions[submission.ID]
	if !ok {
		return nil
	}
	existing.Status = submission.Status
	existing.ReviewedBy = submission.ReviewedBy
	existing.ReviewedAt = submission.ReviewedAt
	existing.UpdatedAt = submission.UpdatedAt
	return nil
}

func (r *submissionRepository) ListWithDetails(ctx context.Context) ([]models.SubmissionWithDetails, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.SubmissionWithDetails
	for i := len(s.submissionOrder) - 1; i >= 0; i-- {
		sub := s.submissions[s.submissionOrder[i]]
		student, ok := s.accounts[sub.StudentID]
		if !ok {
			continue
		}
		task, ok := s.tasks[sub.TaskID]
		if !ok {
			continue
		}
		out = append(out, models.SubmissionWithDetails{
			Submission:   *cloneSubmission(sub),
			StudentName:  student.Name,
			StudentEmail: student.Email,
			TaskTitle:    task.Title,
			TaskPoints:   task.Points,
		})
	}
	return out, nil
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.Badges = append([]string{}, a.Badges...)
	return &c
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.ExpectedLabels = append([]string{}, t.ExpectedLabels...)
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.CreatedBy != nil {
		by := *t.CreatedBy
		c.CreatedBy = &by
	}
	return &c
}

func cloneSubmission(s *models.Submission) *models.Submission {
	c := *s
	c.Labels = append([]string{}, s.Labels...)
	if s.ReviewedBy != nil {
		by := *s.ReviewedBy
		c.ReviewedBy = &by
	}
	if s.ReviewedAt != nil {
		at := *s.ReviewedAt
		c.ReviewedAt = &at
	}
	return &c
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
