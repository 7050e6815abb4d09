package httpd

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository/memory"
	"github.com/Amish929/Eco-Gamify-Project/internal/service"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/evaluator"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/integration"
	"github.com/Amish929/Eco-Gamify-Project/internal/validation"
)

const testUploadLimit = 1 << 10

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Kind    string            `json:"kind"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type testServer struct {
	router http.Handler
	store  *memory.Store
	tasks  service.TaskService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	store := memory.NewStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	ledger := service.NewLedgerService(store, store.Accounts(), logger)
	tasks := service.NewTaskService(store, store.Tasks(), logger)
	submissions := service.NewSubmissionService(
		store,
		store.Submissions(),
		store.Tasks(),
		store.Accounts(),
		memory.NewBlobStore("/uploads"),
		ledger,
		evaluator.NewEvaluator(logger),
		integration.NewStubLabeler(),
		integration.NewNoopPublisher(),
		logger,
	)

	h := NewHandler(
		service.NewAccountService(store.Accounts(), tokens, logger),
		tasks,
		submissions,
		service.NewLeaderboardService(store.Accounts(), logger),
		tokens,
		validation.New(),
		store,
		testUploadLimit,
		logger,
	)

	router := chi.NewRouter()
	router.Use(Recovery(logger))
	h.RegisterRoutes(router)

	return &testServer{router: router, store: store, tasks: tasks}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.serve(t, req)
}

func (s *testServer) upload(t *testing.T, path, token, fileName string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := writer.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no image"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) login(t *testing.T, name, role string) string {
	t.Helper()

	email := name + "@campus.edu"
	rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Name: name, Email: email, Password: "secret123", Role: role,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: email, Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	return login.Token
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Name: "Riya", Email: "riya@campus.edu", Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "riya@campus.edu", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleStudent, login.Role)
	assert.Equal(t, "Riya", login.Name)
}

func TestRegisterErrors(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t, "riya", "")

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Name: "Riya", Email: "riya@campus.edu", Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", env.Error.Kind)
	assert.False(t, env.Success)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Name: "R", Email: "bad", Password: "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Kind)
	assert.Contains(t, env.Error.Fields, "email")
	assert.Contains(t, env.Error.Fields, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString("{not json"))
	rec, env = srv.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Error.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t, "riya", "")

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "riya@campus.edu", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Kind)
}

func TestMeReturnsOwnAccount(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "riya", "")

	rec, env := srv.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var account models.Account
	require.NoError(t, json.Unmarshal(env.Data, &account))
	assert.Equal(t, "riya@campus.edu", account.Email)
	assert.Equal(t, models.RoleStudent, account.Role)
	assert.Equal(t, 0, account.Points)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t)
	student := srv.login(t, "riya", "student")

	rec, env := srv.do(t, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", env.Error.Message)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/tasks", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/tasks", student, models.CreateTaskRequest{
		Title: "Plant", Points: 10, ExpectedLabels: []string{"tree"},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", env.Error.Kind)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/submissions", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskEndpoints(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login(t, "dean", "admin")
	student := srv.login(t, "riya", "student")

	rec, env := srv.do(t, http.MethodPost, "/api/v1/tasks", admin, models.CreateTaskRequest{
		Title: "Plant a Sapling", Points: 20, ExpectedLabels: []string{"Tree", "plant"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, []string{"tree", "plant"}, task.ExpectedLabels)
	require.NotNil(t, task.CreatedBy)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/tasks", admin, models.CreateTaskRequest{Title: "Nope", Points: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Fields, "points")
	assert.Contains(t, env.Error.Fields, "expected_labels")

	rec, env = srv.do(t, http.MethodGet, "/api/v1/tasks", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Tasks []models.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Equal(t, 1, listed.Total)
	assert.Equal(t, task.ID, listed.Tasks[0].ID)
}

func TestSubmissionFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login(t, "dean", "admin")
	student := srv.login(t, "riya", "student")

	_, err := srv.tasks.SeedDemoTasks(context.Background())
	require.NoError(t, err)
	tasks, err := srv.tasks.ListActiveTasks(context.Background())
	require.NoError(t, err)
	sapling, cleanup := tasks[0], tasks[1]

	// the stub labeler sees tree/plant/environment: sapling matches, cleanup does not
	rec, env := srv.upload(t, "/api/v1/submissions/"+sapling.ID, student, "proof.jpg", []byte("jpeg"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var approved models.Submission
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, models.SubmissionStatusApproved, approved.Status)
	assert.Equal(t, 86, approved.AIScore)

	rec, env = srv.upload(t, "/api/v1/submissions/"+cleanup.ID, student, "bin.png", []byte("png"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var pending models.Submission
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	assert.Equal(t, models.SubmissionStatusPending, pending.Status)
	assert.Equal(t, 0, pending.AIScore)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/submissions", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed models.SubmissionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Equal(t, 2, listed.Total)
	assert.Equal(t, "riya", listed.Submissions[0].StudentName)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/submissions/"+pending.ID, admin, models.ReviewSubmissionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	var reviewed models.Submission
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, models.SubmissionStatusApproved, reviewed.Status)

	rec, _ = srv.do(t, http.MethodPatch, "/api/v1/submissions/"+pending.ID, admin, models.ReviewSubmissionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/leaderboard", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var board models.LeaderboardResponse
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Equal(t, 1, board.Total)
	assert.Equal(t, "riya", board.Leaderboard[0].Name)
	assert.Equal(t, 1, board.Leaderboard[0].Rank)
	assert.Equal(t, sapling.Points+cleanup.Points, board.Leaderboard[0].Points)
}

func TestSubmissionErrors(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.login(t, "dean", "admin")
	student := srv.login(t, "riya", "student")

	_, err := srv.tasks.SeedDemoTasks(context.Background())
	require.NoError(t, err)
	tasks, err := srv.tasks.ListActiveTasks(context.Background())
	require.NoError(t, err)
	taskPath := "/api/v1/submissions/" + tasks[0].ID

	rec, env := srv.upload(t, taskPath, student, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "image is required", env.Error.Message)

	rec, _ = srv.upload(t, taskPath, student, "notes.txt", []byte("text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.upload(t, "/api/v1/submissions/missing", student, "proof.jpg", []byte("jpeg"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = srv.upload(t, taskPath, student, "huge.jpg", bytes.Repeat([]byte("x"), 4*testUploadLimit))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec, _ = srv.upload(t, taskPath, admin, "proof.jpg", []byte("jpeg"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/submissions/missing", admin, models.ReviewSubmissionRequest{Status: "approved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "submission not found", env.Error.Message)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/submissions/missing", admin, models.ReviewSubmissionRequest{Status: "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Fields, "status")
}

func TestRecoveryReturnsJSON(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recovery(zerolog.Nop()))
	router.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"internal_error"`)
}
