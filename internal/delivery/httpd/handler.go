package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
	"github.com/Amish929/Eco-Gamify-Project/internal/service"
	"github.com/Amish929/Eco-Gamify-Project/internal/validation"
)

// Pinger reports whether the durable store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	accountService     service.AccountService
	taskService        service.TaskService
	submissionService  service.SubmissionService
	leaderboardService service.LeaderboardService
	tokens             auth.TokenManager
	validator          *validation.Validator
	db                 Pinger
	maxUploadSize      int64
	logger             zerolog.Logger
}

func NewHandler(
	accountService service.AccountService,
	taskService service.TaskService,
	submissionService service.SubmissionService,
	leaderboardService service.LeaderboardService,
	tokens auth.TokenManager,
	validator *validation.Validator,
	db Pinger,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		accountService:     accountService,
		taskService:        taskService,
		submissionService:  submissionService,
		leaderboardService: leaderboardService,
		tokens:             tokens,
		validator:          validator,
		db:                 db,
		maxUploadSize:      maxUploadSize,
		logger:             logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		api.Group(func(r chi.Router) {
			r.Use(Authenticate(h.tokens))

			r.Get("/me", h.Me)
			r.Get("/tasks", h.ListTasks)
			r.With(RequireRole(models.RoleAdmin)).Post("/tasks", h.CreateTask)

			r.With(RequireRole(models.RoleStudent)).Post("/submissions/{taskID}", h.CreateSubmission)
			r.With(RequireRole(models.RoleAdmin)).Get("/submissions", h.ListSubmissions)
			r.With(RequireRole(models.RoleAdmin)).Patch("/submissions/{id}", h.ReviewSubmission)

			r.Get("/leaderboard", h.Leaderboard)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "eco-gamify",
		"timestamp": time.Now().UTC(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database health check failed")
			status = http.StatusServiceUnavailable
			response["status"] = "unhealthy"
		}
	}

	writeJSON(w, status, response)
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, apperror.KindValidation, "Invalid request body", nil)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.handleServiceError(w, err)
		return false
	}
	return true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)

	switch kind {
	case apperror.KindNotFound:
		writeError(w, http.StatusNotFound, kind, apperror.MessageOf(err), nil)
	case apperror.KindConflict:
		writeError(w, http.StatusConflict, kind, apperror.MessageOf(err), nil)
	case apperror.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, kind, apperror.MessageOf(err), nil)
	case apperror.KindForbidden:
		writeError(w, http.StatusForbidden, kind, apperror.MessageOf(err), nil)
	case apperror.KindValidation:
		writeError(w, http.StatusBadRequest, kind, apperror.MessageOf(err), apperror.FieldsOf(err))
	default:
		h.logger.Error().Err(err).Str("kind", string(kind)).Msg("Service error")
		writeError(w, http.StatusInternalServerError, kind, "Internal server error", nil)
	}
}

type errorBody struct {
	Kind    apperror.Kind     `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, kind apperror.Kind, message string, fields map[string]string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": errorBody{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		},
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeData(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeData(w, http.StatusCreated, data)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
