package httpd

import (
	"net/http"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req models.CreateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), identity.AccountID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, task)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListActiveTasks(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}
