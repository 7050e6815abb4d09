package httpd

import (
	"net/http"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.accountService.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, response)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.accountService.Authenticate(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

// Me returns the caller's own account with points and badges.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	account, err := h.accountService.GetAccount(r.Context(), identity.AccountID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, account)
}
