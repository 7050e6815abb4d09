package httpd

import (
	"net/http"
)

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	response, err := h.leaderboardService.Leaderboard(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}
