package httpd

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

const imageField = "image"

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	taskID := chi.URLParam(r, "taskID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, apperror.KindValidation, "Image is too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, apperror.KindValidation, "Failed to parse form data", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var image *models.UploadImage
	file, header, err := r.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// the service reports the missing image
	case err != nil:
		writeError(w, http.StatusBadRequest, apperror.KindValidation, "Failed to read image", nil)
		return
	default:
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, apperror.KindValidation, "Failed to read image", nil)
			return
		}
		image = &models.UploadImage{FileName: header.Filename, Content: content}
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), identity.AccountID, taskID, image)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, submission)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	response, err := h.submissionService.ListSubmissions(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())
	submissionID := chi.URLParam(r, "id")

	var req models.ReviewSubmissionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	submission, err := h.submissionService.ReviewSubmission(r.Context(), identity.AccountID, submissionID, models.SubmissionStatus(req.Status))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}
