package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/service"
)

const maxUploadSize = 10 << 20 // 10MB

// MediaHandler handles image upload and deletion, proxied to the object
// store.
type MediaHandler struct {
	service    *service.MediaService
	production bool
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(svc *service.MediaService, production bool) *MediaHandler {
	return &MediaHandler{service: svc, production: production}
}

// HandleUpload handles POST /api/upload requests: multipart form with an
// "image" file field and an optional "folder" field.
func (h *MediaHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	result, err := h.service.Upload(r.Context(), content, r.FormValue("folder"))
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.internalError(w, "Failed to upload image", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Image uploaded successfully", result)
}

// HandleDelete handles DELETE /api/upload requests with a JSON body
// carrying the publicId to remove.
func (h *MediaHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.DeleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Delete(r.Context(), req.PublicID); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.internalError(w, "Failed to delete image", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Image deleted successfully", nil)
}

func (h *MediaHandler) internalError(w http.ResponseWriter, message string, err error) {
	if h.production {
		writeError(w, http.StatusInternalServerError, message)
		return
	}
	writeErrorDetail(w, http.StatusInternalServerError, message, err.Error())
}
