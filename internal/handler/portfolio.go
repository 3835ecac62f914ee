package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/repository"
	"github.com/devfolio/devfolio-go/internal/service"
)

// CollectionHandler serves HTTP for one portfolio entity type. The same
// implementation is mounted five times, once per collection descriptor.
type CollectionHandler struct {
	service    *service.CollectionService
	col        model.Collection
	production bool
}

// NewCollectionHandler creates a CollectionHandler.
func NewCollectionHandler(svc *service.CollectionService, production bool) *CollectionHandler {
	return &CollectionHandler{
		service:    svc,
		col:        svc.Collection(),
		production: production,
	}
}

// Routes mounts the standard CRUD surface. Reads are public; writes pass
// through the supplied auth middleware chain.
func (h *CollectionHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(r chi.Router) {
		for _, mw := range protect {
			r.Use(mw)
		}
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}

// HandleList handles GET /api/{collection} requests, with an optional
// boolean filter query parameter (?published= or ?featured=) where the
// descriptor defines one.
func (h *CollectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter *bool
	if h.col.FilterField != "" {
		if v := r.URL.Query().Get(h.col.FilterField); v != "" {
			b := v == "true"
			filter = &b
		}
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, fmt.Sprintf("Failed to fetch %s", h.col.Name), err)
		return
	}

	writeSuccess(w, http.StatusOK, fmt.Sprintf("%s list retrieved successfully", h.col.Singular), items)
}

// HandleGet handles GET /api/{collection}/{id} requests.
func (h *CollectionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, h.col.Singular+" not found")
			return
		}
		h.internalError(w, fmt.Sprintf("Failed to fetch %s", h.col.Singular), err)
		return
	}

	writeSuccess(w, http.StatusOK, h.col.Singular+" retrieved successfully", item)
}

// HandleCreate handles POST /api/{collection} requests.
func (h *CollectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), fields)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.internalError(w, fmt.Sprintf("Failed to create %s", h.col.Singular), err)
		return
	}

	writeSuccess(w, http.StatusCreated, h.col.Singular+" created successfully", item)
}

// HandleUpdate handles PUT /api/{collection}/{id} requests.
func (h *CollectionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		case errors.Is(err, repository.ErrDocumentNotFound):
			writeError(w, http.StatusNotFound, h.col.Singular+" not found")
		default:
			h.internalError(w, fmt.Sprintf("Failed to update %s", h.col.Singular), err)
		}
		return
	}

	writeSuccess(w, http.StatusOK, h.col.Singular+" updated successfully", item)
}

// HandleDelete handles DELETE /api/{collection}/{id} requests.
func (h *CollectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, h.col.Singular+" not found")
			return
		}
		h.internalError(w, fmt.Sprintf("Failed to delete %s", h.col.Singular), err)
		return
	}

	writeSuccess(w, http.StatusOK, h.col.Singular+" deleted successfully", nil)
}

func (h *CollectionHandler) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB, blog content can be large

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return fields, true
}

func (h *CollectionHandler) internalError(w http.ResponseWriter, message string, err error) {
	if h.production {
		writeError(w, http.StatusInternalServerError, message)
		return
	}
	writeErrorDetail(w, http.StatusInternalServerError, message, err.Error())
}
