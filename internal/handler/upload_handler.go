package handler

import (
	"errors"
	"io"
	"net/http"

	"medicine-catalog/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// UploadHandler serves stored medicine images.
type UploadHandler struct {
	store  upload.Store
	logger zerolog.Logger
}

// NewUploadHandler creates a handler reading images from store.
func NewUploadHandler(store upload.Store, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		logger: logger.With().Str("handler", "upload").Logger(),
	}
}

// Serve handles GET /uploads/{name}.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rc, contentType, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, upload.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error().Err(err).Str("file", name).Msg("failed to open stored image")
		http.Error(w, serverErrorMessage, http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn().Err(err).Str("file", name).Msg("failed to stream stored image")
	}
}
