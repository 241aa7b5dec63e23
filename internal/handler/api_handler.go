package handler

import (
	"net/http"

	"medicine-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MedicineAPIHandler serves read-only JSON views of the catalog.
type MedicineAPIHandler struct {
	service service.MedicineService
	logger  zerolog.Logger
}

// NewMedicineAPIHandler creates a new JSON medicine handler.
func NewMedicineAPIHandler(service service.MedicineService, logger zerolog.Logger) *MedicineAPIHandler {
	return &MedicineAPIHandler{
		service: service,
		logger:  logger.With().Str("handler", "medicine-api").Logger(),
	}
}

// List handles GET /api/medicines. It accepts the same filters as the listing page.
func (h *MedicineAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.service.List(r.Context(), parseListQuery(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, medicines)
}

// GetByID handles GET /api/medicines/{id}.
func (h *MedicineAPIHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, medicine)
}
