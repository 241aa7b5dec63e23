package handler

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"medicine-catalog/internal/model"
	"medicine-catalog/internal/service"
	"medicine-catalog/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// listPath is where browsers land after a successful write.
const listPath = "/medicines"

// MedicineHandler handles the browser-facing medicine pages.
type MedicineHandler struct {
	service        service.MedicineService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewMedicineHandler creates a new medicine handler. Request bodies of
// create and update are limited to maxUploadBytes.
func NewMedicineHandler(service service.MedicineService, maxUploadBytes int64, logger zerolog.Logger) *MedicineHandler {
	return &MedicineHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("handler", "medicine").Logger(),
	}
}

// List handles GET /medicines.
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)

	medicines, err := h.service.List(r.Context(), q)
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	manufacturers, err := h.service.Manufacturers(r.Context())
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	h.render(w, r, http.StatusOK, "index", listPage{
		Medicines:     medicines,
		Manufacturers: manufacturers,
		Query:         q,
	})
}

// NewForm handles GET /medicines/new.
func (h *MedicineHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "new", model.Medicine{})
}

// Create handles POST /medicines.
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, image, err := h.parseForm(w, r)
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}
	if image != nil {
		defer image.close()
	}

	if _, err := h.service.Create(r.Context(), in, image.file()); err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// Show handles GET /medicines/{id}.
func (h *MedicineHandler) Show(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	h.render(w, r, http.StatusOK, "show", medicine)
}

// EditForm handles GET /medicines/{id}/edit.
func (h *MedicineHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	h.render(w, r, http.StatusOK, "edit", medicine)
}

// Update handles POST and PUT /medicines/{id}.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, image, err := h.parseForm(w, r)
	if err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}
	if image != nil {
		defer image.close()
	}
	in.ExistingImageURL = r.FormValue("existingImageUrl")

	if _, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in, image.file()); err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// Delete handles DELETE /medicines/{id} and POST /medicines/{id}/delete.
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeTextError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *MedicineHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := render(w, status, name, data); err != nil {
		writeTextError(w, r, fmt.Errorf("failed to render %s: %w", name, err), h.logger)
	}
}

// parseListQuery reads the listing filters from the query string.
func parseListQuery(r *http.Request) model.ListQuery {
	v := r.URL.Query()
	return model.ListQuery{
		Search:         strings.TrimSpace(v.Get("search")),
		Manufacturer:   v.Get("manufacturer"),
		SortByName:     v.Get("sortByName"),
		SortByPrice:    v.Get("sortByPrice"),
		SortByQuantity: v.Get("sortByQuantity"),
		PriceRange:     v.Get("priceRange"),
		QuantityRange:  v.Get("quantityRange"),
	}
}

// formImage is an image part of a multipart form.
type formImage struct {
	f      multipart.File
	header *multipart.FileHeader
}

func (i *formImage) file() *upload.File {
	if i == nil {
		return nil
	}
	return &upload.File{
		Filename:    i.header.Filename,
		ContentType: i.header.Header.Get("Content-Type"),
		Size:        i.header.Size,
		Content:     i.f,
	}
}

func (i *formImage) close() {
	i.f.Close()
}

// parseForm reads the medicine fields and the optional image from a
// multipart or urlencoded body.
func (h *MedicineHandler) parseForm(w http.ResponseWriter, r *http.Request) (model.MedicineInput, *formImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.MedicineInput{}, nil, model.NewDomainError(model.ErrCodeInvalidMedicine, "Upload is too large")
		}
		return model.MedicineInput{}, nil, model.NewDomainError(model.ErrCodeInvalidMedicine, "Malformed form data")
	}

	in, err := parseInput(r)
	if err != nil {
		return model.MedicineInput{}, nil, err
	}

	f, header, err := r.FormFile(upload.FieldName)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil, nil
	case err != nil:
		return model.MedicineInput{}, nil, model.NewDomainError(model.ErrCodeInvalidMedicine, "Malformed image upload")
	}

	// Browsers send an empty part when no file was chosen.
	if header.Filename == "" && header.Size == 0 {
		f.Close()
		return in, nil, nil
	}

	return in, &formImage{f: f, header: header}, nil
}

// parseInput reads the medicine fields. Empty numbers mean zero, an empty
// discount price means none.
func parseInput(r *http.Request) (model.MedicineInput, error) {
	in := model.MedicineInput{
		Name:         strings.TrimSpace(r.FormValue("name")),
		Manufacturer: strings.TrimSpace(r.FormValue("manufacturer")),
	}

	var err error
	if in.Price, err = parseFloat(r.FormValue("price")); err != nil {
		return in, model.NewDomainError(model.ErrCodeInvalidMedicine, "Price must be a number")
	}

	if raw := strings.TrimSpace(r.FormValue("discountPrice")); raw != "" {
		discount, err := parseFloat(raw)
		if err != nil {
			return in, model.NewDomainError(model.ErrCodeInvalidMedicine, "Discount price must be a number")
		}
		in.DiscountPrice = &discount
	}

	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		if in.Quantity, err = strconv.Atoi(raw); err != nil {
			return in, model.NewDomainError(model.ErrCodeInvalidMedicine, "Quantity must be a whole number")
		}
	}

	return in, nil
}

func parseFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}
