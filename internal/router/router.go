package router

import (
	"net/http"

	"medicine-catalog/internal/handler"
	"medicine-catalog/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	medicineHandler *handler.MedicineHandler,
	apiHandler *handler.MedicineAPIHandler,
	uploadHandler *handler.UploadHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Applied in order: Recovery -> RequestID -> Logging
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/medicines", http.StatusFound)
	})

	r.Route("/medicines", func(r chi.Router) {
		r.Get("/", medicineHandler.List)
		r.Post("/", medicineHandler.Create)
		r.Get("/new", medicineHandler.NewForm)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", medicineHandler.Show)
			r.Get("/edit", medicineHandler.EditForm)
			r.Post("/", medicineHandler.Update)
			r.Put("/", medicineHandler.Update)
			r.Delete("/", medicineHandler.Delete)
			r.Post("/delete", medicineHandler.Delete)
		})
	})

	r.Get("/uploads/{name}", uploadHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS)
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/medicines", apiHandler.List)
		r.Get("/medicines/{id}", apiHandler.GetByID)
	})

	return r
}
