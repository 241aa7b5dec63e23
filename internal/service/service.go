package service

import (
	"context"

	"medicine-catalog/internal/model"
	"medicine-catalog/internal/upload"
)

// MedicineService defines operations for the medicine catalog.
type MedicineService interface {
	// List retrieves medicines matching q, served from the listing cache when possible.
	List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error)

	// GetByID retrieves a single medicine by ID.
	GetByID(ctx context.Context, id string) (*model.Medicine, error)

	// Create stores a new medicine with an optional image.
	Create(ctx context.Context, in model.MedicineInput, image *upload.File) (*model.Medicine, error)

	// Update overwrites a medicine, optionally replacing its image.
	Update(ctx context.Context, id string, in model.MedicineInput, image *upload.File) (*model.Medicine, error)

	// Delete removes a medicine and its image.
	Delete(ctx context.Context, id string) error

	// Manufacturers returns the distinct manufacturers for the listing filter.
	Manufacturers(ctx context.Context) ([]string, error)
}
