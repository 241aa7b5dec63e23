package repository

import (
	"context"

	"medicine-catalog/internal/model"

	"github.com/google/uuid"
)

// MedicineRepository defines the interface for medicine data access operations.
type MedicineRepository interface {
	// List retrieves medicines matching the query filters in the query sort order.
	List(ctx context.Context, q model.ListQuery) ([]model.Medicine, error)

	// GetByID retrieves a single medicine by its ID.
	// Returns nil without error when the medicine does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error)

	// Create inserts a new medicine, assigning its ID and timestamps.
	Create(ctx context.Context, m *model.Medicine) error

	// Update overwrites the stored medicine with m.
	// Returns model.ErrMedicineNotFound when no row has m.ID.
	Update(ctx context.Context, m *model.Medicine) error

	// Delete removes the medicine with id.
	// Returns model.ErrMedicineNotFound when no row has id.
	Delete(ctx context.Context, id uuid.UUID) error

	// Manufacturers returns the distinct non-empty manufacturers in name order.
	Manufacturers(ctx context.Context) ([]string, error)
}
