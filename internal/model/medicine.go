package model

import (
	"time"

	"github.com/google/uuid"
)

// Medicine represents a medicine inventory record.
type Medicine struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty" db:"discount_price"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Manufacturer  string    `json:"manufacturer" db:"manufacturer"`
	ImageURL      string    `json:"imageUrl" db:"image_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// MedicineInput carries the editable fields submitted by the create and edit forms.
type MedicineInput struct {
	Name          string
	Price         float64
	DiscountPrice *float64
	Quantity      int
	Manufacturer  string

	// ExistingImageURL is the image the caller wants to keep when no new file
	// is uploaded on update. Empty clears the image.
	ExistingImageURL string
}

// Validate checks the input fields.
func (in MedicineInput) Validate() error {
	switch {
	case in.Name == "":
		return NewDomainError(ErrCodeInvalidMedicine, "Name is required")
	case in.Price < 0:
		return NewDomainError(ErrCodeInvalidMedicine, "Price must not be negative")
	case in.DiscountPrice != nil && *in.DiscountPrice < 0:
		return NewDomainError(ErrCodeInvalidMedicine, "Discount price must not be negative")
	case in.Quantity < 0:
		return NewDomainError(ErrCodeInvalidMedicine, "Quantity must not be negative")
	}
	return nil
}

// Apply copies the input fields onto m. ImageURL is left to the caller.
func (in MedicineInput) Apply(m *Medicine) {
	m.Name = in.Name
	m.Price = in.Price
	m.DiscountPrice = in.DiscountPrice
	m.Quantity = in.Quantity
	m.Manufacturer = in.Manufacturer
}
