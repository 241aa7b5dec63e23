package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidImageType = "INVALID_IMAGE_TYPE"
	ErrCodeInvalidMedicine  = "INVALID_MEDICINE"
	ErrCodeMedicineNotFound = "MEDICINE_NOT_FOUND"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// IsValidation reports whether the error rejects client input.
func (e *DomainError) IsValidation() bool {
	return e.Code == ErrCodeInvalidImageType || e.Code == ErrCodeInvalidMedicine
}

// Common domain errors
var (
	ErrInvalidImageType = NewDomainError(ErrCodeInvalidImageType, "Images only: jpeg, jpg or png")
	ErrMedicineNotFound = NewDomainError(ErrCodeMedicineNotFound, "Medicine not found")
	ErrImageURLMismatch = NewDomainError(ErrCodeInvalidMedicine, "Existing image does not belong to this medicine")
)
