package upload

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Store.Open for unknown names.
var ErrNotExist = errors.New("stored file does not exist")

// Store persists uploaded images by name.
type Store interface {
	// Save writes r under name.
	Save(ctx context.Context, name, contentType string, r io.Reader) error

	// Open returns the content and content type stored under name.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)

	// Delete removes name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}
