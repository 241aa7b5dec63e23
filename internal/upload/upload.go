// Package upload validates, names and stores medicine images.
package upload

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"medicine-catalog/internal/model"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/"

// FieldName is the multipart form field carrying the image.
const FieldName = "imageUrl"

var (
	allowedExtensions = map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	allowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
)

// File is an uploaded image as received from the client.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Validate accepts only files whose extension and declared content type are
// both jpeg, jpg or png.
func Validate(f *File) error {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	contentType := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	if !allowedExtensions[ext] || !allowedContentTypes[contentType] {
		return model.ErrInvalidImageType
	}
	return nil
}

// NewFilename returns a stored name for original: a millisecond timestamp
// and a random UUID, keeping the lower-cased extension.
func NewFilename(original string, now time.Time) string {
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(original)))
}

// PublicURL maps a stored name to its public URL.
func PublicURL(name string) string {
	return PublicPrefix + name
}

// NameFromURL maps a public URL back to its stored name. It reports false
// for URLs outside PublicPrefix or names that are not a single path element.
func NameFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, PublicPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, PublicPrefix)
	if err := checkName(name); err != nil {
		return "", false
	}
	return name, true
}

// checkName accepts a single path element. Dot-prefixed names are reserved
// for staging files and never served.
func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid stored file name %q", name)
	}
	return nil
}
