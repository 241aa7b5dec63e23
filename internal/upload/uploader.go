package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Uploader validates and stores images, mapping them to public URLs.
type Uploader interface {
	// Put validates f, stores it under a fresh name and returns its public URL.
	// Invalid files return model.ErrInvalidImageType and nothing is stored.
	Put(ctx context.Context, f *File) (string, error)

	// Remove deletes the image behind a public URL. Empty or foreign URLs are ignored.
	Remove(ctx context.Context, url string) error
}

type uploader struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// NewUploader creates an Uploader on store.
func NewUploader(store Store, logger zerolog.Logger) Uploader {
	return &uploader{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "uploader").Logger(),
	}
}

func (u *uploader) Put(ctx context.Context, f *File) (string, error) {
	if err := Validate(f); err != nil {
		u.logger.Warn().
			Str("filename", f.Filename).
			Str("content_type", f.ContentType).
			Msg("rejected upload")
		return "", err
	}

	name := NewFilename(f.Filename, u.now())
	if err := u.store.Save(ctx, name, f.ContentType, f.Content); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	u.logger.Info().
		Str("filename", f.Filename).
		Str("stored_as", name).
		Int64("size", f.Size).
		Msg("image stored")

	return PublicURL(name), nil
}

func (u *uploader) Remove(ctx context.Context, url string) error {
	name, ok := NameFromURL(url)
	if !ok {
		if url != "" {
			u.logger.Warn().Str("url", url).Msg("not removing image outside upload path")
		}
		return nil
	}

	if err := u.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}

	u.logger.Debug().Str("stored_as", name).Msg("image removed")
	return nil
}
