package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store on a local directory.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a Store writing into dir, creating it if needed.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "local-upload-store").Logger()
	logger.Info().Str("dir", dir).Msg("local upload store initialised")

	return &localStore{dir: dir, logger: logger}, nil
}

// Save writes to a temporary file in the upload directory and renames it into
// place, so a failed copy never leaves a partial image under name.
func (s *localStore) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	if err := checkName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".staging-*")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create staging file")
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmpName)
		s.logger.Error().Err(err).Str("file", name).Msg("failed to write uploaded file")
		return fmt.Errorf("failed to write uploaded file %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		s.logger.Error().Err(err).Str("file", name).Msg("failed to move uploaded file into place")
		return fmt.Errorf("failed to store uploaded file %s: %w", name, err)
	}

	s.logger.Debug().Str("file", name).Int64("bytes", written).Msg("uploaded file stored")
	return nil
}

func (s *localStore) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if err := checkName(name); err != nil {
		return nil, "", ErrNotExist
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotExist
		}
		return nil, "", fmt.Errorf("failed to open stored file %s: %w", name, err)
	}

	return f, mime.TypeByExtension(filepath.Ext(name)), nil
}

func (s *localStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error().Err(err).Str("file", name).Msg("failed to delete stored file")
		return fmt.Errorf("failed to delete stored file %s: %w", name, err)
	}
	return nil
}
