package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ketsia/linklet/internal/apperror"
)

// FileStore keeps one pretty-printed JSON document per collection under a
// data directory: collection "users" lives in <dir>/users.json.
//
// Failure policy:
//   - Load on a missing document initializes it to an empty collection.
//   - Load on an unreadable or corrupt document logs a warning and yields an
//     empty collection. The caller proceeds as if the store were fresh.
//   - Persist failures are returned as apperror.ErrStorage. Callers log them
//     and carry on with their in-memory state; the next successful persist
//     re-converges memory and disk.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named collection into v. Missing documents are created as
// empty collections; corrupt documents are logged and treated as empty.
func (s *FileStore) Load(name string, v any) error {
	path := s.path(name)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// First run for this collection: initialize the backing document so
		// later reads and external inspection see a valid empty array.
		if writeErr := os.WriteFile(path, []byte("[]"), 0o644); writeErr != nil {
			s.logger.Warn("could not initialize collection document",
				slog.String("collection", name),
				slog.String("error", writeErr.Error()),
			)
		}
		return nil
	}
	if err != nil {
		s.logger.Warn("could not read collection document, treating as empty",
			slog.String("collection", name),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("could not parse collection document, treating as empty",
			slog.String("collection", name),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return nil
}

// Persist overwrites the named collection document with v. The document is
// written to a temp file and renamed into place so a crash mid-write never
// leaves a truncated collection behind.
func (s *FileStore) Persist(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperror.Storage("persist "+name, err)
	}

	path := s.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperror.Storage("persist "+name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperror.Storage("persist "+name, err)
	}

	return nil
}
