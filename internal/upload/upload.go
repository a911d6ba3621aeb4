// Package upload stores media files posted through multipart forms and
// hands back stable public URLs.
//
// The upload directory is a plain blob store addressed by URL; writing a
// blob is deliberately outside the post/user persist boundary. If the blob
// lands but the record persist fails, the blob is simply orphaned — nobody
// references it and nothing breaks.
package upload

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/ketsia/linklet/internal/apperror"
)

// MaxFileSize caps a single upload at 10 MiB.
const MaxFileSize = 10 << 20

// PublicPrefix is the URL prefix the router serves the upload directory
// under.
const PublicPrefix = "/uploads/"

// Saver writes multipart file parts into a directory on disk.
type Saver struct {
	dir    string
	logger *slog.Logger
}

// NewSaver creates a Saver rooted at dir, creating the directory if needed.
func NewSaver(dir string, logger *slog.Logger) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating upload directory %s: %w", dir, err)
	}
	return &Saver{dir: dir, logger: logger}, nil
}

// Dir returns the directory the saver writes into, for the static file
// route.
func (s *Saver) Dir() string {
	return s.dir
}

// Save writes the file part to disk under a fresh xid-based name that keeps
// the original extension, and returns the public URL of the blob.
//
// The client-supplied filename is only mined for its extension — never used
// as a path component, so uploads can't escape the directory or collide.
func (s *Saver) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxFileSize {
		return "", apperror.ValidationFailed("media", "file exceeds the 10 MiB upload limit")
	}

	name := xid.New().String() + safeExt(header.Filename)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", apperror.Storage("saving upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxFileSize)); err != nil {
		os.Remove(path)
		return "", apperror.Storage("saving upload", err)
	}

	s.logger.Info("media uploaded",
		slog.String("file", name),
		slog.Int64("size", header.Size),
	)

	return PublicPrefix + name, nil
}

// safeExt returns a lowercase extension from the client filename, or "" if
// it doesn't look like one.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
