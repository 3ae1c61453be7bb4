package service

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-render/internal/fileutil"
)

// ErrArtifactNotFound is returned for unknown or malformed artifact names.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifacts stores rendered files served by reference.
type Artifacts interface {
	// Put stores body and returns its public name, "<uuid>.<ext>".
	Put(ext string, body []byte) (string, error)
	// Get returns the body and content type stored under name.
	Get(name string) ([]byte, string, error)
}

// DirStore keeps artifacts as files in one directory.
type DirStore struct {
	dir string
}

var _ Artifacts = (*DirStore)(nil)

// NewDirStore returns a store rooted at dir, creating it when missing.
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, errors.New("artifacts directory is empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Put(ext string, body []byte) (string, error) {
	if err := fileutil.ValidateExtension(ext); err != nil {
		return "", err
	}
	name := uuid.NewString() + "." + ext
	if err := fileutil.WriteFileAtomic(filepath.Join(s.dir, name), body, 0o640); err != nil {
		return "", fmt.Errorf("storing artifact: %w", err)
	}
	return name, nil
}

func (s *DirStore) Get(name string) ([]byte, string, error) {
	id, ext, ok := strings.Cut(name, ".")
	if !ok || fileutil.ValidateExtension(ext) != nil {
		return nil, "", ErrArtifactNotFound
	}
	// Only names this store minted are served; this also rules out paths.
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", ErrArtifactNotFound
	}
	body, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- name is a validated uuid
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrArtifactNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return body, contentTypeFor(ext), nil
}

func contentTypeFor(ext string) string {
	if ext == "html" {
		return "text/html; charset=utf-8"
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
