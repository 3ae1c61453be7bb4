// Package fileutil provides file, URL and temp file helpers.
package fileutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// TempPattern is the name pattern prefix of every temp file created here.
const TempPattern = "go-render-*"

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content []byte, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", TempPattern+"."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// TempReader writes content to a temp file and returns it opened for reading.
// Closing the reader removes the file.
func TempReader(content []byte, extension string) (io.ReadCloser, error) {
	path, cleanup, err := WriteTempFile(content, extension)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 -- path created above
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening temp file: %w", err)
	}
	return &tempFile{File: f, cleanup: cleanup}, nil
}

type tempFile struct {
	*os.File
	cleanup func()
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	t.cleanup()
	return err
}

// WriteFileAtomic writes data next to path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsDataURI returns true for data: URIs.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsAbsoluteTarget reports whether s can be sent to the renderer as is:
// http, https, data and about URLs.
//
// Examples:
//   - "https://example.com" -> true
//   - "data:text/html;base64,PGI+" -> true
//   - "about:blank" -> true
//   - "/invoices/42" -> false
//   - "invoices/42" -> false
func IsAbsoluteTarget(s string) bool {
	return strings.HasPrefix(s, "http:") || strings.HasPrefix(s, "https:") ||
		IsDataURI(s) || strings.HasPrefix(s, "about:")
}

// DataURI returns prefix followed by the standard base64 encoding of content.
func DataURI(prefix string, content []byte) string {
	return prefix + base64.StdEncoding.EncodeToString(content)
}

// ResolveURL joins a relative target to base. Absolute targets and an empty
// base return target unchanged.
func ResolveURL(base, target string) string {
	if base == "" || IsAbsoluteTarget(target) {
		return target
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(target, "/")
}
