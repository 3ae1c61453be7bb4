package views

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extension priority lists, most specific first.
var (
	MJMLExtensions = []string{".mjml.tpl", ".mjml"}
	HTMLExtensions = []string{".html.tpl", ".tpl", ".html"}
)

// Finder maps dotted view names to files under a base directory.
type Finder struct {
	basePath string
}

// NewFinder creates a Finder rooted at basePath.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFinder(basePath string) (*Finder, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &Finder{basePath: absPath}, nil
}

// BasePath returns the resolved views directory.
func (f *Finder) BasePath() string {
	return f.basePath
}

// Find returns the path of the first file matching name with one of
// extensions, tried in order.
func (f *Finder) Find(name string, extensions []string) (string, error) {
	rel, err := ValidateName(name)
	if err != nil {
		return "", err
	}

	for _, ext := range extensions {
		candidate := filepath.Join(f.basePath, rel+ext)
		if err := f.verifyPathContainment(candidate); err != nil {
			return "", err
		}
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("%w: %v", ErrViewNotFound, err)
		}
		if info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %q (tried %s)", ErrViewNotFound, name, strings.Join(extensions, ", "))
}

// ValidateName checks a dotted view name and returns its relative path.
// Every segment must be non-empty and free of path separators.
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidViewName)
	}
	segments := strings.Split(name, ".")
	for _, seg := range segments {
		if seg == "" || strings.ContainsAny(seg, "/\\") {
			return "", fmt.Errorf("%w: %q", ErrInvalidViewName, name)
		}
	}
	return filepath.Join(segments...), nil
}

// verifyPathContainment ensures filePath resolves inside basePath.
func (f *Finder) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	// Missing files keep the unresolved path; the prefix check still applies.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes views directory", ErrPathTraversal)
	}
	return nil
}
