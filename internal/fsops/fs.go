// Package fsops provides the filesystem reads modcheck depends on.
//
// The lock manifest, the installed-packages directory listing and every
// package descriptor are read through the FS interface so the reconciler can
// be exercised against in-memory trees in tests. Package names coming from a
// manifest are validated before being joined onto a directory so a crafted
// name cannot read outside the installed-packages directory.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS provides an abstraction for filesystem reads.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the names of the entries of a directory.
	ReadDir(path string) ([]string, error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadDir returns the names of the entries of a directory, sorted by name.
func (fs *RealFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// ValidateRelPath validates a relative path for safety.
// Returns an error if the path is absolute, empty or contains traversal.
func ValidateRelPath(relPath string) error {
	// Clean the path first
	cleaned := filepath.Clean(relPath)

	// Reject empty or current directory
	if relPath == "" || cleaned == "." {
		return fmt.Errorf("invalid path: empty or current directory")
	}

	// Reject absolute paths
	if filepath.IsAbs(cleaned) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", cleaned)
	}

	// Reject path traversal attempts
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path: path traversal not allowed in %q", cleaned)
	}

	return nil
}

// PackageDir returns the directory of package name under modulesDir.
// Names may carry one namespace segment ("@types/node", "foo/bar").
func PackageDir(modulesDir, name string) (string, error) {
	if err := ValidateRelPath(name); err != nil {
		return "", fmt.Errorf("invalid package name %q: %w", name, err)
	}
	if strings.Count(filepath.ToSlash(filepath.Clean(name)), "/") > 1 {
		return "", fmt.Errorf("invalid package name %q: nested paths not supported", name)
	}
	return filepath.Join(modulesDir, filepath.FromSlash(name)), nil
}
