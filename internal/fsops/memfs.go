package fsops

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// MemFS implements FS with an in-memory tree for testing.
// It is safe for concurrent reads.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	fail  map[string]error
}

// NewMemFS creates an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		fail:  make(map[string]error),
	}
}

// AddFile stores a file and creates its parent directories.
func (m *MemFS) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.files[path] = data
	m.addDirLocked(filepath.Dir(path))
}

// AddDir creates a directory and its parents.
func (m *MemFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(filepath.Clean(path))
}

// FailOn makes every read of path return err.
func (m *MemFS) FailOn(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[filepath.Clean(path)] = err
}

func (m *MemFS) addDirLocked(path string) {
	for {
		m.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// ReadFile returns the stored file content.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if err, ok := m.fail[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return slices.Clone(data), nil
}

// ReadDir returns the sorted names of the direct children of path.
func (m *MemFS) ReadDir(path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	if err, ok := m.fail[path]; ok {
		return nil, err
	}
	if !m.dirs[path] {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}

	seen := make(map[string]bool)
	prefix := path + string(filepath.Separator)
	collect := func(p string) {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" {
			name, _, _ := strings.Cut(rest, string(filepath.Separator))
			seen[name] = true
		}
	}
	for p := range m.files {
		collect(p)
	}
	for p := range m.dirs {
		collect(p)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
