package installed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

func TestCandidates(t *testing.T) {
	got := Candidates(
		[]string{"commander", "bluebird", "colors", "foo"},
		[]string{"foo/baz", "colors", "hello", "@types/node"},
	)
	assert.Equal(t, []string{"@types/node", "bluebird", "colors", "commander", "foo", "foo/baz", "hello"}, got)
	assert.Empty(t, Candidates(nil, nil))
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Descriptor
		wantErr bool
	}{
		{
			name: "version only",
			data: `{"name": "colors", "version": "1.1.2"}`,
			want: Descriptor{Name: "colors", Version: "1.1.2"},
		},
		{
			name: "with origin hint",
			data: `{"name": "world", "version": "4.4.4", "_from": "./somewhere", "dependencies": {"x": "1"}}`,
			want: Descriptor{Name: "world", Version: "4.4.4", From: "./somewhere"},
		},
		{name: "malformed", data: `{"version": `, wantErr: true},
		{name: "missing version", data: `{"name": "colors"}`, wantErr: true},
		{name: "numeric version", data: `{"version": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDescriptor([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDescriptor))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	mem := fsops.NewMemFS()
	mem.AddFile("/work/node_modules/colors/package.json", []byte(`{"version": "1.1.2", "_from": "colors@1.1.2"}`))
	mem.AddFile("/work/node_modules/world/package.json", []byte(`{"version": "4.4.4", "_from": "./somewhere"}`))
	mem.AddFile("/work/node_modules/foo/bar/package.json", []byte(`{"version": "1.0.1"}`))
	mem.AddFile("/work/node_modules/broken/package.json", []byte(`not json`))
	mem.AddDir("/work/node_modules/empty")
	mem.FailOn("/work/node_modules/denied/package.json", os.ErrPermission)

	s := NewScanner(mem, pkgspec.Deriver{UseOriginHints: true}, 2, nil)
	have, err := s.Scan(context.Background(), "/work/node_modules", []string{
		"broken", "colors", "denied", "empty", "foo", "foo/bar", "missing", "world", "../escape",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]pkgspec.InstallSpec{
		"colors":  {Name: "colors", Version: "1.1.2", Spec: "colors@1.1.2", Desc: "1.1.2"},
		"foo/bar": {Name: "foo/bar", Version: "1.0.1", Spec: "foo/bar@1.0.1", Desc: "1.0.1"},
		"world":   {Name: "world", Version: "4.4.4", Spec: "./somewhere", Desc: "4.4.4 (./somewhere)"},
	}, have)
}

func TestScanner_ScanRealFS(t *testing.T) {
	modules := filepath.Join(t.TempDir(), "node_modules")
	pkgDir := filepath.Join(modules, "commander")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, DescriptorName), []byte(`{"version": "2.9.0"}`), 0644); err != nil {
		t.Fatalf("failed to write descriptor: %v", err)
	}

	s := NewScanner(fsops.NewRealFS(), pkgspec.Deriver{}, 0, nil)
	have, err := s.Scan(context.Background(), modules, []string{"commander", "hello"})
	require.NoError(t, err)

	require.Len(t, have, 1)
	assert.Equal(t, "commander@2.9.0", have["commander"].Spec)
}

// slowFS counts concurrent reads.
type slowFS struct {
	fsops.FS
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
}

func (f *slowFS) ReadFile(path string) ([]byte, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	f.mu.Lock()
	if n > f.peak.Load() {
		f.peak.Store(n)
	}
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return f.FS.ReadFile(path)
}

func TestScanner_BoundedConcurrency(t *testing.T) {
	mem := fsops.NewMemFS()
	var names []string
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("pkg-%02d", i)
		names = append(names, name)
		mem.AddFile("/work/node_modules/"+name+"/package.json", []byte(`{"version": "1.0.0"}`))
	}
	fs := &slowFS{FS: mem}

	s := NewScanner(fs, pkgspec.Deriver{}, 4, nil)
	have, err := s.Scan(context.Background(), "/work/node_modules", names)
	require.NoError(t, err)

	assert.Len(t, have, 40)
	assert.LessOrEqual(t, fs.peak.Load(), int32(4))
	assert.Positive(t, fs.peak.Load())
}

func TestScanner_WarnsInNameOrder(t *testing.T) {
	mem := fsops.NewMemFS()
	for _, name := range []string{"a", "b", "c", "d"} {
		mem.AddFile("/work/node_modules/"+name+"/package.json", []byte(`{"version": "1.0.0", "_from": "`+name+`@%zz"}`))
	}

	var warned []string
	d := pkgspec.Deriver{
		UseOriginHints: true,
		Warn:           func(name, from string, err error) { warned = append(warned, name) },
	}
	_, err := NewScanner(mem, d, 8, nil).Scan(context.Background(), "/work/node_modules", []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, warned)
}

func TestScanner_CancelledContext(t *testing.T) {
	mem := fsops.NewMemFS()
	mem.AddFile("/work/node_modules/colors/package.json", []byte(`{"version": "1.1.2"}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	have, err := NewScanner(mem, pkgspec.Deriver{}, 1, nil).Scan(ctx, "/work/node_modules", []string{"colors"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, have)
}
