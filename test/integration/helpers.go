package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/modcheck/internal/config"
	"github.com/danieljhkim/modcheck/internal/engine"
	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/runner"
)

const (
	helloGit   = "git+https://github.com/foo/hello.git#abcdef1234567890"
	missingGit = "git+https://github.com/foo/missing-from.git#abcdef1234567890"
	worldGit   = "git+https://github.com/foo/world.git#abcdef1234567890"
)

// project is an on-disk fixture: a manifest plus installed descriptors.
type project struct {
	manifest string
	packages map[string]string
}

var caseBad = project{
	manifest: `{
  "name": "case-bad",
  "version": "1.0.0",
  "dependencies": {
    "colors": {"version": "1.1.1", "from": "colors@1.1.1"},
    "commander": {"version": "2.9.0", "from": "commander@^2.9.0"},
    "foo/bar": {"version": "1.0.1"},
    "foo/baz": {"version": "2.2.2"},
    "hello": {"version": "3.3.3", "from": "` + helloGit + `", "resolved": "` + helloGit + `"},
    "missing-from": {"version": "3.14.15", "from": "` + missingGit + `"},
    "world": {"version": "4.4.4", "from": "` + worldGit + `", "resolved": "` + worldGit + `"}
  }
}`,
	packages: map[string]string{
		"bluebird":     `{"name": "bluebird", "version": "3.5.0", "_from": "bluebird@^3.5.0"}`,
		"colors":       `{"name": "colors", "version": "1.1.2", "_from": "colors@1.1.2"}`,
		"commander":    `{"name": "commander", "version": "2.9.0", "_from": "commander@^2.9.0"}`,
		"foo/bar":      `{"name": "bar", "version": "1.0.1"}`,
		"missing-from": `{"name": "missing-from", "version": "3.14.15"}`,
		"world":        `{"name": "world", "version": "4.4.4", "_from": "./somewhere"}`,
	},
}

var caseGood = project{
	manifest: `{
  "name": "case-good",
  "version": "1.0.0",
  "dependencies": {
    "bluebird": {"version": "3.5.0", "from": "bluebird@^3.5.0"},
    "colors": {"version": "1.1.2", "from": "colors@1.1.2"},
    "commander": {"version": "2.9.0", "from": "commander@^2.9.0"},
    "foo/bar": {"version": "1.0.1"}
  }
}`,
	packages: map[string]string{
		"bluebird":  `{"name": "bluebird", "version": "3.5.0", "_from": "bluebird@^3.5.0"}`,
		"colors":    `{"name": "colors", "version": "1.1.2", "_from": "colors@1.1.2"}`,
		"commander": `{"name": "commander", "version": "2.9.0", "_from": "commander@^2.9.0"}`,
		"foo/bar":   `{"name": "bar", "version": "1.0.1"}`,
	},
}

// write creates the fixture in a temporary directory and returns its path.
func (p project) write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "npm-shrinkwrap.json"), []byte(p.manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "node_modules"), 0755); err != nil {
		t.Fatalf("failed to create node_modules: %v", err)
	}
	for name, body := range p.packages {
		installPackage(t, dir, name, body)
	}
	return dir
}

// installPackage writes (or overwrites) one installed descriptor.
func installPackage(t *testing.T, dir, name, body string) {
	t.Helper()
	pkgDir := filepath.Join(dir, "node_modules", name)
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", pkgDir, err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(body), 0644); err != nil {
		t.Fatalf("failed to write descriptor for %s: %v", name, err)
	}
}

// uninstallPackage removes one installed package directory.
func uninstallPackage(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.RemoveAll(filepath.Join(dir, "node_modules", name)); err != nil {
		t.Fatalf("failed to remove %s: %v", name, err)
	}
}

func setupTestEngine(t *testing.T, exitCode int) (*engine.Engine, *runner.FakeRunner) {
	t.Helper()
	r := runner.NewFakeRunner(exitCode)
	return engine.New(fsops.NewRealFS(), r, nil, nil), r
}

// newRequest builds a check request for dir that collects the emitted lines.
func newRequest(dir string, mutate func(*config.Options)) (*engine.CheckRequest, *[]string) {
	opts := config.DefaultOptions()
	opts.PackageManager = "npm"
	if mutate != nil {
		mutate(&opts)
	}
	lines := []string{}
	return &engine.CheckRequest{
		Paths:   *config.ResolvePaths(dir, opts),
		Options: opts,
		Log:     func(line engine.Line) { lines = append(lines, line.Text) },
	}, &lines
}
