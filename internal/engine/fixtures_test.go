package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/modcheck/internal/clock"
	"github.com/danieljhkim/modcheck/internal/config"
	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/runner"
)

const fixtureRoot = "/work"

var fixtureStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

const badManifest = `{
  "name": "case-bad",
  "version": "1.0.0",
  "dependencies": {
    "colors": {"version": "1.1.1", "from": "colors@1.1.1"},
    "commander": {"version": "2.9.0", "from": "commander@^2.9.0"},
    "foo/bar": {"version": "1.0.1"},
    "foo/baz": {"version": "2.2.2"},
    "hello": {
      "version": "3.3.3",
      "from": "git+https://github.com/foo/hello.git#abcdef1234567890",
      "resolved": "git+https://github.com/foo/hello.git#abcdef1234567890"
    },
    "missing-from": {
      "version": "3.14.15",
      "from": "git+https://github.com/foo/missing-from.git#abcdef1234567890"
    },
    "world": {
      "version": "4.4.4",
      "from": "git+https://github.com/foo/world.git#abcdef1234567890",
      "resolved": "git+https://github.com/foo/world.git#abcdef1234567890"
    }
  }
}`

const goodManifest = `{
  "name": "case-good",
  "version": "1.0.0",
  "dependencies": {
    "bluebird": {"version": "3.5.0", "from": "bluebird@^3.5.0"},
    "colors": {"version": "1.1.2", "from": "colors@1.1.2"},
    "commander": {"version": "2.9.0", "from": "commander@^2.9.0"},
    "foo/bar": {"version": "1.0.1"}
  }
}`

// addPackage stores a descriptor under node_modules.
func addPackage(fs *fsops.MemFS, name, body string) {
	fs.AddFile(filepath.Join(fixtureRoot, "node_modules", name, "package.json"), []byte(body))
}

func caseBadFS() *fsops.MemFS {
	fs := fsops.NewMemFS()
	fs.AddFile(filepath.Join(fixtureRoot, "npm-shrinkwrap.json"), []byte(badManifest))
	addPackage(fs, "bluebird", `{"name": "bluebird", "version": "3.5.0", "_from": "bluebird@^3.5.0"}`)
	addPackage(fs, "colors", `{"name": "colors", "version": "1.1.2", "_from": "colors@1.1.2"}`)
	addPackage(fs, "commander", `{"name": "commander", "version": "2.9.0", "_from": "commander@^2.9.0"}`)
	addPackage(fs, "foo/bar", `{"name": "bar", "version": "1.0.1"}`)
	addPackage(fs, "missing-from", `{"name": "missing-from", "version": "3.14.15"}`)
	addPackage(fs, "world", `{"name": "world", "version": "4.4.4", "_from": "./somewhere"}`)
	return fs
}

func caseGoodFS() *fsops.MemFS {
	fs := fsops.NewMemFS()
	fs.AddFile(filepath.Join(fixtureRoot, "npm-shrinkwrap.json"), []byte(goodManifest))
	addPackage(fs, "bluebird", `{"name": "bluebird", "version": "3.5.0", "_from": "bluebird@^3.5.0"}`)
	addPackage(fs, "colors", `{"name": "colors", "version": "1.1.2", "_from": "colors@1.1.2"}`)
	addPackage(fs, "commander", `{"name": "commander", "version": "2.9.0", "_from": "commander@^2.9.0"}`)
	addPackage(fs, "foo/bar", `{"name": "bar", "version": "1.0.1"}`)
	return fs
}

// checkRequest builds a request for the fixture root that collects lines.
func checkRequest(t *testing.T, mutate func(*config.Options)) (*CheckRequest, *[]string) {
	t.Helper()
	opts := config.DefaultOptions()
	opts.PackageManager = "npm"
	if mutate != nil {
		mutate(&opts)
	}
	var lines []string
	req := &CheckRequest{
		Paths:   *config.ResolvePaths(fixtureRoot, opts),
		Options: opts,
		Log:     func(line Line) { lines = append(lines, line.Text) },
	}
	return req, &lines
}

func newTestEngine(fs fsops.FS) (*Engine, *runner.FakeRunner) {
	r := runner.NewFakeRunner(0)
	return New(fs, r, clock.NewStepClock(fixtureStart, 40*time.Millisecond), nil), r
}
