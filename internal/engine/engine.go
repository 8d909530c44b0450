// Package engine provides the core reconciliation logic for modcheck.
//
// The engine package sits between the CLI and the leaf packages. A check
// reads the lock manifest and lists the installed-packages directory,
// scans every candidate package's descriptor, merges both sides into a
// name-sorted table, classifies each entry and, when requested, repairs the
// installation with a single package-manager invocation.
//
// Key components:
//   - Engine: orchestrates a check over injected filesystem and runner
//   - Merge/Classify/Reconcile: the pure reconciliation pass
//   - Repair: synthesizes and runs the install command
package engine

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/danieljhkim/modcheck/internal/clock"
	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/runner"
)

// Engine orchestrates all modcheck operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs     fsops.FS
	runner runner.Runner
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new Engine with the given dependencies. A nil clock uses
// the system time and a nil logger discards diagnostics.
func New(fs fsops.FS, r runner.Runner, clk clock.Clock, logger *slog.Logger) *Engine {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		fs:     fs,
		runner: r,
		clock:  clk,
		logger: logger,
	}
}

// StdoutLog writes the uncolored text of every line to standard output.
func StdoutLog(line Line) {
	fmt.Fprintln(os.Stdout, line.Text)
}
