package engine

import (
	"time"

	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

const (
	markGood = "✓"
	markBad  = "✗"
)

// LineKind distinguishes the lines emitted during a check.
type LineKind int

const (
	// LineStatus reports the status of one package.
	LineStatus LineKind = iota
	// LineWarning reports an origin hint that could not be parsed.
	LineWarning
	// LineCommand announces the repair command before it runs.
	LineCommand
)

// Line is one human-readable output line. Text is the complete uncolored
// line; Mark, Name, Detail and Verdict split a status line so callers can
// color its parts.
type Line struct {
	Kind    LineKind
	Status  Status
	Mark    string
	Name    string
	Detail  string
	Verdict string
	Text    string
}

// String returns the uncolored line.
func (l Line) String() string {
	return l.Text
}

// CheckResult represents the result of a check.
type CheckResult struct {
	// Root is the working directory that was checked
	Root string `json:"root"`

	// StartedAt is when the check started
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the duration of the check, excluding the repair command
	Elapsed time.Duration `json:"elapsed_ns"`

	// Entries is the full reconciliation table, in name order
	Entries []EntryResult `json:"entries"`

	// Install is the repair list, in name order
	Install []string `json:"install"`

	// Satisfied is the overall outcome
	Satisfied bool `json:"ok"`

	// Repair is set when the repair command ran
	Repair *RepairResult `json:"repair,omitempty"`

	// Lines are the lines passed to the log function
	Lines []Line `json:"-"`
}

// EntryResult is one classified entry.
type EntryResult struct {
	Name   string               `json:"name"`
	Status Status               `json:"status"`
	Want   *pkgspec.InstallSpec `json:"want,omitempty"`
	Have   *pkgspec.InstallSpec `json:"have,omitempty"`
}

// RepairResult describes the repair invocation.
type RepairResult struct {
	// Command is the package manager followed by its arguments
	Command []string `json:"command"`

	// ExitCode is the exit status, -1 when the process could not be started
	ExitCode int `json:"exit_code"`

	// Error is the start failure, if any
	Error string `json:"error,omitempty"`

	// Success is true when the command exited with status 0
	Success bool `json:"success"`
}
