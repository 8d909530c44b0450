package engine

import "github.com/danieljhkim/modcheck/internal/config"

// LogFunc receives every line produced by a check.
type LogFunc func(Line)

// CheckRequest represents a request to check installed packages against the
// lock manifest.
type CheckRequest struct {
	// Paths locate the manifest and the installed-packages directory
	Paths config.Paths

	// Options select reporting, origin handling and repair
	Options config.Options

	// Log receives status, warning and command lines (default: stdout)
	Log LogFunc
}
