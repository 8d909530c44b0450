// Package config manages modcheck configuration and filesystem paths.
//
// Paths are resolved from the working directory, which defaults to the
// current directory and can be overridden with the MODCHECK_CHDIR
// environment variable or the --chdir flag. Options come from defaults, an
// optional .modcheck.toml in the working directory and finally CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvChdir overrides the working directory.
	EnvChdir = "MODCHECK_CHDIR"

	// FileName is the optional options file in the working directory.
	FileName = ".modcheck.toml"
)

// Paths contains all the filesystem paths used by modcheck.
type Paths struct {
	// Root is the working directory (default: current directory)
	Root string

	// Manifest is the lock manifest path
	Manifest string

	// Modules is the installed-packages directory
	Modules string

	// Config is the path to the options file
	Config string
}

// RootDir returns the absolute working directory. An empty chdir falls back
// to MODCHECK_CHDIR, then to the current directory.
func RootDir(chdir string) (string, error) {
	if chdir == "" {
		chdir = os.Getenv(EnvChdir)
	}
	if chdir == "" {
		chdir = "."
	}
	root, err := filepath.Abs(chdir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return root, nil
}

// ResolvePaths returns the paths under root for the given options.
func ResolvePaths(root string, opts Options) *Paths {
	return &Paths{
		Root:     root,
		Manifest: resolve(root, opts.Manifest),
		Modules:  resolve(root, opts.Modules),
		Config:   filepath.Join(root, FileName),
	}
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
