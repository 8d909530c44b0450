package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/danieljhkim/modcheck/internal/installed"
	"github.com/danieljhkim/modcheck/internal/lockfile"
	"github.com/danieljhkim/modcheck/internal/runner"
)

// ErrConfig indicates an invalid options file or option value.
var ErrConfig = errors.New("invalid configuration")

// DefaultModules is the installed-packages directory name.
const DefaultModules = "node_modules"

// Options holds the settings of one check.
type Options struct {
	// All prints matching packages too.
	All bool

	// Unwanted prints installed packages missing from the manifest.
	Unwanted bool

	// From compares package origins (git, path, tarball) as well as versions.
	From bool

	// Install runs the package manager for missing and mismatched packages.
	Install bool

	// Manifest is the lock manifest, relative to the working directory.
	Manifest string

	// Modules is the installed-packages directory, relative to the working directory.
	Modules string

	// PackageManager is the command used for repair.
	PackageManager string

	// Concurrency bounds the descriptor reads in flight.
	Concurrency int

	// Ignore lists doublestar patterns of package names to skip.
	Ignore []string
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Unwanted:       true,
		From:           true,
		Manifest:       lockfile.DefaultName,
		Modules:        DefaultModules,
		PackageManager: runner.DefaultPackageManager(),
		Concurrency:    installed.DefaultConcurrency,
	}
}

type fileConfig struct {
	All            bool     `toml:"all"`
	Unwanted       bool     `toml:"unwanted"`
	From           bool     `toml:"from"`
	Install        bool     `toml:"install"`
	Manifest       string   `toml:"manifest"`
	Modules        string   `toml:"modules"`
	PackageManager string   `toml:"package_manager"`
	Concurrency    int      `toml:"concurrency"`
	Ignore         []string `toml:"ignore"`
}

// LoadFile applies the keys set in the options file at path onto opts.
// It reports whether the file existed; a missing file is not an error.
func LoadFile(path string, opts *Options) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return true, fmt.Errorf("%w: %s: unknown key %q", ErrConfig, path, undecoded[0].String())
	}

	if meta.IsDefined("all") {
		opts.All = raw.All
	}
	if meta.IsDefined("unwanted") {
		opts.Unwanted = raw.Unwanted
	}
	if meta.IsDefined("from") {
		opts.From = raw.From
	}
	if meta.IsDefined("install") {
		opts.Install = raw.Install
	}
	if meta.IsDefined("manifest") {
		opts.Manifest = strings.TrimSpace(raw.Manifest)
	}
	if meta.IsDefined("modules") {
		opts.Modules = strings.TrimSpace(raw.Modules)
	}
	if meta.IsDefined("package_manager") {
		opts.PackageManager = strings.TrimSpace(raw.PackageManager)
	}
	if meta.IsDefined("concurrency") {
		opts.Concurrency = raw.Concurrency
	}
	if meta.IsDefined("ignore") {
		opts.Ignore = raw.Ignore
	}

	return true, nil
}

// Validate checks option values.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Manifest) == "" {
		return fmt.Errorf("%w: manifest must not be empty", ErrConfig)
	}
	if strings.TrimSpace(o.Modules) == "" {
		return fmt.Errorf("%w: modules must not be empty", ErrConfig)
	}
	if strings.TrimSpace(o.PackageManager) == "" {
		return fmt.Errorf("%w: package_manager must not be empty", ErrConfig)
	}
	if o.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrConfig, o.Concurrency)
	}
	for _, pattern := range o.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid ignore pattern %q", ErrConfig, pattern)
		}
	}
	return nil
}

// Ignored reports whether package name matches one of the ignore patterns.
func (o Options) Ignored(name string) bool {
	for _, pattern := range o.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
