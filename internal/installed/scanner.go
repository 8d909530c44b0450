// Package installed scans an installed-packages directory (node_modules)
// and derives the install specifier each package reports about itself.
package installed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"github.com/tidwall/gjson"

	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

const (
	// DescriptorName is the per-package descriptor file.
	DescriptorName = "package.json"

	// DefaultConcurrency is the number of descriptor reads kept in flight.
	DefaultConcurrency = 8
)

// ErrInvalidDescriptor indicates a descriptor that is not valid JSON or
// does not carry a version.
var ErrInvalidDescriptor = errors.New("invalid package descriptor")

// Descriptor is the subset of a package.json the scanner reads.
type Descriptor struct {
	Name    string
	Version string
	From    string
}

// ParseDescriptor extracts name, version and _from from package.json content.
func ParseDescriptor(data []byte) (Descriptor, error) {
	if !gjson.ValidBytes(data) {
		return Descriptor{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDescriptor)
	}
	fields := gjson.GetManyBytes(data, "name", "version", "_from")
	if fields[1].Type != gjson.String || fields[1].Str == "" {
		return Descriptor{}, fmt.Errorf("%w: missing version", ErrInvalidDescriptor)
	}
	return Descriptor{
		Name:    fields[0].String(),
		Version: fields[1].Str,
		From:    fields[2].String(),
	}, nil
}

// Candidates merges the directory listing with the wanted names, removing
// duplicates and sorting the result.
func Candidates(listing []string, wanted []string) []string {
	names := make([]string, 0, len(listing)+len(wanted))
	names = append(names, listing...)
	names = append(names, wanted...)
	slices.Sort(names)
	return slices.Compact(names)
}

// Scanner reads installed package descriptors with bounded concurrency.
type Scanner struct {
	fs          fsops.FS
	deriver     pkgspec.Deriver
	concurrency int
	logger      *slog.Logger
}

// NewScanner creates a Scanner. A concurrency below 1 uses DefaultConcurrency
// and a nil logger discards diagnostics.
func NewScanner(fs fsops.FS, deriver pkgspec.Deriver, concurrency int, logger *slog.Logger) *Scanner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		fs:          fs,
		deriver:     deriver,
		concurrency: concurrency,
		logger:      logger,
	}
}

type scanResult struct {
	desc Descriptor
	ok   bool
}

// Scan reads the descriptor of every candidate under modulesDir and returns
// the installed specs keyed by name. Candidates whose descriptor is missing
// or unreadable are left out; they never fail the scan. A cancelled context
// aborts the scan with ctx.Err() and no partial result.
func (s *Scanner) Scan(ctx context.Context, modulesDir string, candidates []string) (map[string]pkgspec.InstallSpec, error) {
	results := make([]scanResult, len(candidates))

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, name := range candidates {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			desc, err := s.readDescriptor(modulesDir, name)
			if err != nil {
				s.logger.Debug("package not installed", "name", name, "err", err)
				return
			}
			results[i] = scanResult{desc: desc, ok: true}
		})
	}
	p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Derivation runs after the pool drains so warnings keep name order.
	have := make(map[string]pkgspec.InstallSpec)
	for i, name := range candidates {
		if !results[i].ok {
			continue
		}
		desc := results[i].desc
		have[name] = s.deriver.Derive(name, desc.Version, desc.From, "")
	}
	return have, nil
}

func (s *Scanner) readDescriptor(modulesDir, name string) (Descriptor, error) {
	dir, err := fsops.PackageDir(modulesDir, name)
	if err != nil {
		return Descriptor{}, err
	}
	data, err := s.fs.ReadFile(filepath.Join(dir, DescriptorName))
	if err != nil {
		return Descriptor{}, err
	}
	return ParseDescriptor(data)
}
