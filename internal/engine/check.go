package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/modcheck/internal/clock"
	"github.com/danieljhkim/modcheck/internal/installed"
	"github.com/danieljhkim/modcheck/internal/lockfile"
	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

// Check compares the installed packages with the lock manifest.
// Status, warning and command lines go to req.Log in the order they are
// produced. A missing manifest or installed-packages directory aborts the
// check with an error; everything else is reported through the result.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	start := e.clock.Now()
	opts := req.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &CheckResult{
		Root:      req.Paths.Root,
		StartedAt: start,
		Entries:   []EntryResult{},
		Install:   []string{},
	}
	log := func(line Line) {
		result.Lines = append(result.Lines, line)
		if req.Log != nil {
			req.Log(line)
		} else {
			StdoutLog(line)
		}
	}

	deriver := pkgspec.Deriver{
		UseOriginHints: opts.From,
		Warn: func(name, from string, err error) {
			e.logger.Debug("unparsable origin hint", "name", name, "from", from, "err", err)
			log(Line{
				Kind: LineWarning,
				Name: name,
				Text: fmt.Sprintf("%s: can't parse version: %s", name, from),
			})
		},
	}

	// Manifest and listing are independent; only the manifest side logs.
	// Errors are inspected per side so a manifest failure is reported first.
	var (
		wanted      map[string]pkgspec.InstallSpec
		listing     []string
		manifestErr error
		listErr     error
		g           errgroup.Group
	)
	g.Go(func() error {
		wanted, manifestErr = lockfile.Read(e.fs, req.Paths.Manifest, deriver)
		return manifestErr
	})
	g.Go(func() error {
		listing, listErr = e.fs.ReadDir(req.Paths.Modules)
		return listErr
	})
	_ = g.Wait()
	if manifestErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, manifestErr)
	}
	if listErr != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %w", ErrModulesDir, req.Paths.Modules, listErr)
	}

	candidates := installed.Candidates(listing, slices.Collect(maps.Keys(wanted)))
	e.logger.Debug("scanning installed packages",
		"dir", req.Paths.Modules, "candidates", len(candidates), "concurrency", opts.Concurrency)

	scanner := installed.NewScanner(e.fs, deriver, opts.Concurrency, e.logger)
	have, err := scanner.Scan(ctx, req.Paths.Modules, candidates)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", req.Paths.Modules, err)
	}

	table := Merge(wanted, have)
	if len(opts.Ignore) > 0 {
		table = table.Filter(func(name string) bool {
			if opts.Ignored(name) {
				e.logger.Debug("ignoring package", "name", name)
				return false
			}
			return true
		})
	}

	report := Reconcile(table, ReportOptions{All: opts.All, Unwanted: opts.Unwanted})
	for _, line := range report.Lines {
		log(line)
	}

	for _, entry := range table {
		result.Entries = append(result.Entries, EntryResult{
			Name:   entry.Name,
			Status: entry.Status(),
			Want:   entry.Want,
			Have:   entry.Have,
		})
	}
	result.Install = append(result.Install, report.Install...)
	result.Satisfied = report.Satisfied()
	result.Elapsed = clock.Elapsed(e.clock, start)

	e.logger.Info("check finished",
		"packages", len(table),
		"match", report.Counts[StatusMatch],
		"unwanted", report.Counts[StatusUnwanted],
		"missing", report.Counts[StatusMissing],
		"mismatched", report.Counts[StatusMismatched],
		"elapsed", result.Elapsed)

	if opts.Install && !report.Satisfied() {
		repair := e.Repair(ctx, opts.PackageManager, report.Install, log)
		result.Repair = repair
		result.Satisfied = repair.Success
	}

	return result, nil
}
