package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modcheck/internal/config"
	"github.com/danieljhkim/modcheck/internal/engine"
)

// runCheck resolves options from defaults, the options file and the flags
// that were set, then runs the check.
func runCheck(ctx context.Context, cmd *cobra.Command, flags *checkFlags) error {
	if flags.noColor {
		color.NoColor = true
	}

	root, err := config.RootDir(flags.chdir)
	if err != nil {
		return err
	}

	opts := config.DefaultOptions()
	if _, err := config.LoadFile(filepath.Join(root, config.FileName), &opts); err != nil {
		return err
	}
	applyFlags(cmd, flags, &opts)
	if err := opts.Validate(); err != nil {
		return err
	}

	paths := config.ResolvePaths(root, opts)
	out := cmd.OutOrStdout()

	// Package-manager output must not interleave with the JSON report.
	runnerOut := out
	if flags.jsonOutput {
		runnerOut = cmd.ErrOrStderr()
	}
	eng := newEngine(runnerOut)

	req := &engine.CheckRequest{
		Paths:   *paths,
		Options: opts,
		Log:     func(line engine.Line) { printLine(out, line) },
	}
	if flags.jsonOutput {
		req.Log = func(engine.Line) {}
	}

	result, err := eng.Check(ctx, req)
	if err != nil {
		return err
	}

	if flags.jsonOutput {
		if err := outputJSON(out, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if !result.Satisfied {
		return ErrUnsatisfied
	}
	return nil
}

// applyFlags overrides opts with every flag set on the command line.
func applyFlags(cmd *cobra.Command, flags *checkFlags, opts *config.Options) {
	changed := cmd.Flags().Changed

	if changed("all") {
		opts.All = flags.all
	}
	if changed("no-unwanted") {
		opts.Unwanted = !flags.noUnwanted
	}
	if changed("install") {
		opts.Install = flags.install
	}
	if changed("no-from") {
		opts.From = !flags.noFrom
	}
	if changed("manifest") {
		opts.Manifest = flags.manifest
	}
	if changed("modules") {
		opts.Modules = flags.modules
	}
	if changed("package-manager") {
		opts.PackageManager = flags.packageManager
	}
	if changed("concurrency") {
		opts.Concurrency = flags.concurrency
	}
}
