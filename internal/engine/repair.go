package engine

import (
	"context"
	"strings"
)

// InstallArgs returns the package-manager arguments for a repair list.
func InstallArgs(install []string) []string {
	return append([]string{"install", "--no-save"}, install...)
}

// Repair runs the package manager once for the whole repair list and waits
// for it to exit. It is never retried. An empty list succeeds without
// running anything.
func (e *Engine) Repair(ctx context.Context, packageManager string, install []string, log LogFunc) *RepairResult {
	if len(install) == 0 {
		return &RepairResult{Success: true}
	}

	args := InstallArgs(install)
	result := &RepairResult{Command: append([]string{packageManager}, args...)}
	if log != nil {
		log(Line{Kind: LineCommand, Text: "Running: " + strings.Join(result.Command, " ")})
	}

	code, err := e.runner.Run(ctx, packageManager, args...)
	if err != nil {
		e.logger.Error("failed to start package manager", "command", packageManager, "err", err)
		result.ExitCode = -1
		result.Error = err.Error()
		return result
	}

	result.ExitCode = code
	result.Success = code == 0
	if !result.Success {
		e.logger.Warn("package manager failed", "command", packageManager, "exit_code", code)
	}
	return result
}
