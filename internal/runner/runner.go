// Package runner executes the external package manager.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Runner abstracts external command execution.
type Runner interface {
	// Run executes name with args and waits for it to exit. A process that
	// exits non-zero is reported through the exit code with a nil error; an
	// error means the process could not be started or waited on.
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// DefaultPackageManager returns the npm executable for the current platform.
func DefaultPackageManager() string {
	if runtime.GOOS == "windows" {
		return "npm.cmd"
	}
	return "npm"
}

// ExecRunner runs commands on the local host with the terminal's standard
// streams unless other ones are set.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner wired to os.Stdin, os.Stdout and os.Stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the command. No timeout is applied beyond ctx.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Call is one recorded invocation of a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner implements Runner by recording calls for testing.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	// ExitCode is returned by every call.
	ExitCode int

	// Err, when set, is returned instead of an exit code.
	Err error
}

// NewFakeRunner creates a FakeRunner returning exitCode.
func NewFakeRunner(exitCode int) *FakeRunner {
	return &FakeRunner{ExitCode: exitCode}
}

// Run records the call.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	if f.Err != nil {
		return -1, f.Err
	}
	return f.ExitCode, nil
}

// Calls returns the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
