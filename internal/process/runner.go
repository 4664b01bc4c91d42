// Package process runs external commands synchronously and reports their
// exit status as a value.
//
// Every call returns an explicit Result (or exit status) for that one
// command; callers never consult ambient "last command" state. A non-zero
// exit is not an error at this layer: only a command that could not be
// started at all (binary missing, bad working directory) yields an error.
// Interpreting the status is left to the git and flow layers, which know
// which failure class each command maps to.
package process

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single external command invocation.
type Command struct {
	// Name is the executable, resolved through PATH (e.g. "git").
	Name string

	// Args are the arguments passed to the executable.
	Args []string

	// Env holds extra "KEY=value" entries appended to the inherited
	// environment.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// String renders the command as a shell-like line for error messages,
// including any extra environment assignments.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	parts = append(parts, c.Env...)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// quote wraps arguments containing whitespace or quotes in single quotes.
func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Result holds the captured outcome of Run.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error, kept for diagnostics.
	Stderr string

	// ExitStatus is the process exit status. Zero means success.
	ExitStatus int
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.ExitStatus == 0
}

// Runner executes external commands.
type Runner interface {
	// Run executes cmd, captures its output and returns its exit status.
	Run(ctx context.Context, cmd Command) (Result, error)

	// RunInteractive executes cmd with its output streamed to the console
	// and returns only the exit status.
	RunInteractive(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner is the os/exec implementation of Runner.
type ExecRunner struct {
	// Stdin, Stdout and Stderr are the console streams used by
	// RunInteractive. Nil fields default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner attached to the process streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd and captures stdout and stderr separately.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := build(ctx, cmd)

	var stdout, stderr strings.Builder
	c.Stdout = &stdout
	c.Stderr = &stderr

	status, err := wait(c.Run())
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitStatus: status}, err
}

// RunInteractive executes cmd attached to the configured console streams.
func (r *ExecRunner) RunInteractive(ctx context.Context, cmd Command) (int, error) {
	c := build(ctx, cmd)
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return wait(c.Run())
}

func build(ctx context.Context, cmd Command) *exec.Cmd {
	// #nosec G204: commands are assembled by this program from validated tokens
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}

// wait turns the error from exec.Cmd.Run into an exit status. A process
// that ran and exited non-zero is not an error; anything else is.
func wait(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
