// Package processtest provides a recording process.Runner for tests that
// must not touch a real Git installation.
package processtest

import (
	"context"
	"strings"
	"sync"

	"github.com/mmr-tortoise/gitflow-bump/internal/process"
)

// Call is one recorded invocation.
type Call struct {
	Command     process.Command
	Interactive bool
}

// Line returns the command name and arguments joined by single spaces,
// without quoting or environment. It is the key used by Respond.
func (c Call) Line() string {
	return Line(c.Command)
}

// Line joins a command's name and arguments with single spaces.
func Line(cmd process.Command) string {
	return strings.TrimSpace(cmd.Name + " " + strings.Join(cmd.Args, " "))
}

// Recorder is a process.Runner that records every call and answers from
// scripted results. Unscripted commands succeed with empty output.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]process.Result
	errors    map[string]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		responses: make(map[string]process.Result),
		errors:    make(map[string]error),
	}
}

// Respond scripts the result for the command whose Line equals line.
func (r *Recorder) Respond(line string, res process.Result) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[line] = res
	return r
}

// Fail scripts a start failure (e.g. binary missing) for line.
func (r *Recorder) Fail(line string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[line] = err
	return r
}

// Run records cmd and returns its scripted result.
func (r *Recorder) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	return r.record(cmd, false)
}

// RunInteractive records cmd and returns its scripted exit status.
func (r *Recorder) RunInteractive(_ context.Context, cmd process.Command) (int, error) {
	res, err := r.record(cmd, true)
	return res.ExitStatus, err
}

func (r *Recorder) record(cmd process.Command, interactive bool) (process.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Command: cmd, Interactive: interactive})
	line := Line(cmd)
	if err, ok := r.errors[line]; ok {
		return process.Result{ExitStatus: -1}, err
	}
	return r.responses[line], nil
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the Line of every recorded call in invocation order.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Line()
	}
	return out
}
