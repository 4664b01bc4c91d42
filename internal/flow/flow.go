// Package flow drives the git-flow extension for hotfix and release
// branches.
//
// Client exposes the narrow surface the lifecycle orchestrator needs:
// starting a branch, finishing it, and discovering the version of the
// currently active branch. Each method maps a non-zero exit of the
// underlying `git flow` command to a specific failure kind so that the
// CLI can propagate git's exit status.
package flow

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
	"github.com/mmr-tortoise/gitflow-bump/internal/process"
	"github.com/mmr-tortoise/gitflow-bump/internal/version"
)

// activeMarker prefixes the current branch in `git flow <kind> list` output.
const activeMarker = "* "

// Client runs `git flow` subcommands through a process.Runner.
type Client struct {
	runner process.Runner
	git    string
	dir    string
}

// NewClient creates a Client that runs git in dir (empty means the
// current directory).
func NewClient(runner process.Runner, dir string) *Client {
	return &Client{runner: runner, git: "git", dir: dir}
}

func (c *Client) command(kind model.BranchKind, args ...string) process.Command {
	return process.Command{
		Name: c.git,
		Args: append([]string{"flow", kind.String()}, args...),
		Dir:  c.dir,
	}
}

// Start creates the `<kind>/<version>` branch with `git flow <kind> start`.
//
// Output is captured; a non-zero exit is an ExternalOperationFailure with
// git's exit status.
func (c *Client) Start(ctx context.Context, kind model.BranchKind, v string) error {
	cmd := c.command(kind, "start", v)
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return model.WrapCLIError(model.KindExternalOperationFailure, model.ExitGeneralError,
			fmt.Sprintf("failed starting git flow %s", kind), err).WithCommand(cmd.String())
	}
	if !res.Success() {
		return model.NewCLIError(model.KindExternalOperationFailure, model.ExitStatus(res.ExitStatus),
			failureMessage(fmt.Sprintf("failed starting git flow %s", kind), res)).WithCommand(cmd.String())
	}
	return nil
}

// Finish merges the `<kind>/<version>` branch with
// `git flow <kind> finish -m <version> <version>`.
//
// GIT_MERGE_AUTOEDIT=no keeps git from opening an editor for the merge
// commit messages. Output streams to the console so the user sees the
// merge as it happens. A non-zero exit is an ExternalFinishFailure with
// git's exit status; the branch is left unmerged for manual resolution.
func (c *Client) Finish(ctx context.Context, kind model.BranchKind, v string) error {
	cmd := c.command(kind, "finish", "-m", v, v)
	cmd.Env = []string{"GIT_MERGE_AUTOEDIT=no"}
	status, err := c.runner.RunInteractive(ctx, cmd)
	if err != nil {
		return model.WrapCLIError(model.KindExternalFinishFailure, model.ExitGeneralError,
			fmt.Sprintf("failed finishing git flow %s %s", kind, v), err).WithCommand(cmd.String())
	}
	if status != 0 {
		return model.NewCLIError(model.KindExternalFinishFailure, model.ExitStatus(status),
			fmt.Sprintf("failed finishing git flow %s %s (exit status %d)", kind, v, status)).WithCommand(cmd.String())
	}
	return nil
}

// Active returns the version of the currently checked-out branch of the
// given kind, read from `git flow <kind> list`.
//
// It fails with NoActiveBranch when the query exits non-zero or no line
// carries the active marker, and with InvalidVersionFormat when the
// branch name is not a valid version.
func (c *Client) Active(ctx context.Context, kind model.BranchKind) (string, error) {
	cmd := c.command(kind, "list")
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return "", model.WrapCLIError(model.KindNoActiveBranch, model.ExitGeneralError,
			fmt.Sprintf("error getting %s version", kind), err).WithCommand(cmd.String())
	}
	if !res.Success() {
		return "", model.NewCLIError(model.KindNoActiveBranch, model.ExitStatus(res.ExitStatus),
			failureMessage(fmt.Sprintf("error getting %s version, are you in the %s branch?", kind, kind), res)).
			WithCommand(cmd.String())
	}

	v, ok := ParseActive(res.Stdout)
	if !ok {
		return "", model.NewCLIError(model.KindNoActiveBranch, model.ExitGeneralError,
			fmt.Sprintf("no active %s branch, are you in the %s branch?", kind, kind)).WithCommand(cmd.String())
	}
	if err := version.Validate(v); err != nil {
		return "", err
	}
	return v, nil
}

// ParseActive extracts the branch token from the first line of
// `git flow <kind> list` output that starts with the "* " marker.
//
// Example input:
//
//	  1.2.0
//	* 1.3.0
func ParseActive(output string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, activeMarker) {
			continue
		}
		fields := strings.Fields(line[len(activeMarker):])
		if len(fields) == 0 {
			continue
		}
		return fields[0], true
	}
	return "", false
}

// failureMessage appends trimmed stderr output to message when present.
func failureMessage(message string, res process.Result) string {
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	if detail == "" {
		return fmt.Sprintf("%s (exit status %d)", message, res.ExitStatus)
	}
	return fmt.Sprintf("%s (exit status %d): %s", message, res.ExitStatus, detail)
}
