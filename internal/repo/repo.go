package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
	"github.com/mmr-tortoise/gitflow-bump/internal/process"
)

// DefaultGit is the git executable resolved through PATH.
const DefaultGit = "git"

// Repo runs git commands against one working directory.
type Repo struct {
	runner process.Runner
	git    string
	dir    string
}

// New creates a Repo that runs git in dir (empty means the current
// directory) through runner.
func New(runner process.Runner, dir string) *Repo {
	return &Repo{runner: runner, git: DefaultGit, dir: dir}
}

// command builds a git command bound to the repository directory.
func (r *Repo) command(args ...string) process.Command {
	return process.Command{Name: r.git, Args: args, Dir: r.dir}
}

// Root returns the absolute path of the top-level directory of the
// repository containing the working directory.
//
// It fails with NoGitRepository when git is not installed or the directory
// is not inside a repository.
func (r *Repo) Root(ctx context.Context) (string, error) {
	cmd := r.command("rev-parse", "--show-toplevel")
	res, err := r.runner.Run(ctx, cmd)
	if err != nil {
		return "", model.WrapCLIError(model.KindNoGitRepository, model.ExitGeneralError,
			"error getting git root directory, is git installed?", err).WithCommand(cmd.String())
	}
	if !res.Success() {
		message := "error getting git root directory, not a git repository?"
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			message = fmt.Sprintf("%s: %s", message, stderr)
		}
		return "", model.NewCLIError(model.KindNoGitRepository, model.ExitGeneralError, message).
			WithCommand(cmd.String())
	}
	return strings.TrimSpace(res.Stdout), nil
}

// IsClean reports whether the working tree has no differences against HEAD,
// using the exit status of `git diff --quiet HEAD`.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	cmd := r.command("diff", "--quiet", "HEAD")
	res, err := r.runner.Run(ctx, cmd)
	if err != nil {
		return false, model.WrapCLIError(model.KindNoGitRepository, model.ExitGeneralError,
			"failed to check working tree", err).WithCommand(cmd.String())
	}
	return res.Success(), nil
}

// Status returns the `git status -s` listing so the caller can show what
// keeps the tree dirty. Its exit status is not significant.
func (r *Repo) Status(ctx context.Context) (string, error) {
	cmd := r.command("status", "-s")
	res, err := r.runner.Run(ctx, cmd)
	if err != nil {
		return "", model.WrapCLIError(model.KindNoGitRepository, model.ExitGeneralError,
			"failed to list working tree changes", err).WithCommand(cmd.String())
	}
	return res.Stdout, nil
}

// CommitFile commits only path with the given message. The commit output
// is streamed to the console.
//
// A non-zero exit is a CommitFailure carrying git's exit status.
func (r *Repo) CommitFile(ctx context.Context, path, message string) error {
	cmd := r.command("commit", "-m", message, "--", path)
	status, err := r.runner.RunInteractive(ctx, cmd)
	if err != nil {
		return model.WrapCLIError(model.KindCommitFailure, model.ExitGeneralError,
			"error committing bump version", err).WithCommand(cmd.String())
	}
	if status != 0 {
		return model.NewCLIError(model.KindCommitFailure, model.ExitStatus(status),
			fmt.Sprintf("error committing bump version (exit status %d)", status)).WithCommand(cmd.String())
	}
	return nil
}
