// Package cli implements the cobra-based CLI commands for gitflow-bump.
//
// The hotfix and release command groups are defined in branch.go, the
// config command in config.go. This file defines the root command that
// serves as the parent for all subcommands and handles global flags and
// exit codes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// packagePath is the package root containing the metadata file.
	// Empty means the root of the Git repository containing the current
	// directory.
	packagePath string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitflow-bump",
		Short: "Gitflow hotfix and release branches with automatic version bumps",
		Long: `gitflow-bump starts and finishes gitflow hotfix and release branches
while keeping the package's declared version (metadata.rb or metadata.json)
in lockstep with the branch name.

  start   computes the next version (major, minor, patch or manual) and
          creates <kind>/<version> with git-flow
  finish  writes the branch version into the metadata file, commits it and
          merges the branch with git-flow

Requires git and the git-flow extension. Run one command at a time per
repository: the only guard against concurrent runs is the clean working
tree check.`,

		// We format errors ourselves (text or JSON based on --json flag).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&packagePath, "path", "C", "",
		"Package root containing the metadata file (default: git repository root)")

	rootCmd.AddCommand(NewBranchCommand(model.BranchHotfix))
	rootCmd.AddCommand(NewBranchCommand(model.BranchRelease))
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError values carry their own exit code, which for failed git
// commands is git's exit status. Other errors exit with code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(int(model.ExitCodeOf(err)))
	}
}

// errorJSON is the --json error document written to stderr.
type errorJSON struct {
	Error struct {
		Kind     model.ErrorKind `json:"kind"`
		Message  string          `json:"message"`
		Command  string          `json:"command,omitempty"`
		ExitCode int             `json:"exitCode"`
	} `json:"error"`
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, err error) {
	kind := model.KindOf(err)
	code := model.ExitCodeOf(err)
	command := ""
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		command = cliErr.Command
	}

	if jsonOutput {
		var doc errorJSON
		doc.Error.Kind = kind
		doc.Error.Message = err.Error()
		doc.Error.Command = command
		doc.Error.ExitCode = int(code)
		data, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	ui := NewConsole(io.Discard, w)
	ui.Error(err.Error())
	if command != "" {
		ui.Hint(fmt.Sprintf("failed command: %s", command))
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
