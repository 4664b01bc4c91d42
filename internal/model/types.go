// Package model defines the domain types for the gitflow-bump CLI.
//
// All entities in this package are transient: a BumpKind and a Version are
// created from the command line and the package metadata, consumed once by
// the lifecycle orchestrator and then discarded.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BumpKind selects which version component is incremented, or signals that
// an explicit version string is supplied instead of being computed.
type BumpKind int

const (
	// BumpMajor increments the first component and zeroes the rest.
	BumpMajor BumpKind = iota

	// BumpMinor increments the second component and zeroes the patch.
	BumpMinor

	// BumpPatch increments the third component. This is the default.
	BumpPatch

	// BumpManual takes an explicit version from the command line.
	BumpManual
)

// String returns the command-line token for the bump kind.
func (k BumpKind) String() string {
	switch k {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	case BumpManual:
		return "manual"
	default:
		return "unknown"
	}
}

// IsValid checks whether the BumpKind value is one of the predefined kinds.
func (k BumpKind) IsValid() bool {
	switch k {
	case BumpMajor, BumpMinor, BumpPatch, BumpManual:
		return true
	default:
		return false
	}
}

// ComponentIndex returns the index of the version component incremented by
// this kind (major=0, minor=1, patch=2). The boolean is false for
// BumpManual, which does not derive the version arithmetically.
func (k BumpKind) ComponentIndex() (int, bool) {
	switch k {
	case BumpMajor:
		return 0, true
	case BumpMinor:
		return 1, true
	case BumpPatch:
		return 2, true
	default:
		return 0, false
	}
}

// ParseBumpKind converts a command-line token to a BumpKind.
// An empty token selects BumpPatch.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(s) {
	case "", "patch":
		return BumpPatch, nil
	case "major":
		return BumpMajor, nil
	case "minor":
		return BumpMinor, nil
	case "manual":
		return BumpManual, nil
	default:
		return 0, fmt.Errorf("invalid bump kind: %q (valid: major, minor, patch, manual)", s)
	}
}

// BranchKind is the gitflow branch family managed by a command.
type BranchKind string

const (
	// BranchHotfix branches are forked from the production branch.
	BranchHotfix BranchKind = "hotfix"

	// BranchRelease branches are forked from the development branch.
	BranchRelease BranchKind = "release"
)

// String returns the string representation of BranchKind.
func (k BranchKind) String() string {
	return string(k)
}

// IsValid checks whether the BranchKind value is hotfix or release.
func (k BranchKind) IsValid() bool {
	return k == BranchHotfix || k == BranchRelease
}

// Prefix returns the gitflow branch-name prefix, e.g. "hotfix/".
func (k BranchKind) Prefix() string {
	return string(k) + "/"
}

// BranchName returns the full branch name for a version, e.g. "release/1.2.0".
func (k BranchKind) BranchName(version string) string {
	return k.Prefix() + version
}

// Version is an immutable major.minor.patch triple.
// Bumping produces a new Version value.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String joins the components as "major.minor.patch".
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// Components returns the triple in priority order.
func (v Version) Components() [3]int {
	return [3]int{v.Major, v.Minor, v.Patch}
}

// VersionFromComponents builds a Version from a priority-ordered triple.
func VersionFromComponents(c [3]int) Version {
	return Version{Major: c[0], Minor: c[1], Patch: c[2]}
}

// MetadataFormat identifies the syntax of the package metadata file.
type MetadataFormat string

const (
	// FormatRuby is a metadata.rb file with a `version '1.2.3'` line.
	FormatRuby MetadataFormat = "ruby"

	// FormatJSON is a metadata.json file with a top-level "version" field.
	FormatJSON MetadataFormat = "json"
)

// PackageMetadata is the subset of package metadata this tool reads.
// Only the version field is ever written back, and only via the
// metadata rewriter.
type PackageMetadata struct {
	// RootDir is the directory that contains the metadata file.
	RootDir string `json:"rootDir"`

	// Name is the declared package name.
	Name string `json:"name"`

	// Version is the declared dotted version string.
	Version string `json:"version"`

	// Path is the absolute path to the metadata file.
	Path string `json:"path"`

	// Format is the syntax of the metadata file.
	Format MetadataFormat `json:"format"`
}

// ExitCode defines the CLI exit codes. External command failures propagate
// the command's own exit status instead of one of these constants.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError covers internal validation failures such as a dirty
	// working tree or a malformed version.
	ExitGeneralError ExitCode = 1
)

// ExitStatus converts an external command's exit status into an ExitCode.
// Statuses that cannot signal failure (zero or negative, e.g. a process
// killed by a signal) map to ExitGeneralError.
func ExitStatus(status int) ExitCode {
	if status <= 0 {
		return ExitGeneralError
	}
	return ExitCode(status)
}

// ErrorKind classifies a failure for callers and scripts.
type ErrorKind string

// Failures that happen before any mutation (dirty tree, invalid version,
// no active branch, missing repository) are safe to retry after fixing the
// cause. External failures may leave a branch or commit behind.
const (
	KindDirtyWorkingTree         ErrorKind = "dirty-working-tree"
	KindInvalidVersionFormat     ErrorKind = "invalid-version-format"
	KindNoActiveBranch           ErrorKind = "no-active-branch"
	KindExternalOperationFailure ErrorKind = "external-operation-failure"
	KindExternalFinishFailure    ErrorKind = "external-finish-failure"
	KindCommitFailure            ErrorKind = "commit-failure"
	KindMetadataWriteFailure     ErrorKind = "metadata-write-failure"
	KindMetadataNotFound         ErrorKind = "metadata-not-found"
	KindNoGitRepository          ErrorKind = "no-git-repository"
	KindConfigInvalid            ErrorKind = "config-invalid"
	KindUsage                    ErrorKind = "usage"
	KindGeneral                  ErrorKind = "general"
)

// CLIError is a custom error type that carries an exit code and a kind.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Command is the external command line that failed, if any. It is
	// reported so the user can resume the workflow manually.
	Command string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithCommand records the failed command line on the error.
func (e *CLIError) WithCommand(command string) *CLIError {
	e.Command = command
	return e
}

// NewCLIError creates a new CLIError with the given kind, exit code and message.
func NewCLIError(kind ErrorKind, code ExitCode, message string) *CLIError {
	return &CLIError{Kind: kind, Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(kind ErrorKind, code ExitCode, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf returns the ErrorKind of the first CLIError in err's chain,
// or KindGeneral for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind
	}
	return KindGeneral
}

// ExitCodeOf returns the exit code a process should terminate with for err.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
