// Package model defines the domain types and value objects for the
// gitflow-bump CLI.
//
// This package contains pure data structures with no external dependencies.
// Versions, bump kinds and branch kinds are created per invocation from
// user arguments and the package metadata on disk; all durable state lives
// in the Git repository and in the metadata file.
//
// The package also defines exit codes (ExitCode), error kinds (ErrorKind)
// and a custom error type (CLIError) that carries exit codes for proper
// OS process exit handling.
package model
