// Package repo provides the Git repository operations used by the
// gitflow-bump CLI: locating the repository root, checking that the working
// tree is clean, and committing the rewritten metadata file.
//
// All Git operations are performed by invoking the git binary through a
// process.Runner rather than using a Git library like go-git. This keeps
// behaviour identical to what the user sees in their terminal and lets tests
// substitute a recording runner.
package repo
