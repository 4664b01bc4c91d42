// Package lifecycle orchestrates the start and finish sequences of gitflow
// hotfix and release branches while keeping the package's declared version
// in lockstep with the branch name.
//
// Each operation is a fixed sequence of guarded steps:
//
//	start:  PRECHECK -> LOAD -> BUMP -> FLOW START -> REPORT
//	finish: PRECHECK -> RESOLVE -> METADATA UPDATE -> COMMIT -> FLOW FINISH -> REPORT
//
// Every step is awaited before the next begins and the first failure ends
// the operation. Nothing is rolled back: a failure after a mutation leaves
// the repository for the user to resume manually, and the returned error
// names the command that failed.
//
// The only protection against concurrent invocations is the clean working
// tree precondition; running two operations against one repository at the
// same time is not supported.
package lifecycle
