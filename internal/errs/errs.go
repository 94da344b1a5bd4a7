// Package errs defines the distinct error kinds the release orchestrator
// and CLI surface, so callers can dispatch on error identity with
// errors.As instead of string-matching messages.
package errs

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/arm/internal/vcs"
)

// releaseError is a private marker interface: every exported error type
// in this package implements it, letting callers assert "is this one of
// ours" without enumerating every concrete type.
type releaseError interface {
	error
	isReleaseError()
}

// PolicyViolation reports a precondition the release policy rejected
// before any side effect occurred: branch not allowed, remote-safe mode
// refusing a push, or a dirty working tree under fail_on_dirty. Exit
// code 1.
type PolicyViolation struct {
	Reason string
}

func (e *PolicyViolation) Error() string { return e.Reason }
func (*PolicyViolation) isReleaseError() {}

// ValidationError reports one or more commits that failed Conventional
// Commits validation. Exit code 2.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d commit(s) failed validation:\n%s", len(e.Messages), strings.Join(e.Messages, "\n"))
}
func (*ValidationError) isReleaseError() {}

// DecisionError reports an unknown commit type encountered while the
// policy's unknown_type_behavior is "fail". Exit code 2.
type DecisionError struct {
	Type string
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("commit type %q is unrecognized and unknown_type_behavior is \"fail\"", e.Type)
}
func (*DecisionError) isReleaseError() {}

// AdapterError is the version-control adapter's error kind, always
// carrying the failing command line and the subprocess's stderr, never
// a stack trace. It is defined in package vcs, next to the adapter
// itself; it is re-exported here so callers can dispatch on every
// release error kind through this one package.
type AdapterError = vcs.AdapterError

// StateMachineError reports an illegal release-state transition. This
// is a programmer error in the orchestrator and should never occur in
// production use.
type StateMachineError struct {
	From, To string
}

func (e *StateMachineError) Error() string {
	return fmt.Sprintf("illegal state transition: %s -> %s", e.From, e.To)
}
func (*StateMachineError) isReleaseError() {}

// RollbackPartialFailure reports that one or more compensating actions
// failed while rolling back an in-progress release. The outer
// invocation still exits 1; each failure is recorded as a string rather
// than aborting the remaining compensations.
type RollbackPartialFailure struct {
	Failures []string
}

func (e *RollbackPartialFailure) Error() string {
	return fmt.Sprintf("%d rollback action(s) failed:\n%s", len(e.Failures), strings.Join(e.Failures, "\n"))
}
func (*RollbackPartialFailure) isReleaseError() {}

// Is reports whether err is one of PolicyViolation, ValidationError,
// DecisionError, StateMachineError, or RollbackPartialFailure.
// AdapterError is a distinct alias to vcs.AdapterError and is checked
// separately with errors.As.
func Is(err error) bool {
	_, ok := err.(releaseError)
	return ok
}

// ExitCode maps an error to the process exit code its kind carries:
// 2 for a commit-validation or version-decision failure, 1 for
// everything else (policy violations, adapter failures, state machine
// misuse, partial rollback failures, and any error this package does
// not recognize).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *ValidationError, *DecisionError:
		return 2
	default:
		return 1
	}
}
