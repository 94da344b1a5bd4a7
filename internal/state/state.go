// Package state implements the release state machine: a strictly
// linear, one-way sequence of phases with an append-only event journal.
package state

import (
	"fmt"
	"time"
)

// State is a single point in the release lifecycle.
type State int

const (
	New State = iota
	DiffCollected
	CommitsValidated
	VersionBumped
	ChangelogWritten
	Packaged
	Completed
)

func (s State) String() string {
	switch s {
	case New:
		return "NEW"
	case DiffCollected:
		return "DIFF_COLLECTED"
	case CommitsValidated:
		return "COMMITS_VALIDATED"
	case VersionBumped:
		return "VERSION_BUMPED"
	case ChangelogWritten:
		return "CHANGELOG_WRITTEN"
	case Packaged:
		return "PACKAGED"
	case Completed:
		return "COMPLETED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// next holds, for each state, the single state allowed to follow it.
// Completed has no successor: the machine is linear and one-way.
var next = map[State]State{
	New:               DiffCollected,
	DiffCollected:     CommitsValidated,
	CommitsValidated:  VersionBumped,
	VersionBumped:     ChangelogWritten,
	ChangelogWritten:  Packaged,
	Packaged:          Completed,
}

// Error reports an attempted transition that the linear state machine
// does not permit. This indicates a programmer error in the orchestrator
// and should never occur in production use.
type Error struct {
	From, To State
}

func (e *Error) Error() string {
	return fmt.Sprintf("illegal state transition: %s -> %s", e.From, e.To)
}

// Event records a single transition: the states involved, when it
// happened, why, and any artifacts it produced.
type Event struct {
	From      State
	To        State
	Timestamp time.Time
	Reason    string
	Artifacts []string
}

// Context tracks the current state of a release and its event journal.
type Context struct {
	Current State
	Events  []Event
}

// NewContext returns a Context in the initial NEW state.
func NewContext() *Context {
	return &Context{Current: New}
}

// Transition moves the context from its current state to to, appending
// an event to the journal. It returns a *Error, leaving the context
// unchanged, if to is not the single permitted successor of Current.
func (c *Context) Transition(to State, reason string, artifacts []string, now time.Time) error {
	want, ok := next[c.Current]
	if !ok || want != to {
		return &Error{From: c.Current, To: to}
	}
	c.Events = append(c.Events, Event{
		From:      c.Current,
		To:        to,
		Timestamp: now.UTC(),
		Reason:    reason,
		Artifacts: artifacts,
	})
	c.Current = to
	return nil
}
