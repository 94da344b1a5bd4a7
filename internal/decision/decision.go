// Package decision implements the version decision engine: folding a
// list of parsed Conventional Commits through a policy into a single
// bump decision, and applying forced overrides.
package decision

import (
	"errors"
	"fmt"

	"github.com/corvidlabs/arm/internal/commit"
	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/policy"
	"github.com/corvidlabs/arm/internal/semver"
)

// Decision pairs a bump with a short human-readable explanation of why
// it was chosen.
type Decision struct {
	Bump   semver.BumpType
	Reason string
}

// ErrUnknownType is returned when a commit's type is neither a
// recognized bump type nor a no-bump type, and the policy's
// UnknownTypeBehavior is "fail". It is recoverable: callers map it to a
// DecisionError and continue (exit code 2), it is never a panic.
var ErrUnknownType = errors.New("unknown conventional commit type under fail policy")

// UnknownTypeError carries the offending commit type alongside
// ErrUnknownType so callers can report it.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownType, e.Type)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// FromCommit classifies a single parsed commit into a bump decision,
// per the following rules:
//  1. breaking            -> major, "breaking change"
//  2. type == "feat"      -> minor, "feat"
//  3. type in patch_types -> patch, <type>
//  4. type in no_bump     -> none, <type>
//  5. otherwise, per policy.NormalizeBehavior():
//     none -> none, "unknown:none:<type>"
//     fail -> UnknownTypeError
//     patch (default) -> patch, "unknown:patch:<type>"
func FromCommit(c commit.Conventional, p policy.Policy) (Decision, error) {
	if c.Breaking {
		return Decision{Bump: semver.Major, Reason: "breaking change"}, nil
	}
	if c.Type == "feat" {
		return Decision{Bump: semver.Minor, Reason: "feat"}, nil
	}
	if p.PatchTypes[c.Type] {
		return Decision{Bump: semver.Patch, Reason: c.Type}, nil
	}
	if p.NoBumpTypes[c.Type] {
		return Decision{Bump: semver.None, Reason: c.Type}, nil
	}

	switch p.NormalizeBehavior() {
	case policy.UnknownNone:
		return Decision{Bump: semver.None, Reason: "unknown:none:" + c.Type}, nil
	case policy.UnknownFail:
		return Decision{}, &UnknownTypeError{Type: c.Type}
	default: // UnknownPatch
		return Decision{Bump: semver.Patch, Reason: "unknown:patch:" + c.Type}, nil
	}
}

// MaxBump folds a list of decisions to the single decision carrying the
// highest bump. The *first* decision achieving the maximum wins the
// reason field (a stable fold); an empty list yields (none, "no commits").
func MaxBump(decisions []Decision) Decision {
	if len(decisions) == 0 {
		return Decision{Bump: semver.None, Reason: "no commits"}
	}
	best := decisions[0]
	for _, d := range decisions[1:] {
		if d.Bump > best.Bump {
			best = d
		}
	}
	return best
}

// ComputeNext folds commits through policy to determine the next
// version. If forced is non-None, it overrides the fold entirely --
// including bypassing a "fail" policy on unknown types, since no commit
// scanning occurs in that path.
func ComputeNext(current semver.SemVer, commits []commit.Conventional, p policy.Policy, forced semver.BumpType) (semver.SemVer, Decision, error) {
	if forced != semver.None {
		d := Decision{Bump: forced, Reason: "forced"}
		logger.Decision.Debug().Str("bump", forced.String()).Msg("forced bump overrides commit scan")
		return current.Bump(forced), d, nil
	}

	decisions := make([]Decision, 0, len(commits))
	for _, c := range commits {
		d, err := FromCommit(c, p)
		if err != nil {
			return semver.SemVer{}, Decision{}, err
		}
		decisions = append(decisions, d)
	}

	best := MaxBump(decisions)
	logger.Decision.Debug().Str("bump", best.Bump.String()).Str("reason", best.Reason).Msg("computed next version")
	return current.Bump(best.Bump), best, nil
}
