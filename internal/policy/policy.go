// Package policy holds the declarative rules that gate and configure a
// release: which commit types bump what, which branches releases may
// run from, whether a dirty working tree is tolerated, and whether
// pushing to a remote is considered safe by default.
package policy

import (
	"path"
	"strings"
)

// UnknownTypeBehavior controls what happens when a commit's type is
// neither a recognized bump-triggering type nor in NoBumpTypes.
type UnknownTypeBehavior string

const (
	UnknownPatch UnknownTypeBehavior = "patch"
	UnknownNone  UnknownTypeBehavior = "none"
	UnknownFail  UnknownTypeBehavior = "fail"
)

// Policy is the full set of declarative release rules. All fields have
// sensible defaults (see Default) so a missing or partial config file
// still produces a usable policy.
type Policy struct {
	PatchTypes          map[string]bool
	NoBumpTypes         map[string]bool
	UnknownTypeBehavior UnknownTypeBehavior
	InitialVersion      string
	FailOnDirty         bool
	AllowedBranches     []string // glob patterns; empty means allow all
	RemoteSafeDefault   bool
	DefaultRemote       string
}

// Default returns the release policy used when no config file (or no
// matching key) is present.
func Default() Policy {
	return Policy{
		PatchTypes:          set("fix", "perf", "refactor", "docs", "chore", "test", "build", "ci", "style"),
		NoBumpTypes:         set("revert", "merge"),
		UnknownTypeBehavior: UnknownPatch,
		InitialVersion:      "0.1.0",
		FailOnDirty:         true,
		AllowedBranches:     nil,
		RemoteSafeDefault:   true,
		DefaultRemote:       "origin",
	}
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// NormalizeBehavior lower-cases and trims UnknownTypeBehavior, defaulting
// to "patch" for any value that is not one of patch/none/fail.
func (p Policy) NormalizeBehavior() UnknownTypeBehavior {
	b := UnknownTypeBehavior(strings.ToLower(strings.TrimSpace(string(p.UnknownTypeBehavior))))
	switch b {
	case UnknownPatch, UnknownNone, UnknownFail:
		return b
	default:
		return UnknownPatch
	}
}

// BranchAllowed reports whether branch matches the allow-list. An empty
// allow-list permits any branch. Patterns are shell-style globs
// (*, ?, [...]), matched with path.Match semantics.
func (p Policy) BranchAllowed(branch string) bool {
	if len(p.AllowedBranches) == 0 {
		return true
	}
	for _, pattern := range p.AllowedBranches {
		if ok, err := path.Match(pattern, branch); err == nil && ok {
			return true
		}
	}
	return false
}
