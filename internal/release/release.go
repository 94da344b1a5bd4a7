// Package release implements the autonomous release orchestrator: the
// single component that drives a release from a validated commit range
// through a tagged, changelogged, packaged, and optionally pushed
// result -- or unwinds everything it did if any step along the way
// fails.
package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corvidlabs/arm/internal/changelog"
	"github.com/corvidlabs/arm/internal/commit"
	"github.com/corvidlabs/arm/internal/decision"
	"github.com/corvidlabs/arm/internal/errs"
	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/packager"
	"github.com/corvidlabs/arm/internal/policy"
	"github.com/corvidlabs/arm/internal/semver"
	"github.com/corvidlabs/arm/internal/state"
	"github.com/corvidlabs/arm/internal/txlog"
	"github.com/corvidlabs/arm/internal/vcs"
)

// Orchestrator drives releases for a single repository under a single
// policy.
type Orchestrator struct {
	Repo    *vcs.Repo
	RepoDir string
	Policy  policy.Policy

	// Audit, when non-nil, receives one AuditEvent per state-machine
	// transition a release makes. It is additive to the in-memory
	// event journal every ReleaseContext already carries -- a nil
	// Audit never changes release or rollback behavior.
	Audit *logger.AuditLog
}

// New returns an Orchestrator rooted at repoDir, governed by p. No
// audit log is attached; set Audit directly to enable one.
func New(repoDir string, p policy.Policy) *Orchestrator {
	return &Orchestrator{Repo: vcs.New(repoDir), RepoDir: repoDir, Policy: p}
}

func (o *Orchestrator) audit(from, to, reason string, artifacts []string, now time.Time) {
	if o.Audit == nil {
		return
	}
	o.Audit.Append(logger.AuditEvent{
		From:      from,
		To:        to,
		Timestamp: now.UTC().Format(time.RFC3339),
		Reason:    reason,
		Artifacts: artifacts,
	})
}

// transition moves ctx forward one state and, if an audit log is
// attached, appends the same event to it -- additive to ctx's own
// in-memory event journal, never a replacement for it.
func (o *Orchestrator) transition(ctx *state.Context, to state.State, reason string, artifacts []string, now time.Time) error {
	from := ctx.Current
	if err := ctx.Transition(to, reason, artifacts, now); err != nil {
		return err
	}
	o.audit(from.String(), to.String(), reason, artifacts, now)
	return nil
}

// StatusResult is the payload for the status command. It never fails
// on a non-repository directory -- every field simply takes its zero
// value.
type StatusResult struct {
	Repo     string `json:"repo"`
	Dirty    bool   `json:"dirty"`
	LastTag  string `json:"last_tag,omitempty"`
	Branch   string `json:"branch,omitempty"`
	DiffStat string `json:"diff_stat,omitempty"`
}

// Status reports the repository's current working-tree and tag state.
// DiffStat is only populated when verbose is true: it is an opaque
// "git diff --stat" summary of everything since the last matching tag,
// costing an extra subprocess call that most callers don't need.
func (o *Orchestrator) Status(tagPrefix string, verbose bool) StatusResult {
	res := StatusResult{Repo: o.RepoDir}
	if dirty, err := o.Repo.IsDirty(); err == nil {
		res.Dirty = dirty
	}
	if tag, err := o.Repo.LastTag(tagPrefix); err == nil {
		if tag != "" {
			res.LastTag = tagPrefix + tag
		}
		if verbose {
			if stat, err := o.Repo.DiffStat(res.LastTag, "HEAD"); err == nil {
				res.DiffStat = stat
			}
		}
	}
	if branch, err := o.Repo.CurrentBranch(); err == nil {
		res.Branch = branch
	}
	return res
}

// resolveCurrentVersion resolves the repository's current version from
// its most recent matching tag, or from initialVersion if no tag
// exists. It also returns the full tag name (prefix included) for use
// as the start of the commit range, or "" when no tag exists.
func (o *Orchestrator) resolveCurrentVersion(tagPrefix, initialVersion string) (semver.SemVer, string, error) {
	lastTag, err := o.Repo.LastTag(tagPrefix)
	if err != nil {
		return semver.SemVer{}, "", err
	}
	if lastTag == "" {
		initial := initialVersion
		if initial == "" {
			initial = o.Policy.InitialVersion
		}
		v, err := semver.Parse(initial)
		return v, "", err
	}
	v, err := semver.Parse(lastTag)
	return v, tagPrefix + lastTag, err
}

// ValidateResult reports the outcome of validating a commit range.
type ValidateResult struct {
	Parsed []commit.Conventional
	Errors []*commit.Error
}

// Validate parses and classifies every commit in (fromRef, toRef].
func (o *Orchestrator) Validate(fromRef, toRef string) (ValidateResult, error) {
	if toRef == "" {
		toRef = "HEAD"
	}
	logs, err := o.Repo.CommitLogs(fromRef, toRef)
	if err != nil {
		return ValidateResult{}, err
	}
	raw := make([]commit.Raw, 0, len(logs))
	for _, l := range logs {
		raw = append(raw, commit.Raw{SHA: l.SHA, Subject: l.Subject, Body: l.Body})
	}
	parsed, cerrs := commit.Validate(raw)
	return ValidateResult{Parsed: parsed, Errors: cerrs}, nil
}

// PlanOptions parameterizes Plan.
type PlanOptions struct {
	Level          semver.BumpType
	TagPrefix      string
	InitialVersion string
	ToRef          string
	Now            time.Time
}

// PlanResult previews the version a release would produce, without any
// side effects.
type PlanResult struct {
	From             string
	To               string
	CurrentVersion   semver.SemVer
	NextVersion      semver.SemVer
	Bump             semver.BumpType
	Reason           string
	ChangelogPreview string
}

// Plan computes the bump a release would make right now, without
// writing anything.
func (o *Orchestrator) Plan(opts PlanOptions) (PlanResult, error) {
	toRef := opts.ToRef
	if toRef == "" {
		toRef = "HEAD"
	}
	tagPrefix := opts.TagPrefix
	if tagPrefix == "" {
		tagPrefix = "v"
	}
	current, lastTag, err := o.resolveCurrentVersion(tagPrefix, opts.InitialVersion)
	if err != nil {
		return PlanResult{}, err
	}

	v, err := o.Validate(lastTag, toRef)
	if err != nil {
		return PlanResult{}, err
	}
	if len(v.Errors) > 0 {
		return PlanResult{}, validationError(v.Errors)
	}

	next, d, err := decision.ComputeNext(current, v.Parsed, o.Policy, opts.Level)
	if err != nil {
		return PlanResult{}, decisionError(err)
	}

	preview := changelog.RenderSection(next, v.Parsed, opts.Now)

	return PlanResult{
		From:             lastTag,
		To:               toRef,
		CurrentVersion:   current,
		NextVersion:      next,
		Bump:             d.Bump,
		Reason:           d.Reason,
		ChangelogPreview: preview,
	}, nil
}

// ReleaseOptions parameterizes Release. Now is injected by the caller
// rather than read from the wall clock, keeping the changelog renderer
// and the transaction log timestamp deterministic under test.
type ReleaseOptions struct {
	DryRun         bool
	Level          semver.BumpType
	NoCommit       bool
	NoTag          bool
	SignCommit     bool
	SignTag        bool
	AllowDirty     bool
	Push           bool
	RemoteSafe     *bool // nil means "use policy default"
	Remote         string
	TagPrefix      string
	InitialVersion string
	ProjectName    string
	Now            time.Time
}

// ReleaseResult is the success payload for the release command.
type ReleaseResult struct {
	CurrentVersion string   `json:"current_version"`
	NextVersion    string   `json:"next_version"`
	Bump           string   `json:"bump"`
	Reason         string   `json:"reason"`
	Tag            string   `json:"tag,omitempty"`
	DryRun         bool     `json:"dry_run"`
	RemoteSafe     bool     `json:"remote_safe"`
	Actions        []string `json:"actions"`
	Artifacts      []string `json:"artifacts"`
}

// ReleaseFailure is the failure payload surfaced on stderr when a
// commit-phase step fails, per the JSON error envelope shape.
type ReleaseFailure struct {
	Message             string   `json:"error"`
	DryRun              bool     `json:"dry_run"`
	Actions             []string `json:"actions"`
	AutoRollbackActions []string `json:"auto_rollback_actions"`

	exitCode int
}

func (f *ReleaseFailure) Error() string { return f.Message }

// ExitCode is the process exit code the CLI should use for this
// failure: 2 for a validation or decision failure, 1 for everything
// else (policy violations, adapter errors, state-machine misuse).
func (f *ReleaseFailure) ExitCode() int { return f.exitCode }

func validationError(cerrs []*commit.Error) *errs.ValidationError {
	msgs := make([]string, 0, len(cerrs))
	for _, e := range cerrs {
		sha := e.SHA
		if len(sha) > 8 {
			sha = sha[:8]
		}
		msgs = append(msgs, fmt.Sprintf("%s %s: %s", sha, e.Reason, e.Subject))
	}
	return &errs.ValidationError{Messages: msgs}
}

func decisionError(err error) error {
	var ute *decision.UnknownTypeError
	if errors.As(err, &ute) {
		return &errs.DecisionError{Type: ute.Type}
	}
	return err
}

// Release runs a full release: preflight checks, then the commit-phase
// steps (changelog write, commit, tag, package, record transaction,
// push), rolling back via compensating actions in reverse order if any
// commit-phase step fails.
func (o *Orchestrator) Release(opts ReleaseOptions) (ReleaseResult, *ReleaseFailure) {
	branch, err := o.Repo.CurrentBranch()
	if err != nil {
		return ReleaseResult{}, toFailure(err, opts.DryRun, nil, nil)
	}
	if !o.Policy.BranchAllowed(branch) {
		return ReleaseResult{}, toFailure(&errs.PolicyViolation{
			Reason: fmt.Sprintf("Branch policy violation: current branch '%s' is not in allowed_branches.", branch),
		}, opts.DryRun, nil, nil)
	}

	remoteSafeEffective := o.Policy.RemoteSafeDefault
	if opts.RemoteSafe != nil {
		remoteSafeEffective = *opts.RemoteSafe
	}
	if opts.Push && remoteSafeEffective {
		return ReleaseResult{}, toFailure(&errs.PolicyViolation{
			Reason: "Remote-safe mode is enabled. Refusing push. Use --no-remote-safe with --push to allow.",
		}, opts.DryRun, nil, nil)
	}
	remoteName := opts.Remote
	if remoteName == "" {
		remoteName = o.Policy.DefaultRemote
	}

	enforceClean := o.Policy.FailOnDirty && !opts.AllowDirty
	if enforceClean {
		dirty, err := o.Repo.IsDirty()
		if err != nil {
			return ReleaseResult{}, toFailure(err, opts.DryRun, nil, nil)
		}
		if dirty {
			return ReleaseResult{}, toFailure(&errs.PolicyViolation{
				Reason: "Dirty working tree. Use --allow-dirty to override.",
			}, opts.DryRun, nil, nil)
		}
	}

	tagPrefix := opts.TagPrefix
	if tagPrefix == "" {
		tagPrefix = "v"
	}
	current, lastTag, err := o.resolveCurrentVersion(tagPrefix, opts.InitialVersion)
	if err != nil {
		return ReleaseResult{}, toFailure(err, opts.DryRun, nil, nil)
	}

	v, err := o.Validate(lastTag, "HEAD")
	if err != nil {
		return ReleaseResult{}, toFailure(err, opts.DryRun, nil, nil)
	}
	if len(v.Errors) > 0 {
		return ReleaseResult{}, toFailure(validationError(v.Errors), opts.DryRun, nil, nil)
	}

	next, d, err := decision.ComputeNext(current, v.Parsed, o.Policy, opts.Level)
	if err != nil {
		return ReleaseResult{}, toFailure(decisionError(err), opts.DryRun, nil, nil)
	}

	if err := changelog.ValidateHeaderVersion(next.Format()); err != nil {
		return ReleaseResult{}, toFailure(err, opts.DryRun, nil, nil)
	}
	section := changelog.RenderSection(next, v.Parsed, opts.Now)
	changelogPath := filepath.Join(o.RepoDir, "CHANGELOG.md")
	existing := ""
	existedBefore := false
	if data, err := os.ReadFile(changelogPath); err == nil {
		existing = string(data)
		existedBefore = true
	}

	tag := tagPrefix + next.Format()
	distDir := filepath.Join(o.RepoDir, "dist")

	ctx := state.NewContext()
	var actions []string
	var artifacts []string
	var changelogCommitSHA string
	tagCreated := false

	fail := func(cause error) *ReleaseFailure {
		var rollbackActions []string
		if !opts.DryRun {
			rollbackActions = o.compensate(tag, changelogCommitSHA, changelogPath, existedBefore, existing, artifacts, tagCreated)
		}
		return toFailure(cause, opts.DryRun, actions, rollbackActions)
	}

	if err := o.transition(ctx, state.DiffCollected, "collected commit range", nil, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}
	if err := o.transition(ctx, state.CommitsValidated, "validated commits", nil, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}
	if err := o.transition(ctx, state.VersionBumped, d.Reason, nil, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}

	actions = append(actions, fmt.Sprintf("write %s", changelogPath))
	if !opts.DryRun {
		if _, _, err := changelog.Prepend(changelogPath, section); err != nil {
			return ReleaseResult{}, fail(err)
		}
	}
	if err := o.transition(ctx, state.ChangelogWritten, "wrote changelog", []string{changelogPath}, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}

	if !opts.NoCommit {
		actions = append(actions, "git commit CHANGELOG.md")
		if !opts.DryRun {
			sha, err := o.Repo.CommitFile(changelogPath, fmt.Sprintf("chore(release): %s", tag), opts.SignCommit)
			if err != nil {
				return ReleaseResult{}, fail(err)
			}
			changelogCommitSHA = sha
		}
	}

	if !opts.NoTag {
		actions = append(actions, fmt.Sprintf("git tag %s", tag))
		if !opts.DryRun {
			if err := o.Repo.CreateTag(tag, tag, opts.SignTag); err != nil {
				return ReleaseResult{}, fail(err)
			}
			tagCreated = true
		}
	}

	actions = append(actions, "build zip")
	if !opts.DryRun {
		zipPath, err := packager.BuildZip(packager.Spec{
			ProjectName: opts.ProjectName,
			Version:     next.Format(),
			RepoDir:     o.RepoDir,
			DistDir:     distDir,
		})
		if err != nil {
			return ReleaseResult{}, fail(err)
		}
		artifacts = append(artifacts, zipPath)
	}

	if err := o.transition(ctx, state.Packaged, "built release archive", artifacts, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}

	if !opts.DryRun {
		recordedTag := tag
		if opts.NoTag {
			recordedTag = ""
		}
		tx := txlog.Build(o.RepoDir, next.Format(), recordedTag, changelogPath, changelogCommitSHA, existedBefore, existing, artifacts, opts.Now)
		if err := txlog.Write(o.RepoDir, tx); err != nil {
			return ReleaseResult{}, fail(err)
		}
	}

	if opts.Push {
		actions = append(actions, fmt.Sprintf("git push %s %s", remoteName, branch))
		if !opts.DryRun {
			if err := o.Repo.PushBranch(remoteName, branch); err != nil {
				return ReleaseResult{}, fail(err)
			}
		}
		if !opts.NoTag {
			actions = append(actions, fmt.Sprintf("git push %s %s", remoteName, tag))
			if !opts.DryRun {
				if err := o.Repo.PushTag(remoteName, tag); err != nil {
					return ReleaseResult{}, fail(err)
				}
			}
		}
	}

	if err := o.transition(ctx, state.Completed, "release complete", nil, opts.Now); err != nil {
		return ReleaseResult{}, fail(err)
	}

	resultTag := tag
	if opts.NoTag {
		resultTag = ""
	}
	logger.Release.Info().Str("version", next.Format()).Str("bump", d.Bump.String()).Msg("release completed")

	return ReleaseResult{
		CurrentVersion: current.Format(),
		NextVersion:    next.Format(),
		Bump:           d.Bump.String(),
		Reason:         d.Reason,
		Tag:            resultTag,
		DryRun:         opts.DryRun,
		RemoteSafe:     remoteSafeEffective,
		Actions:        actions,
		Artifacts:      artifacts,
	}, nil
}

// compensate runs the compensating actions for whatever commit-phase
// steps actually succeeded, in reverse order, never aborting on a
// failed compensation -- each failure is recorded as a string and the
// remaining compensations still run. A push is never reversed.
func (o *Orchestrator) compensate(tag, changelogCommitSHA, changelogPath string, existedBefore bool, priorContent string, artifacts []string, tagCreated bool) []string {
	var actions []string

	for _, a := range artifacts {
		if _, err := os.Stat(a); err == nil {
			if err := os.Remove(a); err != nil {
				actions = append(actions, fmt.Sprintf("failed deleting artifact %s: %v", a, err))
			} else {
				actions = append(actions, fmt.Sprintf("deleted artifact %s", a))
			}
		}
	}

	if tagCreated {
		if err := o.Repo.DeleteTag(tag); err != nil {
			actions = append(actions, fmt.Sprintf("failed deleting tag %s: %v", tag, err))
		} else {
			actions = append(actions, fmt.Sprintf("deleted tag %s", tag))
		}
	}

	switch {
	case changelogCommitSHA != "":
		if err := o.Repo.RevertCommit(changelogCommitSHA); err != nil {
			actions = append(actions, fmt.Sprintf("failed reverting commit %s: %v", changelogCommitSHA, err))
		} else {
			actions = append(actions, fmt.Sprintf("reverted commit %s", changelogCommitSHA))
		}
	default:
		if _, err := os.Stat(changelogPath); err == nil {
			if existedBefore {
				if err := os.WriteFile(changelogPath, []byte(priorContent), 0o644); err != nil {
					actions = append(actions, fmt.Sprintf("failed restoring previous CHANGELOG.md: %v", err))
				} else {
					actions = append(actions, "restored previous CHANGELOG.md")
				}
			} else {
				if err := os.Remove(changelogPath); err != nil {
					actions = append(actions, fmt.Sprintf("failed removing generated CHANGELOG.md: %v", err))
				} else {
					actions = append(actions, "removed generated CHANGELOG.md")
				}
			}
		}
	}

	return actions
}

func toFailure(err error, dryRun bool, actions, rollbackActions []string) *ReleaseFailure {
	return &ReleaseFailure{
		Message:             err.Error(),
		DryRun:              dryRun,
		Actions:             actions,
		AutoRollbackActions: rollbackActions,
		exitCode:            errs.ExitCode(err),
	}
}
