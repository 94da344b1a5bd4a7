package release

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/arm/internal/errs"
	"github.com/corvidlabs/arm/internal/policy"
	"github.com/corvidlabs/arm/internal/semver"
	"github.com/corvidlabs/arm/internal/txlog"
	"github.com/corvidlabs/arm/internal/vcs"
)

func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func commitAll(t *testing.T, dir, message string) {
	t.Helper()
	r := vcs.New(dir)
	cmd := exec.Command("git", "add", "-A")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	_, err := r.CommitFile(".", message, false)
	require.NoError(t, err)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestStatusOnCleanRepo(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: initial commit")

	o := New(dir, policy.Default())
	status := o.Status("v", false)
	assert.Equal(t, dir, status.Repo)
	assert.False(t, status.Dirty)
	assert.Empty(t, status.LastTag)
	assert.NotEmpty(t, status.Branch)
}

func TestStatusVerboseIncludesDiffStat(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: initial commit")

	r := vcs.New(dir)
	require.NoError(t, r.CreateTag("v1.0.0", "", false))
	writeFile(t, dir, "a.txt", "hello again")
	commitAll(t, dir, "fix: tweak a")

	o := New(dir, policy.Default())

	quiet := o.Status("v", false)
	assert.Empty(t, quiet.DiffStat)

	verbose := o.Status("v", true)
	assert.Equal(t, "v1.0.0", verbose.LastTag)
	assert.NotEmpty(t, verbose.DiffStat)
}

func TestStatusNeverFailsOutsideRepo(t *testing.T) {
	dir := t.TempDir()
	o := New(dir, policy.Default())
	status := o.Status("v", false)
	assert.Equal(t, dir, status.Repo)
	assert.False(t, status.Dirty)
}

func TestValidateClassifiesCommits(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: initial commit")
	writeFile(t, dir, "b.txt", "world")
	commitAll(t, dir, "not a conventional subject")

	o := New(dir, policy.Default())
	v, err := o.Validate("", "HEAD")
	require.NoError(t, err)
	assert.Len(t, v.Parsed, 1)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Non-conventional subject", v.Errors[0].Reason)
}

func TestPlanPreviewsWithoutSideEffects(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	plan, err := o.Plan(PlanOptions{TagPrefix: "v", Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", plan.CurrentVersion.Format())
	assert.Equal(t, "0.2.0", plan.NextVersion.Format())
	assert.Equal(t, semver.Minor, plan.Bump)
	assert.Equal(t, "feat", plan.Reason)
	assert.Contains(t, plan.ChangelogPreview, "## 0.2.0 - 2026-03-01")
	assert.Contains(t, plan.ChangelogPreview, "### Features")

	_, err = os.Stat(filepath.Join(dir, "CHANGELOG.md"))
	assert.True(t, os.IsNotExist(err), "plan must not write a changelog")
}

func TestPlanFailsUnderUnknownFailPolicy(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "wip: something unfinished")

	p := policy.Default()
	p.UnknownTypeBehavior = policy.UnknownFail
	o := New(dir, p)

	_, err := o.Plan(PlanOptions{TagPrefix: "v", Now: fixedNow})
	require.Error(t, err)
	var de *errs.DecisionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "wip", de.Type)
}

func TestReleaseDryRunProducesNoSideEffects(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	result, failure := o.Release(ReleaseOptions{
		DryRun:      true,
		TagPrefix:   "v",
		ProjectName: "demo",
		Now:         fixedNow,
	})
	require.Nil(t, failure)
	assert.Equal(t, "0.2.0", result.NextVersion)
	assert.True(t, result.DryRun)
	assert.NotEmpty(t, result.Actions)

	_, err := os.Stat(filepath.Join(dir, "CHANGELOG.md"))
	assert.True(t, os.IsNotExist(err))
	assert.False(t, txlog.Exists(dir))

	tags, err := exec.Command("git", "-C", dir, "tag").Output()
	require.NoError(t, err)
	assert.Empty(t, string(tags))
}

func TestReleaseEndToEndCreatesTagChangelogAndArchive(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	result, failure := o.Release(ReleaseOptions{
		TagPrefix:   "v",
		ProjectName: "demo",
		Now:         fixedNow,
	})
	require.Nil(t, failure)
	assert.Equal(t, "0.2.0", result.NextVersion)
	assert.Equal(t, "v0.2.0", result.Tag)
	assert.False(t, result.DryRun)
	require.Len(t, result.Artifacts, 1)
	assert.FileExists(t, result.Artifacts[0])

	changelogData, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(changelogData), "## 0.2.0 - 2026-03-01")

	exists, err := vcs.New(dir).TagExists("v0.2.0")
	require.NoError(t, err)
	assert.True(t, exists)

	require.True(t, txlog.Exists(dir))
	tx, err := txlog.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", tx.Version)
	assert.Equal(t, "v0.2.0", tx.Tag)
	assert.NotEmpty(t, tx.ChangelogCommitSHA)
}

func TestReleaseFailsOnDisallowedBranch(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	p := policy.Default()
	p.AllowedBranches = []string{"release/*"}
	o := New(dir, p)

	_, failure := o.Release(ReleaseOptions{TagPrefix: "v", ProjectName: "demo", Now: fixedNow})
	require.NotNil(t, failure)
	assert.Contains(t, failure.Message, "Branch policy violation")
}

func TestReleaseFailsOnDirtyWorkingTree(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")
	writeFile(t, dir, "b.txt", "uncommitted")

	o := New(dir, policy.Default())
	_, failure := o.Release(ReleaseOptions{TagPrefix: "v", ProjectName: "demo", Now: fixedNow})
	require.NotNil(t, failure)
	assert.Contains(t, failure.Message, "Dirty working tree")
}

func TestReleaseRefusesPushUnderRemoteSafe(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	_, failure := o.Release(ReleaseOptions{
		TagPrefix:   "v",
		ProjectName: "demo",
		Now:         fixedNow,
		Push:        true,
	})
	require.NotNil(t, failure)
	assert.Contains(t, failure.Message, "Remote-safe mode is enabled")
}

func TestReleaseFailsOnUnknownTypeUnderFailPolicy(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "wip: half done")

	p := policy.Default()
	p.UnknownTypeBehavior = policy.UnknownFail
	o := New(dir, p)

	_, failure := o.Release(ReleaseOptions{TagPrefix: "v", ProjectName: "demo", Now: fixedNow})
	require.NotNil(t, failure)
	assert.Contains(t, failure.Message, "wip")
	assert.Empty(t, failure.AutoRollbackActions, "failure before any commit-phase step needs no compensation")
}

func TestRollbackUndoesRelease(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	result, failure := o.Release(ReleaseOptions{TagPrefix: "v", ProjectName: "demo", Now: fixedNow})
	require.Nil(t, failure)

	rb, err := o.Rollback(RollbackOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, rb.Actions)

	exists, err := vcs.New(dir).TagExists("v0.2.0")
	require.NoError(t, err)
	assert.False(t, exists, "rollback should delete the release tag")

	for _, a := range result.Artifacts {
		_, err := os.Stat(a)
		assert.True(t, os.IsNotExist(err), "rollback should delete the built archive")
	}

	assert.False(t, txlog.Exists(dir), "rollback deletes the transaction log on success")
}

func TestRollbackDryRunReportsWithoutActing(t *testing.T) {
	dir := newTestRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	commitAll(t, dir, "feat: add widget")

	o := New(dir, policy.Default())
	_, failure := o.Release(ReleaseOptions{TagPrefix: "v", ProjectName: "demo", Now: fixedNow})
	require.Nil(t, failure)

	rb, err := o.Rollback(RollbackOptions{DryRun: true})
	require.NoError(t, err)
	assert.NotEmpty(t, rb.Actions)

	exists, err := vcs.New(dir).TagExists("v0.2.0")
	require.NoError(t, err)
	assert.True(t, exists, "dry-run rollback must not delete the tag")
	assert.True(t, txlog.Exists(dir))
}
