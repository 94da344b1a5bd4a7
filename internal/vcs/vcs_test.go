package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repo {
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
	return New(dir)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIsDirty(t *testing.T) {
	r := newTestRepo(t)
	dirty, err := r.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	writeFile(t, r.Dir, "a.txt", "hello")
	dirty, err = r.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCurrentBranch(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r.Dir, "a.txt", "hello")
	_, err := r.CommitFile("a.txt", "feat: initial", false)
	require.NoError(t, err)

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.NotEmpty(t, branch)
}

func TestLastTagStripsLiteralPrefixOnly(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r.Dir, "a.txt", "hello")
	_, err := r.CommitFile("a.txt", "feat: initial", false)
	require.NoError(t, err)
	require.NoError(t, r.CreateTag("v0.0.0", "v0.0.0", false))

	tag, err := r.LastTag("v")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", tag, "a literal-prefix strip must not eat the leading digit")
}

func TestLastTagNoMatch(t *testing.T) {
	r := newTestRepo(t)
	tag, err := r.LastTag("v")
	require.NoError(t, err)
	assert.Empty(t, tag)
}

func TestCommitLogsDelimiterRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r.Dir, "a.txt", "1")
	_, err := r.CommitFile("a.txt", "feat: first\n\nBREAKING CHANGE: old behavior removed", false)
	require.NoError(t, err)
	writeFile(t, r.Dir, "a.txt", "2")
	_, err = r.CommitFile("a.txt", "fix: second", false)
	require.NoError(t, err)

	logs, err := r.CommitLogs("", "HEAD")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "feat: first", logs[0].Subject)
	assert.Contains(t, logs[0].Body, "BREAKING CHANGE: old behavior removed")
	assert.Equal(t, "fix: second", logs[1].Subject)
}

func TestCreateAndDeleteTag(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r.Dir, "a.txt", "1")
	_, err := r.CommitFile("a.txt", "feat: first", false)
	require.NoError(t, err)

	require.NoError(t, r.CreateTag("v1.0.0", "v1.0.0", false))
	exists, err := r.TagExists("v1.0.0")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, r.DeleteTag("v1.0.0"))
	exists, err = r.TagExists("v1.0.0")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteMissingTagReturnsAdapterError(t *testing.T) {
	r := newTestRepo(t)
	err := r.DeleteTag("does-not-exist")
	require.Error(t, err)
	var ae *AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Args, "tag")
}

func TestHardResetDropsLaterCommits(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r.Dir, "a.txt", "1")
	sha1, err := r.CommitFile("a.txt", "feat: first", false)
	require.NoError(t, err)
	writeFile(t, r.Dir, "a.txt", "2")
	_, err = r.CommitFile("a.txt", "fix: second", false)
	require.NoError(t, err)

	require.NoError(t, r.HardReset(sha1))
	logs, err := r.CommitLogs("", "HEAD")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
