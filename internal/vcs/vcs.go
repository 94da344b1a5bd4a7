// Package vcs is the narrow git adapter the release orchestrator talks
// to. Every operation shells out to the git CLI; there is no direct use
// of a git library, matching the reference implementation's subprocess
// boundary (so the adapter can be tested against a real repository in
// t.TempDir() without mocking file formats git itself owns).
package vcs

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/corvidlabs/arm/internal/logger"
)

// commitLogFormat puts the sha, subject, and body of one commit on
// separate lines and ends the record with a literal "==END==" line,
// a marker unlikely to appear in a commit message.
const commitLogFormat = "%H%n%s%n%b%n==END=="

// AdapterError is the single error kind this package returns. It always
// carries the failing command line and the subprocess's stderr, never a
// stack trace, so callers can surface a precise diagnostic.
type AdapterError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *AdapterError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, stderr)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Repo is a git adapter rooted at Dir.
type Repo struct {
	Dir string
}

// New returns a Repo rooted at dir.
func New(dir string) *Repo {
	return &Repo{Dir: dir}
}

func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		logger.VCS.Debug().Strs("args", args).Err(err).Msg("git command failed")
		return "", &AdapterError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return string(out), nil
}

// IsDirty reports whether the working tree has uncommitted changes,
// staged or unstaged.
func (r *Repo) IsDirty() (bool, error) {
	out, err := r.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := r.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LastTag returns the most recent tag reachable from HEAD whose name
// starts with prefix, with prefix stripped from the returned string. An
// empty result (no error) means no matching tag exists.
//
// prefix is stripped as a literal leading substring, not with
// strings.TrimLeft's character-class semantics -- TrimLeft("vv1.0.0",
// "v") would strip both leading "v"s and yield "1.0.0", which is
// exactly the bug the reference implementation's lstrip-based approach
// carried.
func (r *Repo) LastTag(prefix string) (string, error) {
	pattern := prefix + "*"
	args := []string{"tag", "--list", pattern, "--sort=-creatordate"}
	// With no commits yet there is nothing for a tag to be reachable from.
	if _, err := r.run("rev-parse", "--verify", "-q", "HEAD"); err == nil {
		args = append(args, "--merged", "HEAD")
	}
	out, err := r.run(args...)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", nil
	}
	tag := lines[0]
	return strings.TrimPrefix(tag, prefix), nil
}

// CommitLog is a single parsed commit record.
type CommitLog struct {
	SHA     string
	Subject string
	Body    string
}

// CommitLogs returns commits in from..to order (oldest first), reusing
// the reference implementation's exact delimiter format so multi-line
// commit bodies can be split back out unambiguously. from may be empty,
// in which case the log starts from the repository root.
func (r *Repo) CommitLogs(from, to string) ([]CommitLog, error) {
	if to == "" {
		to = "HEAD"
	}
	rangeArg := to
	if from != "" {
		rangeArg = from + ".." + to
	}
	out, err := r.run("log", "--reverse", "--pretty=format:"+commitLogFormat, rangeArg)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(out), nil
}

func parseCommitLog(raw string) []CommitLog {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	records := strings.Split(raw, "==END==")
	logs := make([]CommitLog, 0, len(records))
	for _, rec := range records {
		rec = strings.Trim(rec, "\n")
		if rec == "" {
			continue
		}
		parts := strings.SplitN(rec, "\n", 3)
		cl := CommitLog{SHA: parts[0]}
		if len(parts) > 1 {
			cl.Subject = parts[1]
		}
		if len(parts) > 2 {
			cl.Body = strings.Trim(parts[2], "\n")
		}
		logs = append(logs, cl)
	}
	return logs
}

// DiffStat returns the "git diff --stat" summary between from and to.
func (r *Repo) DiffStat(from, to string) (string, error) {
	if to == "" {
		to = "HEAD"
	}
	rangeArg := to
	if from != "" {
		rangeArg = from + ".." + to
	}
	return r.run("diff", "--stat", rangeArg)
}

// CommitFile stages path and commits it with message. When sign is
// true, the commit is GPG-signed via "git commit -S".
func (r *Repo) CommitFile(path, message string, sign bool) (string, error) {
	if _, err := r.run("add", path); err != nil {
		return "", err
	}
	args := []string{"commit", "-m", message}
	if sign {
		args = append(args, "-S")
	}
	if _, err := r.run(args...); err != nil {
		return "", err
	}
	sha, err := r.run("rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sha), nil
}

// CreateTag creates an annotated tag named name at HEAD. When sign is
// true, the tag is GPG-signed via "git tag -s".
func (r *Repo) CreateTag(name, message string, sign bool) error {
	args := []string{"tag", "-a", name, "-m", message}
	if sign {
		args = []string{"tag", "-s", name, "-m", message}
	}
	_, err := r.run(args...)
	return err
}

// DeleteTag deletes tag name. A missing tag is not treated as an error
// by callers that expect rollback to be tolerant of partial state; this
// method itself still reports whatever git reports.
func (r *Repo) DeleteTag(name string) error {
	_, err := r.run("tag", "-d", name)
	return err
}

// PushBranch pushes the current branch to remote.
func (r *Repo) PushBranch(remote, branch string) error {
	_, err := r.run("push", remote, branch)
	return err
}

// PushTag pushes tag to remote.
func (r *Repo) PushTag(remote, tag string) error {
	_, err := r.run("push", remote, tag)
	return err
}

// RevertCommit reverts sha without opening an editor.
func (r *Repo) RevertCommit(sha string) error {
	_, err := r.run("revert", "--no-edit", sha)
	return err
}

// HardReset resets the working tree and index to ref, discarding all
// changes since.
func (r *Repo) HardReset(ref string) error {
	_, err := r.run("reset", "--hard", ref)
	return err
}

// TagExists reports whether tag name exists locally.
func (r *Repo) TagExists(name string) (bool, error) {
	out, err := r.run("tag", "--list", name)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}
