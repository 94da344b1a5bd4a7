// Package txlog persists the record of the most recently completed
// release so that a separate, later invocation can roll it back.
package txlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corvidlabs/arm/internal/logger"
)

// dirName and fileName together give the fixed location
// "<repo>/.arm/last_release.json".
// There is no schema migration: a file written by an older version of
// this tool is read as-is.
const (
	dirName  = ".arm"
	fileName = "last_release.json"
)

// Transaction is the full record of one completed release.
type Transaction struct {
	CreatedAtUTC           string   `json:"created_at_utc"`
	RepoDir                string   `json:"repo_dir"`
	Version                string   `json:"version"`
	Tag                    string   `json:"tag,omitempty"`
	ChangelogPath          string   `json:"changelog_path,omitempty"`
	ChangelogCommitSHA     string   `json:"changelog_commit_sha,omitempty"`
	ChangelogExistedBefore bool     `json:"changelog_existed_before"`
	ChangelogBefore        string   `json:"changelog_before,omitempty"`
	Artifacts              []string `json:"artifacts"`
}

// Path returns the fixed transaction log path for a repository rooted
// at repoDir.
func Path(repoDir string) string {
	return filepath.Join(repoDir, dirName, fileName)
}

// Build assembles a Transaction, stamping CreatedAtUTC with now (passed
// in rather than read from the wall clock, keeping the orchestrator
// deterministic under test).
func Build(repoDir, version, tag, changelogPath, changelogCommitSHA string, changelogExistedBefore bool, changelogBefore string, artifacts []string, now time.Time) Transaction {
	return Transaction{
		CreatedAtUTC:           now.UTC().Format(time.RFC3339),
		RepoDir:                repoDir,
		Version:                version,
		Tag:                    tag,
		ChangelogPath:          changelogPath,
		ChangelogCommitSHA:     changelogCommitSHA,
		ChangelogExistedBefore: changelogExistedBefore,
		ChangelogBefore:        changelogBefore,
		Artifacts:              artifacts,
	}
}

// Write atomically persists tx to <repoDir>/.arm/last_release.json,
// two-space indented with a trailing newline, creating the .arm
// directory if needed.
func Write(repoDir string, tx Transaction) error {
	armDir := filepath.Join(repoDir, dirName)
	if err := os.MkdirAll(armDir, 0o755); err != nil {
		return fmt.Errorf("failed to create transaction log directory: %w (verify you have write permissions for '%s')", err, armDir)
	}

	data, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transaction record: %w", err)
	}
	data = append(data, '\n')

	path := Path(repoDir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transaction log: %w (verify you have write permissions for '%s')", err, armDir)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize transaction log: %w", err)
	}

	logger.Txlog.Debug().Str("path", path).Str("version", tx.Version).Msg("wrote release transaction")
	return nil
}

// Read loads the transaction log for repoDir.
func Read(repoDir string) (Transaction, error) {
	path := Path(repoDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to read transaction log: %w (no release may have been recorded yet for '%s')", err, repoDir)
	}
	var tx Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return Transaction{}, fmt.Errorf("failed to parse transaction log %q: %w", path, err)
	}
	return tx, nil
}

// Delete removes the transaction log file. A missing file is not an
// error: deletion is always best-effort, matching the rollback
// procedure's tolerance for partial prior state.
func Delete(repoDir string) error {
	err := os.Remove(Path(repoDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete transaction log: %w", err)
	}
	return nil
}

// Exists reports whether a transaction log is present for repoDir.
func Exists(repoDir string) bool {
	_, err := os.Stat(Path(repoDir))
	return err == nil
}
