package release

import (
	"fmt"
	"os"
	"time"

	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/txlog"
)

// RollbackOptions parameterizes Rollback.
type RollbackOptions struct {
	DryRun        bool
	Hard          bool
	KeepArtifacts bool
}

// RollbackResult lists the actions a rollback took (or, under DryRun,
// would take).
type RollbackResult struct {
	Actions []string `json:"actions"`
}

// Rollback undoes the most recently recorded release: deletes its tag
// (ignoring a missing tag), then either hard-resets to the parent of
// the changelog commit or reverts it, or -- if the release never
// committed the changelog -- restores or removes the changelog file
// directly, then deletes the release's artifacts unless KeepArtifacts
// is set. It always reads the transaction log fresh and, on success,
// deletes it so a rollback cannot be replayed twice.
func (o *Orchestrator) Rollback(opts RollbackOptions) (RollbackResult, error) {
	tx, err := txlog.Read(o.RepoDir)
	if err != nil {
		return RollbackResult{}, err
	}

	var actions []string

	if tx.Tag != "" {
		actions = append(actions, fmt.Sprintf("delete tag %s", tx.Tag))
		if !opts.DryRun {
			// A missing tag is not a rollback failure: the tag may
			// already have been deleted by a prior partial rollback.
			_ = o.Repo.DeleteTag(tx.Tag)
		}
	}

	switch {
	case tx.ChangelogCommitSHA != "":
		if opts.Hard {
			actions = append(actions, fmt.Sprintf("hard reset to %s^", tx.ChangelogCommitSHA))
			if !opts.DryRun {
				if err := o.Repo.HardReset(tx.ChangelogCommitSHA + "^"); err != nil {
					return RollbackResult{Actions: actions}, err
				}
			}
		} else {
			actions = append(actions, fmt.Sprintf("revert commit %s", tx.ChangelogCommitSHA))
			if !opts.DryRun {
				if err := o.Repo.RevertCommit(tx.ChangelogCommitSHA); err != nil {
					return RollbackResult{Actions: actions}, err
				}
			}
		}
	case tx.ChangelogPath != "":
		actions = append(actions, fmt.Sprintf("restore changelog %s", tx.ChangelogPath))
		if !opts.DryRun {
			if tx.ChangelogExistedBefore {
				if err := os.WriteFile(tx.ChangelogPath, []byte(tx.ChangelogBefore), 0o644); err != nil {
					return RollbackResult{Actions: actions}, err
				}
			} else if err := os.Remove(tx.ChangelogPath); err != nil && !os.IsNotExist(err) {
				return RollbackResult{Actions: actions}, err
			}
		}
	}

	if !opts.KeepArtifacts {
		for _, a := range tx.Artifacts {
			actions = append(actions, fmt.Sprintf("delete artifact %s", a))
			if !opts.DryRun {
				if err := os.Remove(a); err != nil && !os.IsNotExist(err) {
					return RollbackResult{Actions: actions}, err
				}
			}
		}
	}

	if !opts.DryRun {
		_ = txlog.Delete(o.RepoDir)
	}

	if o.Audit != nil && !opts.DryRun {
		o.Audit.Append(logger.AuditEvent{
			From:      "COMPLETED",
			To:        "ROLLED_BACK",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Reason:    fmt.Sprintf("rolled back release %s", tx.Version),
			Artifacts: tx.Artifacts,
		})
	}

	logger.Release.Info().Str("version", tx.Version).Int("actions", len(actions)).Msg("rollback completed")
	return RollbackResult{Actions: actions}, nil
}
