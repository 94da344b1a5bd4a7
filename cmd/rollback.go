// cmd/rollback.go

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/release"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Undo the most recently recorded release",
	Long: `rollback loads <repo>/.arm/last_release.json and reverses it: deletes
the tag, reverts (or, with --hard, resets past) the changelog commit,
and removes the recorded release archive unless --keep-artifacts is
given. A release that was pushed is never un-pushed; the remote is
left as-is.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		hard, _ := cmd.Flags().GetBool("hard")
		keepArtifacts, _ := cmd.Flags().GetBool("keep-artifacts")

		orch := release.New(repoDir, loadPolicy())
		if auditLog := newAuditLog(repoDir); auditLog != nil {
			orch.Audit = auditLog
			defer auditLog.Close()
		}
		res, err := orch.Rollback(release.RollbackOptions{
			DryRun:        dryRun,
			Hard:          hard,
			KeepArtifacts: keepArtifacts,
		})
		if err != nil {
			logger.Release.Error().Err(err).Msg("rollback failed")
			_ = output.WriteJSON(os.Stderr, output.RollbackOutput{
				Success: false,
				Actions: res.Actions,
				Error:   err.Error(),
			})
			os.Exit(1)
		}

		text := "rollback actions:\n  " + strings.Join(res.Actions, "\n  ")
		if len(res.Actions) == 0 {
			text = "rollback: nothing to undo"
		}

		return output.Write(os.Stdout, text, output.RollbackOutput{
			Success: true,
			Actions: res.Actions,
		})
	},
}

func init() {
	rollbackCmd.Flags().Bool("dry-run", false, "Preview the rollback actions without performing them")
	rollbackCmd.Flags().Bool("hard", false, "Hard-reset past the changelog commit instead of reverting it")
	rollbackCmd.Flags().Bool("keep-artifacts", false, "Do not delete the release's recorded archive")
	setupCommandConfig(rollbackCmd)
	RootCmd.AddCommand(rollbackCmd)
}
