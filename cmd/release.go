// cmd/release.go

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/release"
	"github.com/corvidlabs/arm/internal/semver"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Classify commits, bump the version, render a changelog, package, commit, and tag",
	Long: `release drives the full autonomous release sequence: it validates the
commit range since the last matching tag, computes the next semantic
version, writes a dated changelog section, builds a source archive,
commits and tags the result, and optionally pushes. Any failure during
the commit phase triggers compensating actions that unwind whatever
already succeeded, in reverse order.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		levelFlag, _ := cmd.Flags().GetString("level")
		level := semver.None
		if levelFlag != "" && levelFlag != "auto" {
			parsed, err := semver.ParseBumpType(levelFlag)
			if err != nil {
				return err
			}
			level = parsed
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		noCommit, _ := cmd.Flags().GetBool("no-commit")
		noTag, _ := cmd.Flags().GetBool("no-tag")
		signCommit, _ := cmd.Flags().GetBool("sign-commit")
		signTag, _ := cmd.Flags().GetBool("sign-tag")
		allowDirty, _ := cmd.Flags().GetBool("allow-dirty")
		push, _ := cmd.Flags().GetBool("push")
		remote, _ := cmd.Flags().GetString("remote")
		tagPrefix := getConfigValue[string](cmd, "tag-prefix", "policy.tag_prefix")
		if tagPrefix == "" {
			tagPrefix = "v"
		}
		initialVersion, _ := cmd.Flags().GetString("initial-version")
		projectName, _ := cmd.Flags().GetString("project-name")
		if projectName == "" {
			abs, err := filepath.Abs(repoDir)
			if err != nil {
				abs = repoDir
			}
			projectName = filepath.Base(abs)
		}

		var remoteSafe *bool
		switch {
		case cmd.Flags().Changed("no-remote-safe"):
			v, _ := cmd.Flags().GetBool("no-remote-safe")
			safe := !v
			remoteSafe = &safe
		case cmd.Flags().Changed("remote-safe"):
			v, _ := cmd.Flags().GetBool("remote-safe")
			remoteSafe = &v
		}

		orch := release.New(repoDir, loadPolicy())
		if auditLog := newAuditLog(repoDir); auditLog != nil && !dryRun {
			orch.Audit = auditLog
			defer auditLog.Close()
		}
		res, fail := orch.Release(release.ReleaseOptions{
			DryRun:         dryRun,
			Level:          level,
			NoCommit:       noCommit,
			NoTag:          noTag,
			SignCommit:     signCommit,
			SignTag:        signTag,
			AllowDirty:     allowDirty,
			Push:           push,
			RemoteSafe:     remoteSafe,
			Remote:         remote,
			TagPrefix:      tagPrefix,
			InitialVersion: initialVersion,
			ProjectName:    projectName,
			Now:            time.Now(),
		})

		if fail != nil {
			logger.Release.Error().Str("error", fail.Message).Msg("release failed")
			_ = output.WriteJSON(os.Stderr, output.ReleaseErrorOutput{
				Error:               fail.Message,
				DryRun:              fail.DryRun,
				Actions:             fail.Actions,
				AutoRollbackActions: fail.AutoRollbackActions,
			})
			os.Exit(fail.ExitCode())
		}

		text := fmt.Sprintf("current: %s\nnext:    %s\nbump:    %s\nreason:  %s\ntag:     %s\ndry_run: %t",
			res.CurrentVersion, res.NextVersion, res.Bump, res.Reason, res.Tag, res.DryRun)

		return output.Write(os.Stdout, text, output.ReleaseOutput{
			CurrentVersion: res.CurrentVersion,
			NextVersion:    res.NextVersion,
			Bump:           res.Bump,
			Reason:         res.Reason,
			Tag:            res.Tag,
			DryRun:         res.DryRun,
			RemoteSafe:     res.RemoteSafe,
			Actions:        res.Actions,
			Artifacts:      res.Artifacts,
		})
	},
}

func init() {
	releaseCmd.Flags().Bool("dry-run", false, "Preview every action without writing, committing, tagging, or packaging anything")
	releaseCmd.Flags().String("level", "auto", "Force a bump level instead of computing one from commits (auto, none, patch, minor, major)")
	releaseCmd.Flags().Bool("no-commit", false, "Skip committing the changelog")
	releaseCmd.Flags().Bool("no-tag", false, "Skip creating the release tag")
	releaseCmd.Flags().Bool("sign-commit", false, "GPG-sign the changelog commit")
	releaseCmd.Flags().Bool("sign-tag", false, "GPG-sign the release tag")
	releaseCmd.Flags().Bool("allow-dirty", false, "Proceed even if the working tree has uncommitted changes")
	releaseCmd.Flags().Bool("push", false, "Push the branch and tag to the remote after a successful release")
	releaseCmd.Flags().Bool("remote-safe", true, "Refuse --push unless --no-remote-safe is also given")
	releaseCmd.Flags().Bool("no-remote-safe", false, "Allow --push to reach the remote; overrides --remote-safe")
	releaseCmd.Flags().String("remote", "origin", "Git remote name used for --push")
	releaseCmd.Flags().String("tag-prefix", "v", "Prefix release tags carry (e.g. 'v' for v1.2.3)")
	releaseCmd.Flags().String("initial-version", "", "Version to use when the repository has no prior release tag")
	releaseCmd.Flags().String("project-name", "", "Project name used in the archive file name (default: the repository's base directory name)")
	setupCommandConfig(releaseCmd)
	RootCmd.AddCommand(releaseCmd)
}
