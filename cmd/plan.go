// cmd/plan.go

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/release"
	"github.com/corvidlabs/arm/internal/semver"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the version bump a release would make, without any side effects",
	Long: `plan resolves the current version, validates the commit range, and
computes the next version and the reason it was chosen -- exactly what
release would do, except nothing is written, committed, tagged, or
packaged.`,
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

		tagPrefix := getConfigValue[string](cmd, "tag-prefix", "policy.tag_prefix")
		if tagPrefix == "" {
			tagPrefix = "v"
		}
		initialVersion, _ := cmd.Flags().GetString("initial-version")
		toRef, _ := cmd.Flags().GetString("to")

		orch := release.New(repoDir, loadPolicy())
		res, err := orch.Plan(release.PlanOptions{
			Level:          level,
			TagPrefix:      tagPrefix,
			InitialVersion: initialVersion,
			ToRef:          toRef,
			Now:            time.Now(),
		})
		if err != nil {
			return err
		}

		text := fmt.Sprintf("current: %s\nnext:    %s\nbump:    %s\nreason:  %s",
			res.CurrentVersion.Format(), res.NextVersion.Format(), res.Bump.String(), res.Reason)

		return output.Write(os.Stdout, text, output.PlanOutput{
			From:             res.From,
			To:               res.To,
			CurrentVersion:   res.CurrentVersion.Format(),
			NextVersion:      res.NextVersion.Format(),
			Bump:             res.Bump.String(),
			Reason:           res.Reason,
			ChangelogPreview: res.ChangelogPreview,
		})
	},
}

func init() {
	planCmd.Flags().String("level", "auto", "Force a bump level instead of computing one from commits (auto, none, patch, minor, major)")
	planCmd.Flags().String("tag-prefix", "v", "Prefix release tags carry (e.g. 'v' for v1.2.3)")
	planCmd.Flags().String("initial-version", "", "Version to assume when no release tag exists yet")
	planCmd.Flags().String("to", "HEAD", "End of the commit range")
	setupCommandConfig(planCmd)
	RootCmd.AddCommand(planCmd)
}
