// cmd/status.go

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/release"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the repository's working-tree and release state",
	Long: `status reports whether the working tree is dirty, the most recent
release tag, and the current branch. It never fails: a field simply
stays empty if it cannot be determined (for example, when run outside
a git repository).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		orch := release.New(repoDir, loadPolicy())

		tagPrefix := getConfigValue[string](cmd, "tag-prefix", "policy.tag_prefix")
		if tagPrefix == "" {
			tagPrefix = "v"
		}
		verbose, _ := cmd.Flags().GetBool("verbose")

		res := orch.Status(tagPrefix, verbose)

		text := fmt.Sprintf("repo: %s\ndirty: %t", res.Repo, res.Dirty)
		if res.LastTag != "" {
			text += fmt.Sprintf("\nlast_tag: %s", res.LastTag)
		}
		if res.Branch != "" {
			text += fmt.Sprintf("\nbranch: %s", res.Branch)
		}
		if res.DiffStat != "" {
			text += fmt.Sprintf("\n\n%s", res.DiffStat)
		}

		return output.Write(os.Stdout, text, output.StatusOutput{
			Repo:     res.Repo,
			Dirty:    res.Dirty,
			LastTag:  res.LastTag,
			Branch:   res.Branch,
			DiffStat: res.DiffStat,
		})
	},
}

func init() {
	statusCmd.Flags().String("tag-prefix", "v", "Prefix release tags carry (e.g. 'v' for v1.2.3)")
	statusCmd.Flags().BoolP("verbose", "v", false, "Also print a diff --stat summary since the last release tag")
	setupCommandConfig(statusCmd)
	RootCmd.AddCommand(statusCmd)
}
