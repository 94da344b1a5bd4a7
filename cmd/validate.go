// cmd/validate.go

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/release"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate commits since the last release against Conventional Commits",
	Long: `validate parses every commit in the requested range and reports any
that do not match the Conventional Commits header grammar. A bad
commit is printed one per line on stderr; the command still exits 0
unless a non-conventional commit is found (exit 2).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if to == "" {
			to = "HEAD"
		}

		orch := release.New(repoDir, loadPolicy())

		if from == "" {
			tagPrefix := getConfigValue[string](cmd, "tag-prefix", "policy.tag_prefix")
			if tagPrefix == "" {
				tagPrefix = "v"
			}
			if tag, err := orch.Repo.LastTag(tagPrefix); err == nil && tag != "" {
				from = tagPrefix + tag
			}
		}

		res, err := orch.Validate(from, to)
		if err != nil {
			return err
		}

		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				sha := e.SHA
				if len(sha) > 8 {
					sha = sha[:8]
				}
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", sha, e.Reason, e.Subject)
			}
			if output.IsJSONEnabled() {
				msgs := make([]string, 0, len(res.Errors))
				for _, e := range res.Errors {
					msgs = append(msgs, e.Error())
				}
				_ = output.WriteJSON(os.Stdout, output.ValidateOutput{
					Success: false,
					Valid:   len(res.Parsed),
					Errors:  msgs,
				})
			}
			os.Exit(2)
		}

		return output.Write(os.Stdout, fmt.Sprintf("OK (%d commits)", len(res.Parsed)), output.ValidateOutput{
			Success: true,
			Valid:   len(res.Parsed),
		})
	},
}

func init() {
	validateCmd.Flags().String("from", "", "Start of the commit range (default: the last matching release tag)")
	validateCmd.Flags().String("to", "HEAD", "End of the commit range")
	validateCmd.Flags().String("tag-prefix", "v", "Prefix release tags carry (e.g. 'v' for v1.2.3)")
	setupCommandConfig(validateCmd)
	RootCmd.AddCommand(validateCmd)
}
