// Package mcpserver exposes a read-only view of the release manager as
// Model Context Protocol tools: arm_status, arm_plan, arm_validate, and
// arm_release. These call internal/release directly -- the orchestrator
// is already a clean library boundary, so there is no subprocess, no
// JSON round-trip through a child process, and no dependency on the arm
// binary being on PATH.
//
// arm_release always forces DryRun: an MCP client is never allowed to
// trigger a real commit, tag, push, or archive write. This is a
// deliberate, permanent restriction, not a configurable option.
package mcpserver

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/corvidlabs/arm/internal/output"
	"github.com/corvidlabs/arm/internal/policy"
	"github.com/corvidlabs/arm/internal/release"
	"github.com/corvidlabs/arm/internal/semver"
)

// RepoResolver returns the repository directory a tool call should
// operate on. The server binary supplies a fixed directory; tests
// supply a temporary one.
type RepoResolver func() string

// StatusInput parameterizes the arm_status tool.
type StatusInput struct {
	TagPrefix string `json:"tag_prefix,omitempty" jsonschema:"description=Prefix release tags carry (default v)"`
	Verbose   bool   `json:"verbose,omitempty" jsonschema:"description=Also include a diff --stat summary since the last release tag"`
}

// Status implements the arm_status MCP tool: working-tree and tag state,
// never failing on a non-repository directory.
func Status(repo RepoResolver) func(context.Context, *mcpsdk.CallToolRequest, StatusInput) (*mcpsdk.CallToolResult, output.StatusOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, output.StatusOutput, error) {
		tagPrefix := input.TagPrefix
		if tagPrefix == "" {
			tagPrefix = "v"
		}
		orch := release.New(repo(), policy.Default())
		res := orch.Status(tagPrefix, input.Verbose)
		return nil, output.StatusOutput{
			Repo:     res.Repo,
			Dirty:    res.Dirty,
			LastTag:  res.LastTag,
			Branch:   res.Branch,
			DiffStat: res.DiffStat,
		}, nil
	}
}

// ValidateInput parameterizes the arm_validate tool.
type ValidateInput struct {
	From string `json:"from,omitempty" jsonschema:"description=Start of the commit range (default: the last matching release tag)"`
	To   string `json:"to,omitempty" jsonschema:"description=End of the commit range (default HEAD)"`
}

// Validate implements the arm_validate MCP tool.
func Validate(repo RepoResolver) func(context.Context, *mcpsdk.CallToolRequest, ValidateInput) (*mcpsdk.CallToolResult, output.ValidateOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input ValidateInput) (*mcpsdk.CallToolResult, output.ValidateOutput, error) {
		orch := release.New(repo(), policy.Default())

		from := input.From
		if from == "" {
			if tag, err := orch.Repo.LastTag("v"); err == nil && tag != "" {
				from = "v" + tag
			}
		}
		to := input.To
		if to == "" {
			to = "HEAD"
		}

		res, err := orch.Validate(from, to)
		if err != nil {
			return nil, output.ValidateOutput{Success: false, Errors: []string{err.Error()}}, err
		}
		if len(res.Errors) > 0 {
			msgs := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				msgs = append(msgs, e.Error())
			}
			return nil, output.ValidateOutput{Success: false, Valid: len(res.Parsed), Errors: msgs}, nil
		}
		return nil, output.ValidateOutput{Success: true, Valid: len(res.Parsed)}, nil
	}
}

// PlanInput parameterizes the arm_plan tool.
type PlanInput struct {
	Level          string `json:"level,omitempty" jsonschema:"enum=auto,enum=none,enum=patch,enum=minor,enum=major,description=Force a bump level instead of computing one from commits"`
	TagPrefix      string `json:"tag_prefix,omitempty" jsonschema:"description=Prefix release tags carry (default v)"`
	InitialVersion string `json:"initial_version,omitempty" jsonschema:"description=Version to assume when no release tag exists yet"`
}

// Plan implements the arm_plan MCP tool: the version bump a release
// would make right now, with no side effects.
func Plan(repo RepoResolver) func(context.Context, *mcpsdk.CallToolRequest, PlanInput) (*mcpsdk.CallToolResult, output.PlanOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input PlanInput) (*mcpsdk.CallToolResult, output.PlanOutput, error) {
		level := semver.None
		if input.Level != "" && input.Level != "auto" {
			parsed, err := semver.ParseBumpType(input.Level)
			if err != nil {
				return nil, output.PlanOutput{}, err
			}
			level = parsed
		}
		tagPrefix := input.TagPrefix
		if tagPrefix == "" {
			tagPrefix = "v"
		}

		orch := release.New(repo(), policy.Default())
		res, err := orch.Plan(release.PlanOptions{
			Level:          level,
			TagPrefix:      tagPrefix,
			InitialVersion: input.InitialVersion,
			Now:            time.Now(),
		})
		if err != nil {
			return nil, output.PlanOutput{}, err
		}

		return nil, output.PlanOutput{
			From:             res.From,
			To:               res.To,
			CurrentVersion:   res.CurrentVersion.Format(),
			NextVersion:      res.NextVersion.Format(),
			Bump:             res.Bump.String(),
			Reason:           res.Reason,
			ChangelogPreview: res.ChangelogPreview,
		}, nil
	}
}

// ReleaseInput parameterizes the arm_release tool. There is no DryRun
// field: every call through this tool runs dry-run, unconditionally.
type ReleaseInput struct {
	Level          string `json:"level,omitempty" jsonschema:"enum=auto,enum=none,enum=patch,enum=minor,enum=major,description=Force a bump level instead of computing one from commits"`
	TagPrefix      string `json:"tag_prefix,omitempty" jsonschema:"description=Prefix release tags carry (default v)"`
	InitialVersion string `json:"initial_version,omitempty" jsonschema:"description=Version to assume when no release tag exists yet"`
	ProjectName    string `json:"project_name,omitempty" jsonschema:"description=Project name used in the archive file name"`
	AllowDirty     bool   `json:"allow_dirty,omitempty" jsonschema:"description=Preview the plan even with a dirty working tree"`
}

// Release implements the arm_release MCP tool: a preview of what
// "release" would do, always forced to dry-run so an MCP client can
// never trigger a real commit, tag, push, or archive write.
func Release(repo RepoResolver) func(context.Context, *mcpsdk.CallToolRequest, ReleaseInput) (*mcpsdk.CallToolResult, output.ReleaseOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, input ReleaseInput) (*mcpsdk.CallToolResult, output.ReleaseOutput, error) {
		level := semver.None
		if input.Level != "" && input.Level != "auto" {
			parsed, err := semver.ParseBumpType(input.Level)
			if err != nil {
				return nil, output.ReleaseOutput{}, err
			}
			level = parsed
		}
		tagPrefix := input.TagPrefix
		if tagPrefix == "" {
			tagPrefix = "v"
		}
		projectName := input.ProjectName
		if projectName == "" {
			projectName = "release"
		}

		orch := release.New(repo(), policy.Default())
		res, fail := orch.Release(release.ReleaseOptions{
			DryRun:         true,
			Level:          level,
			AllowDirty:     input.AllowDirty,
			TagPrefix:      tagPrefix,
			InitialVersion: input.InitialVersion,
			ProjectName:    projectName,
			Now:            time.Now(),
		})
		if fail != nil {
			return nil, output.ReleaseOutput{DryRun: true}, fail
		}

		return nil, output.ReleaseOutput{
			CurrentVersion: res.CurrentVersion,
			NextVersion:    res.NextVersion,
			Bump:           res.Bump,
			Reason:         res.Reason,
			Tag:            res.Tag,
			DryRun:         res.DryRun,
			RemoteSafe:     res.RemoteSafe,
			Actions:        res.Actions,
			Artifacts:      res.Artifacts,
		}, nil
	}
}
