// internal/config/policy_options.go
//
// Release policy configuration options. These populate the single
// [policy] table in arm.toml; every key is optional and falls back to
// policy.Default() when absent.

package config

// PolicyOptions returns configuration options for the release policy.
func PolicyOptions() []ConfigOption {
	return []ConfigOption{
		{
			Key:          "policy.patch_types",
			DefaultValue: []string{"fix", "perf", "refactor", "docs", "chore", "test", "build", "ci", "style"},
			Description:  "Conventional commit types that trigger a patch-level bump",
			Type:         "[]string",
			Required:     false,
			Example:      "[\"fix\", \"perf\"]",
		},
		{
			Key:          "policy.no_bump_types",
			DefaultValue: []string{"revert", "merge"},
			Description:  "Conventional commit types that never trigger a version bump on their own",
			Type:         "[]string",
			Required:     false,
			Example:      "[\"revert\"]",
		},
		{
			Key:          "policy.unknown_type_behavior",
			DefaultValue: "patch",
			Description:  "What to do with a commit type that is neither a patch type nor a no-bump type (patch, none, fail)",
			Type:         "string",
			Required:     false,
			Example:      "fail",
		},
		{
			Key:          "policy.initial_version",
			DefaultValue: "0.1.0",
			Description:  "Version to use when the repository has no prior release tag",
			Type:         "string",
			Required:     false,
			Example:      "0.0.1",
		},
		{
			Key:          "policy.fail_on_dirty",
			DefaultValue: true,
			Description:  "Refuse to release when the working tree has uncommitted changes",
			Type:         "bool",
			Required:     false,
			Example:      "false",
		},
		{
			Key:          "policy.allowed_branches",
			DefaultValue: []string{},
			Description:  "Glob patterns of branches releases may run from; empty permits any branch",
			Type:         "[]string",
			Required:     false,
			Example:      "[\"main\", \"release/*\"]",
		},
		{
			Key:          "policy.remote_safe_default",
			DefaultValue: true,
			Description:  "Refuse to push unless --no-remote-safe is explicitly passed alongside --push",
			Type:         "bool",
			Required:     false,
			Example:      "false",
		},
		{
			Key:          "policy.default_remote",
			DefaultValue: "origin",
			Description:  "Git remote name used for --push",
			Type:         "string",
			Required:     false,
			Example:      "upstream",
		},
	}
}
