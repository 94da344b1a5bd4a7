// internal/config/config_test.go

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/arm/internal/policy"
)

func TestRegistryIncludesEveryCategory(t *testing.T) {
	options := Registry()
	assert.NotEmpty(t, options, "Registry should return configuration options")

	var hasCore, hasPolicy, hasAudit bool
	for _, opt := range options {
		switch opt.Key {
		case "app.log_level":
			hasCore = true
		case "policy.unknown_type_behavior":
			hasPolicy = true
		case "audit.enabled":
			hasAudit = true
		}
	}
	assert.True(t, hasCore, "Registry should include core options")
	assert.True(t, hasPolicy, "Registry should include policy options")
	assert.True(t, hasAudit, "Registry should include audit options")

	for _, opt := range options {
		assert.NotEmpty(t, opt.Key, "All options should have a key")
		assert.NotEmpty(t, opt.Description, "All options should have a description: %s", opt.Key)
		assert.NotEmpty(t, opt.Type, "All options should have a type: %s", opt.Key)
	}
}

func TestRegistryNoDuplicateKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, opt := range Registry() {
		assert.False(t, seen[opt.Key], "duplicate key found in registry: %s", opt.Key)
		seen[opt.Key] = true
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	SetDefaults()

	assert.Equal(t, "info", viper.Get("app.log_level"))
	assert.Equal(t, "patch", viper.Get("policy.unknown_type_behavior"))
	assert.Equal(t, true, viper.Get("audit.enabled"))

	for _, opt := range Registry() {
		assert.Equal(t, opt.DefaultValue, viper.Get(opt.Key), "viper should have the default value for %s", opt.Key)
	}
}

func TestSetDefaultsIdempotent(t *testing.T) {
	viper.Reset()
	SetDefaults()
	SetDefaults()
	assert.Equal(t, "info", viper.Get("app.log_level"))
}

func TestLoadPolicyFallsBackToDefaults(t *testing.T) {
	v := viper.New()
	got := LoadPolicy(v)
	assert.Equal(t, policy.Default(), got)
}

func TestLoadPolicyReadsValidKeys(t *testing.T) {
	v := viper.New()
	v.Set("policy.unknown_type_behavior", "fail")
	v.Set("policy.initial_version", "1.0.0")
	v.Set("policy.fail_on_dirty", false)
	v.Set("policy.allowed_branches", []string{"main", "release/*"})
	v.Set("policy.patch_types", []string{"fix"})

	got := LoadPolicy(v)
	assert.Equal(t, policy.UnknownFail, got.UnknownTypeBehavior)
	assert.Equal(t, "1.0.0", got.InitialVersion)
	assert.False(t, got.FailOnDirty)
	assert.Equal(t, []string{"main", "release/*"}, got.AllowedBranches)
	assert.True(t, got.PatchTypes["fix"])
	assert.False(t, got.PatchTypes["perf"], "an explicit patch_types list replaces, not merges with, the default set")
}

func TestLoadPolicyIgnoresWrongTypedKeys(t *testing.T) {
	v := viper.New()
	v.Set("policy.fail_on_dirty", "not-a-bool-or-recognized-string")
	v.Set("policy.initial_version", 123)
	v.Set("policy.patch_types", "fix,perf")

	got := LoadPolicy(v)
	def := policy.Default()
	assert.Equal(t, def.FailOnDirty, got.FailOnDirty)
	assert.Equal(t, def.InitialVersion, got.InitialVersion)
	assert.Equal(t, def.PatchTypes, got.PatchTypes)
}

func TestLoadPolicyCoercesStringBooleans(t *testing.T) {
	v := viper.New()
	v.Set("policy.fail_on_dirty", "false")
	got := LoadPolicy(v)
	assert.False(t, got.FailOnDirty)
}

func TestCoreOptionsHasLogLevel(t *testing.T) {
	var found bool
	for _, opt := range CoreOptions() {
		if opt.Key == "app.log_level" {
			found = true
			assert.Equal(t, "info", opt.DefaultValue)
			assert.Equal(t, "string", opt.Type)
		}
	}
	require.True(t, found, "CoreOptions should include app.log_level")
}

func TestPolicyOptionsMatchPolicyDefault(t *testing.T) {
	def := policy.Default()
	for _, opt := range PolicyOptions() {
		switch opt.Key {
		case "policy.initial_version":
			assert.Equal(t, def.InitialVersion, opt.DefaultValue)
		case "policy.fail_on_dirty":
			assert.Equal(t, def.FailOnDirty, opt.DefaultValue)
		case "policy.default_remote":
			assert.Equal(t, def.DefaultRemote, opt.DefaultValue)
		}
	}
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "/repo/arm.toml", DefaultConfigPath("/repo"))
}
