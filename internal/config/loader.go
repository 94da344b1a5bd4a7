// internal/config/loader.go
//
// Translates a viper instance (populated from defaults, arm.toml, and
// ARM_-prefixed environment variables) into a policy.Policy. Every key
// is read defensively: a value of the wrong type falls back to its
// registry default rather than panicking or propagating a parse error,
// since a single malformed key in an otherwise-good config file should
// never block a release.

package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/corvidlabs/arm/internal/policy"
)

// LoadPolicy builds a policy.Policy from v, falling back field-by-field
// to policy.Default() for anything missing or malformed.
func LoadPolicy(v *viper.Viper) policy.Policy {
	p := policy.Default()

	p.PatchTypes = readStringSet(v, "policy.patch_types", p.PatchTypes)
	p.NoBumpTypes = readStringSet(v, "policy.no_bump_types", p.NoBumpTypes)
	p.UnknownTypeBehavior = policy.UnknownTypeBehavior(readString(v, "policy.unknown_type_behavior", string(p.UnknownTypeBehavior)))
	p.InitialVersion = readString(v, "policy.initial_version", p.InitialVersion)
	p.FailOnDirty = readBool(v, "policy.fail_on_dirty", p.FailOnDirty)
	p.AllowedBranches = readStringSlice(v, "policy.allowed_branches", p.AllowedBranches)
	p.RemoteSafeDefault = readBool(v, "policy.remote_safe_default", p.RemoteSafeDefault)
	p.DefaultRemote = readString(v, "policy.default_remote", p.DefaultRemote)

	return p
}

func readString(v *viper.Viper, key, fallback string) string {
	raw := v.Get(key)
	if raw == nil {
		return fallback
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func readBool(v *viper.Viper, key string, fallback bool) bool {
	raw := v.Get(key)
	if raw == nil {
		return fallback
	}
	switch b := raw.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return fallback
}

func readStringSlice(v *viper.Viper, key string, fallback []string) []string {
	raw := v.Get(key)
	if raw == nil {
		return fallback
	}
	items, ok := toStringSlice(raw)
	if !ok {
		return fallback
	}
	return items
}

func readStringSet(v *viper.Viper, key string, fallback map[string]bool) map[string]bool {
	raw := v.Get(key)
	if raw == nil {
		return fallback
	}
	items, ok := toStringSlice(raw)
	if !ok {
		return fallback
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.TrimSpace(it)] = true
	}
	return set
}

func toStringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
