// internal/config/registry.go
//
// The configuration registry: a single source of truth for every key
// this tool reads, its default, and how to describe it. Keeping the
// registry separate from the loading logic lets SetDefaults and this
// package's own tests enumerate every known key without having to
// parse viper's internal state.

package config

import "github.com/spf13/viper"

// ConfigOption documents one recognized configuration key.
type ConfigOption struct {
	Key          string
	DefaultValue any
	Description  string
	Type         string // "string", "bool", "int", "[]string"
	Required     bool
	Example      string
}

// Registry returns every configuration option this tool recognizes,
// drawn from every category (ambient logging, release policy, audit
// trail).
func Registry() []ConfigOption {
	var all []ConfigOption
	all = append(all, CoreOptions()...)
	all = append(all, PolicyOptions()...)
	all = append(all, AuditOptions()...)
	return all
}

// SetDefaults installs every Registry() option's default value into the
// global viper instance, so a missing config file (or a config file
// that omits a key) still produces a fully usable configuration.
func SetDefaults() {
	for _, opt := range Registry() {
		viper.SetDefault(opt.Key, opt.DefaultValue)
	}
}
