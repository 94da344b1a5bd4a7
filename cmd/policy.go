// cmd/policy.go

package cmd

import (
	"github.com/spf13/viper"

	"github.com/corvidlabs/arm/internal/config"
	"github.com/corvidlabs/arm/internal/logger"
	"github.com/corvidlabs/arm/internal/policy"
)

// loadPolicy builds the effective release policy from the global viper
// instance, which has already been populated by initConfig with
// defaults, arm.toml, and ARM_-prefixed environment overrides.
func loadPolicy() policy.Policy {
	return config.LoadPolicy(viper.GetViper())
}

// newAuditLog opens the rotating audit log for repoDir per the global
// viper instance's audit.* settings, or returns nil when audit.enabled
// is false. Callers must Close a non-nil result once the release or
// rollback they guard has finished.
func newAuditLog(repoDir string) *logger.AuditLog {
	v := viper.GetViper()
	if !v.GetBool("audit.enabled") {
		return nil
	}
	return logger.NewAuditLog(repoDir, v.GetInt("audit.max_size_mb"), v.GetInt("audit.max_backups"))
}
