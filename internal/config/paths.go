// Package config provides configuration management utilities.
package config

import "path/filepath"

// ConfigFileName is the TOML config file name this tool looks for,
// resolved relative to the target repository rather than the user's
// home directory -- release policy is a property of the repo, not the
// operator's machine.
const ConfigFileName = "arm.toml"

// DefaultConfigPath returns the default config file path for a
// repository rooted at repoDir.
func DefaultConfigPath(repoDir string) string {
	return filepath.Join(repoDir, ConfigFileName)
}
