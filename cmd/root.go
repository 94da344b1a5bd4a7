// cmd/root.go

// Package cmd wires the autonomous release manager's subcommands atop
// a cobra root command: status, validate, plan, release, and rollback.
//
// Configuration is repo-scoped rather than home-directory-scoped: arm
// reads "<repo>/arm.toml" (overridable with --config), where repo is
// the directory named by the global --repo flag (default ".").
package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/corvidlabs/arm/internal/config"
	"github.com/corvidlabs/arm/internal/logger"
)

var (
	cfgFile          string
	repoDir          string
	Version          = "dev"
	Commit           = ""
	Date             = ""
	binaryName       = "arm"
	configFileStatus string
	configFileUsed   string
)

// EnvPrefix returns the sanitized environment variable prefix this
// binary reads configuration overrides from.
func EnvPrefix() string {
	return config.EnvPrefix(binaryName)
}

// RootCmd represents the base command when called without any subcommands.
// It is exported so that tests in other packages can manipulate it.
var RootCmd = &cobra.Command{
	Use:   binaryName,
	Short: "An autonomous release manager for Conventional Commits projects",
	Long: fmt.Sprintf(`%s inspects a git repository's Conventional Commits history, computes
the next semantic version, renders a changelog entry, packages a
source snapshot, and commits/tags the release -- rolling back
everything it did if any step fails.`, binaryName),
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if err := logger.Init(nil); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configFileStatus != "" {
			if configFileUsed != "" {
				log.Info().Str("config_file", configFileUsed).Msg(configFileStatus)
			} else {
				log.Debug().Msg(configFileStatus)
			}
		}

		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It returns an error if there was
// a problem during execution.
func Execute() error {
	RootCmd.Version = fmt.Sprintf("%s, commit %s, built at %s", Version, Commit, Date)
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "Path to the git repository to operate on")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is <repo>/arm.toml)")
	if err := viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config")); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind 'config' flag")
	}

	RootCmd.PersistentFlags().String("log-level", "info", "Set the log level (trace, debug, info, warn, error, fatal, panic)")
	if err := viper.BindPFlag("app.log_level", RootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind 'log-level'")
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(config.DefaultConfigPath(repoDir))
		viper.SetConfigType("toml")
	}

	envPrefix := EnvPrefix()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values from registry.
	// IMPORTANT: Never set defaults directly with viper.SetDefault() here.
	// All defaults MUST be defined in internal/config/registry.go
	config.SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configFileStatus = "No config file found, using defaults and environment variables"
		} else {
			log.Error().Err(err).Msg("Failed to read config file")
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileStatus = "Using config file"
		configFileUsed = viper.ConfigFileUsed()
	}

	return nil
}

// setupCommandConfig creates a PreRunE function that integrates with the root PersistentPreRunE
// to provide consistent configuration initialization with command-specific behavior.
func setupCommandConfig(cmd *cobra.Command) {
	originalPreRunE := cmd.PreRunE

	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		if originalPreRunE != nil {
			if err := originalPreRunE(c, args); err != nil {
				return err
			}
		}
		log.Debug().Str("command", c.Name()).Msg("Applying command-specific configuration")
		return nil
	}
}

// getConfigValue retrieves a configuration value with the following precedence:
// 1. Command line flag (if set)
// 2. Configuration from viper (environment variable or config file)
func getConfigValue[T any](cmd *cobra.Command, flagName string, viperKey string) T {
	var value T

	if v := viper.Get(viperKey); v != nil {
		if typedValue, ok := v.(T); ok {
			value = typedValue
		}
	}

	if cmd.Flags().Changed(flagName) {
		switch any(value).(type) {
		case string:
			if v, err := cmd.Flags().GetString(flagName); err == nil {
				if typedValue, ok := any(v).(T); ok {
					value = typedValue
				}
			}
		case bool:
			if v, err := cmd.Flags().GetBool(flagName); err == nil {
				if typedValue, ok := any(v).(T); ok {
					value = typedValue
				}
			}
		case int:
			if v, err := cmd.Flags().GetInt(flagName); err == nil {
				if typedValue, ok := any(v).(T); ok {
					value = typedValue
				}
			}
		case float64:
			if v, err := cmd.Flags().GetFloat64(flagName); err == nil {
				if typedValue, ok := any(v).(T); ok {
					value = typedValue
				}
			}
		case []string:
			if v, err := cmd.Flags().GetStringSlice(flagName); err == nil {
				if typedValue, ok := any(v).(T); ok {
					value = typedValue
				}
			}
		}
	}

	return value
}
