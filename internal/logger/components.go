// Package logger provides structured logging functionality for the application.
package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component-specific sub-loggers provide pre-configured loggers with component context.
// This allows easy filtering and tracing of logs by component/package.
//
// Usage:
//   logger.Release.Debug().Str("state", "PACKAGED").Msg("building archive")
//
// Benefits:
// - Easy filtering: grep for "component":"release" in JSON logs
// - Better traceability in complex operations
// - Structured organization of logs

var (
	// VCS logger for version-control adapter operations
	VCS zerolog.Logger

	// Commit logger for conventional commit parsing
	Commit zerolog.Logger

	// Decision logger for the version decision engine
	Decision zerolog.Logger

	// Changelog logger for changelog rendering operations
	Changelog zerolog.Logger

	// Packager logger for archive packaging operations
	Packager zerolog.Logger

	// Txlog logger for transaction log read/write
	Txlog zerolog.Logger

	// State logger for release state machine transitions
	State zerolog.Logger

	// Release logger for orchestrator operations
	Release zerolog.Logger

	// Config logger for configuration operations
	Config zerolog.Logger
)

// InitComponentLoggers initializes all component-specific loggers.
// This should be called after Init() has configured the global logger.
func InitComponentLoggers() {
	VCS = log.With().Str("component", "vcs").Logger()
	Commit = log.With().Str("component", "commit").Logger()
	Decision = log.With().Str("component", "decision").Logger()
	Changelog = log.With().Str("component", "changelog").Logger()
	Packager = log.With().Str("component", "packager").Logger()
	Txlog = log.With().Str("component", "txlog").Logger()
	State = log.With().Str("component", "state").Logger()
	Release = log.With().Str("component", "release").Logger()
	Config = log.With().Str("component", "config").Logger()
}
