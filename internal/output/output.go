// Package output provides utilities for formatting command output.
//
// It supports both human-readable text output and machine-readable JSON output,
// allowing commands to easily switch between formats based on user preference.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// IsJSONEnabled returns true if JSON output mode is enabled.
func IsJSONEnabled() bool {
	return viper.GetBool("app.json_output")
}

// WriteJSON writes a value as JSON to the given writer.
// It returns an error if JSON marshaling fails.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteString writes a string to the given writer.
// It returns an error if writing fails.
func WriteString(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Write writes output in the appropriate format (JSON or text) based on configuration.
// If JSON mode is enabled, it marshals the jsonValue.
// Otherwise, it writes the textValue as-is.
func Write(w io.Writer, textValue string, jsonValue interface{}) error {
	if IsJSONEnabled() {
		return WriteJSON(w, jsonValue)
	}
	return WriteString(w, textValue)
}

// StatusOutput is the JSON output structure for the status command.
type StatusOutput struct {
	Repo     string `json:"repo"`
	Dirty    bool   `json:"dirty"`
	LastTag  string `json:"last_tag,omitempty"`
	Branch   string `json:"branch,omitempty"`
	DiffStat string `json:"diff_stat,omitempty"`
}

// ValidateOutput is the JSON output structure for the validate command.
type ValidateOutput struct {
	Success bool     `json:"success"`
	Valid   int      `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

// PlanOutput is the JSON output structure for the plan command.
type PlanOutput struct {
	From             string `json:"from,omitempty"`
	To               string `json:"to"`
	CurrentVersion   string `json:"current_version"`
	NextVersion      string `json:"next_version"`
	Bump             string `json:"bump"`
	Reason           string `json:"reason"`
	ChangelogPreview string `json:"changelog_preview"`
}

// ReleaseOutput is the JSON output structure for a successful release.
type ReleaseOutput struct {
	CurrentVersion string   `json:"current_version"`
	NextVersion    string   `json:"next_version"`
	Bump           string   `json:"bump"`
	Reason         string   `json:"reason"`
	Tag            string   `json:"tag,omitempty"`
	DryRun         bool     `json:"dry_run"`
	RemoteSafe     bool     `json:"remote_safe"`
	Actions        []string `json:"actions"`
	Artifacts      []string `json:"artifacts"`
}

// ReleaseErrorOutput is the JSON output structure for a failed release,
// matching internal/release.ReleaseFailure's field set.
type ReleaseErrorOutput struct {
	Error               string   `json:"error"`
	DryRun              bool     `json:"dry_run"`
	Actions             []string `json:"actions"`
	AutoRollbackActions []string `json:"auto_rollback_actions"`
}

// RollbackOutput is the JSON output structure for the rollback command.
type RollbackOutput struct {
	Success bool     `json:"success"`
	Actions []string `json:"actions"`
	Error   string   `json:"error,omitempty"`
}
