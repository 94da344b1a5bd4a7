package logger

import (
	"encoding/json"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditEvent is the line-delimited JSON record appended to the audit
// trail for a single release-state-machine transition. It mirrors
// state.Event rather than importing package state directly, so this
// package keeps its place at the bottom of the dependency graph.
type AuditEvent struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Timestamp string   `json:"timestamp"`
	Reason    string   `json:"reason,omitempty"`
	Artifacts []string `json:"artifacts,omitempty"`
}

// AuditLog appends a release's state-machine journal to
// "<repo>/.arm/audit.log" as it happens. It is additive to the
// in-memory event journal a release already carries, not a replacement:
// losing the audit file never affects release or rollback behavior.
type AuditLog struct {
	writer *lumberjack.Logger
}

// NewAuditLog returns the rotating audit log for repoDir, rotating at
// maxSizeMB with maxBackups retained. Nothing is opened or created until
// the first Append.
func NewAuditLog(repoDir string, maxSizeMB, maxBackups int) *AuditLog {
	return &AuditLog{writer: &lumberjack.Logger{
		Filename:   filepath.Join(repoDir, ".arm", "audit.log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   false,
	}}
}

// Append writes one event as a single JSON line. A marshal failure is
// logged and swallowed; a write failure is logged and swallowed -- the
// audit trail is best-effort and must never block or fail a release.
func (a *AuditLog) Append(event AuditEvent) {
	line, err := json.Marshal(event)
	if err != nil {
		Release.Warn().Err(err).Msg("failed to encode audit event")
		return
	}
	line = append(line, '\n')
	if _, err := a.writer.Write(line); err != nil {
		Release.Warn().Err(err).Msg("failed to append audit event")
	}
}

// Close flushes and closes the underlying rotating file.
func (a *AuditLog) Close() error {
	return a.writer.Close()
}
