package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogAppendsLineDelimitedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".arm"), 0o755))

	log := NewAuditLog(dir, 10, 3)
	log.Append(AuditEvent{From: "NEW", To: "DIFF_COLLECTED", Timestamp: "2026-03-01T12:00:00Z"})
	log.Append(AuditEvent{From: "DIFF_COLLECTED", To: "COMMITS_VALIDATED", Timestamp: "2026-03-01T12:00:01Z", Reason: "validated commits"})
	require.NoError(t, log.Close())

	f, err := os.Open(filepath.Join(dir, ".arm", "audit.log"))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first AuditEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "NEW", first.From)
	assert.Equal(t, "DIFF_COLLECTED", first.To)

	var second AuditEvent
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "validated commits", second.Reason)
}
