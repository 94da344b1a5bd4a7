package txlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStampsUTC(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	local := time.Date(2026, 7, 31, 9, 0, 0, 0, loc)
	tx := Build("/repo", "1.0.0", "v1.0.0", "CHANGELOG.md", "deadbeef", true, "old content", []string{"dist/x.zip"}, local)
	assert.Equal(t, "1.0.0", tx.Version)
	assert.Contains(t, tx.CreatedAtUTC, "2026-07-31T08:00:00Z")
}

func TestWriteReadRoundTrip(t *testing.T) {
	repo := t.TempDir()
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	tx := Build(repo, "0.2.0", "v0.2.0", "CHANGELOG.md", "abc123", false, "", []string{"dist/demo-0.2.0.zip"}, now)

	require.NoError(t, Write(repo, tx))
	assert.True(t, Exists(repo))

	got, err := Read(repo)
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestWriteIndentAndTrailingNewline(t *testing.T) {
	repo := t.TempDir()
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	tx := Build(repo, "0.1.0", "", "", "", false, "", nil, now)
	require.NoError(t, Write(repo, tx))

	data, err := os.ReadFile(Path(repo))
	require.NoError(t, err)
	assert.True(t, len(data) > 0 && data[len(data)-1] == '\n')

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(data, &roundTrip))

	lines := splitLines(string(data))
	assert.Equal(t, "{", lines[0])
	assert.True(t, len(lines) > 1 && lines[1][0:2] == "  ")
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	repo := t.TempDir()
	assert.NoError(t, Delete(repo))
}

func TestDeleteRemovesFile(t *testing.T) {
	repo := t.TempDir()
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Write(repo, Build(repo, "1.0.0", "", "", "", false, "", nil, now)))
	require.NoError(t, Delete(repo))
	assert.False(t, Exists(repo))
}

func TestReadMissingFileErrors(t *testing.T) {
	repo := t.TempDir()
	_, err := Read(repo)
	require.Error(t, err)
}

func TestPathLocation(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", ".arm", "last_release.json"), Path("/repo"))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
