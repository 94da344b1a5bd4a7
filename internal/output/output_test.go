package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJSONEnabled(t *testing.T) {
	originalValue := viper.Get("app.json_output")
	defer func() {
		if originalValue != nil {
			viper.Set("app.json_output", originalValue)
		}
	}()

	tests := []struct {
		name     string
		setValue bool
		want     bool
	}{
		{name: "JSON disabled", setValue: false, want: false},
		{name: "JSON enabled", setValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("app.json_output", tt.setValue)
			got := IsJSONEnabled()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, ReleaseOutput{
		CurrentVersion: "0.1.0",
		NextVersion:    "0.2.0",
		Bump:           "minor",
		Reason:         "feat",
		Tag:            "v0.2.0",
		Actions:        []string{"write CHANGELOG.md"},
		Artifacts:      []string{"dist/demo-0.2.0.zip"},
	})
	require.NoError(t, err)

	var result ReleaseOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "0.2.0", result.NextVersion)
	assert.Equal(t, "v0.2.0", result.Tag)
}

func TestWriteJSONOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, StatusOutput{Repo: "/tmp/repo", Dirty: false})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "last_tag")
	assert.NotContains(t, out, "branch")
	assert.Contains(t, out, "repo")
}

func TestWriteString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple string", input: "Hello, World!", want: "Hello, World!\n"},
		{name: "empty string", input: "", want: "\n"},
		{name: "multiline string", input: "Line 1\nLine 2", want: "Line 1\nLine 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteString(&buf, tt.input))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWrite(t *testing.T) {
	originalValue := viper.Get("app.json_output")
	defer func() {
		if originalValue != nil {
			viper.Set("app.json_output", originalValue)
		}
	}()

	t.Run("text mode", func(t *testing.T) {
		viper.Set("app.json_output", false)
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "Success message", ReleaseOutput{NextVersion: "1.2.3"}))
		assert.Equal(t, "Success message\n", buf.String())
	})

	t.Run("JSON mode", func(t *testing.T) {
		viper.Set("app.json_output", true)
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, "Success message", ReleaseOutput{NextVersion: "1.2.3"}))
		var result ReleaseOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "1.2.3", result.NextVersion)
	})
}

func TestValidateOutput(t *testing.T) {
	out := ValidateOutput{Success: false, Valid: 2, Errors: []string{"abc12345 Non-conventional subject: oops"}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, out))

	var result ValidateOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Valid)
	assert.Len(t, result.Errors, 1)
}

func TestReleaseErrorOutput(t *testing.T) {
	out := ReleaseErrorOutput{
		Error:  "Dirty working tree. Use --allow-dirty to override.",
		DryRun: false,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, out))

	var result ReleaseErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Contains(t, result.Error, "Dirty working tree")
}

func TestRollbackOutput(t *testing.T) {
	out := RollbackOutput{Success: true, Actions: []string{"delete tag v0.2.0"}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, out))

	var result RollbackOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"delete tag v0.2.0"}, result.Actions)
}

func TestJSONIndentation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, StatusOutput{Repo: "."}))

	result := buf.String()
	assert.True(t, strings.Contains(result, "\n"))
	assert.True(t, strings.Contains(result, "  "))
}
