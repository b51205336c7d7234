package logutil

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"critical", LevelCritical},
		{"CRITICAL", LevelCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, err := ParseLevel(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelNames(t *testing.T) {
	names := LevelNames()
	assert.Equal(t, []string{"critical", "error", "warning", "info", "debug"}, names)

	names[0] = "mutated"
	assert.Equal(t, "critical", LevelNames()[0])
}

func TestNewWithoutSinksDiscards(t *testing.T) {
	log, err := New("test", Config{})
	require.NoError(t, err)

	// Must not blow up even though nothing is configured.
	log.Info("into the void")
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New("test", Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	log, err := New("testapp", Config{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug("written to file", "answer", 42)
	log.Log(t.Context(), LevelCritical, "giving up")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := splitJSONLines(t, raw)
	require.Len(t, lines, 2)

	assert.Equal(t, "written to file", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "testapp", lines[0]["app"])
	assert.EqualValues(t, 42, lines[0]["answer"])

	assert.Equal(t, "giving up", lines[1]["msg"])
	assert.Equal(t, "CRITICAL", lines[1]["level"])
}

func TestNewFileSinkRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	log, err := New("testapp", Config{Level: "warning", File: path})
	require.NoError(t, err)

	log.Info("too quiet")
	log.Warn("loud enough")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := splitJSONLines(t, raw)
	require.Len(t, lines, 1)
	assert.Equal(t, "loud enough", lines[0]["msg"])
}

func splitJSONLines(t *testing.T, raw []byte) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		fields := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &fields))
		lines = append(lines, fields)
	}
	return lines
}
