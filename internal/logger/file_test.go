package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/jsveil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRunLog(t *testing.T, fl *FileLogger) string {
	t.Helper()
	require.NoError(t, fl.Close())
	data, err := os.ReadFile(fl.Path())
	require.NoError(t, err)
	return string(data)
}

func TestNewFileLogger_CreatesDirAndSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), ".jsveil", "logs")

	fl, err := NewFileLogger(logDir, "info")
	require.NoError(t, err)
	defer fl.Close()

	info, err := os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	base := filepath.Base(fl.Path())
	assert.True(t, strings.HasPrefix(base, "run-"))
	assert.True(t, strings.HasSuffix(base, ".log"))

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, base, target)
}

func TestNewFileLogger_ReplacesLatestSymlink(t *testing.T) {
	logDir := t.TempDir()
	require.NoError(t, os.Symlink("run-old.log", filepath.Join(logDir, "latest.log")))

	fl, err := NewFileLogger(logDir, "info")
	require.NoError(t, err)
	defer fl.Close()

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.Path()), target)
}

func TestNewFileLogger_BadDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewFileLogger(filepath.Join(blocker, "logs"), "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log directory")
}

func TestFileLogger_Lines(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	require.NoError(t, err)

	fl.LogDebug("hidden debug")
	fl.LogInfo("visible info")
	fl.LogFileReport("/_astro/a.js", -12.34)
	fl.LogFilesSummary(1)

	out := readRunLog(t, fl)
	assert.Contains(t, out, "=== jsveil run log ===")
	assert.NotContains(t, out, "hidden debug")
	assert.Contains(t, out, "[INFO] visible info")
	assert.Contains(t, out, "[INFO] /_astro/a.js -12.3%")
	assert.Contains(t, out, "[INFO] ✓ 1 files obfuscated.")
	assert.NotContains(t, out, "\x1b[")
}

func TestFileLogger_RunSummary(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	require.NoError(t, err)

	fl.LogRunSummary(models.RunResult{
		ID:         "run-1",
		Root:       "/site/dist",
		Status:     models.StatusFailed,
		Discovered: 2,
		Processed:  2,
		Duration:   2 * time.Second,
		Files: []models.FileResult{
			{RelPath: "/a.js", OriginalSize: 100, TransformedSize: 80, Delta: -25},
			{RelPath: "/b.js", Error: errors.New("boom")},
		},
		Error: "1 of 2 files failed",
	})

	out := readRunLog(t, fl)
	assert.Contains(t, out, "=== Run Summary ===")
	assert.Contains(t, out, "Run ID: run-1")
	assert.Contains(t, out, "Root: /site/dist")
	assert.Contains(t, out, "Bytes saved: 20")
	assert.Contains(t, out, "/a.js 100 -> 80 bytes (-25.0%)")
	assert.Contains(t, out, "FAILED /b.js: boom")
	assert.Contains(t, out, "Error: 1 of 2 files failed")
}

func TestFileLogger_CloseTwice(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	require.NoError(t, err)

	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())
	assert.NotPanics(t, func() { fl.LogInfo("after close") })
}
