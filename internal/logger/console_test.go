package logger

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/jsveil/internal/models"
	"github.com/stretchr/testify/assert"
)

var linePrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[(TRACE|DEBUG|INFO|WARN|ERROR)\] `)

func TestNewConsoleLogger(t *testing.T) {
	t.Run("with buffer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		assert.Equal(t, buf, logger.writer)
		assert.Equal(t, "info", logger.logLevel)
		assert.False(t, logger.colorOutput, "buffers are never terminals")
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "debug")
		assert.NotPanics(t, func() {
			logger.LogInfo("dropped")
			logger.LogFileReport("/a.js", 1)
			logger.LogFilesSummary(1)
			logger.LogProgress(1, 2)
		})
	})
}

func TestConsoleLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogInfo("hello")

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Regexp(t, linePrefix, line)
	assert.True(t, strings.HasSuffix(line, "[INFO] hello"))
}

func TestConsoleLogger_FileReport(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		delta   float64
		want    string
	}{
		{name: "shrunk", relPath: "/_astro/app.js", delta: -42.66, want: "/_astro/app.js -42.7%"},
		{name: "grew", relPath: "/nested/deep/b.js", delta: 12.04, want: "/nested/deep/b.js 12.0%"},
		{name: "degenerate", relPath: "/empty.js", delta: 0, want: "/empty.js 0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			NewConsoleLogger(buf, "info").LogFileReport(tt.relPath, tt.delta)

			line := strings.TrimSuffix(buf.String(), "\n")
			assert.Regexp(t, linePrefix, line)
			assert.True(t, strings.HasSuffix(line, tt.want), "got %q", line)
			assert.NotContains(t, line, "\x1b[")
		})
	}
}

func TestConsoleLogger_FilesSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogFilesSummary(3)
	assert.Contains(t, buf.String(), "✓ 3 files obfuscated.")

	buf.Reset()
	NewConsoleLogger(buf, "warn").LogFilesSummary(3)
	assert.Empty(t, buf.String(), "summary is an info line")
}

func TestConsoleLogger_Progress(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogProgress(1, 2)
	assert.Empty(t, buf.String())

	NewConsoleLogger(buf, "debug").LogProgress(1, 2)
	assert.Contains(t, buf.String(), "[DEBUG] Progress: [")
	assert.Contains(t, buf.String(), "1/2 (50%)")
}

func TestConsoleLogger_RunSummary(t *testing.T) {
	result := models.RunResult{
		ID:         "0123456789abcdef",
		Status:     models.StatusFailed,
		Discovered: 5,
		Excluded:   1,
		Processed:  4,
		Duration:   1500 * time.Millisecond,
		Files: []models.FileResult{
			{RelPath: "/a.js", OriginalSize: 100, TransformedSize: 60},
		},
		Error: "transform /b.js: boom",
	}

	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "debug").LogRunSummary(result)

	out := buf.String()
	assert.Contains(t, out, "Run 01234567 [FAILED]")
	assert.Contains(t, out, "4 processed, 1 excluded of 5 discovered")
	assert.Contains(t, out, "40 bytes saved in 1s")
	assert.Contains(t, out, "(transform /b.js: boom)")
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.LogFileReport(fmt.Sprintf("/f%d.js", i), float64(i))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.Regexp(t, linePrefix, line)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{850 * time.Millisecond, "850ms"},
		{12 * time.Second, "12s"},
		{3*time.Minute + 4*time.Second, "3m4s"},
		{2 * time.Minute, "2m"},
		{time.Hour + 2*time.Minute, "1h2m"},
		{time.Hour, "1h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in), tt.in.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NewNoOpLogger()
	assert.NotPanics(t, func() {
		l.LogInfo("x")
		l.LogError(errors.New("y").Error())
		l.LogFileReport("/a.js", 1)
		l.LogFilesSummary(0)
		l.LogProgress(0, 0)
		l.LogRunSummary(models.RunResult{})
	})
}

func TestMultiLogger(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	m := NewMultiLogger(NewConsoleLogger(a, "info"), nil, NewConsoleLogger(b, "warn"))

	m.LogInfo("info line")
	m.LogWarn("warn line")
	m.LogFilesSummary(2)

	assert.Contains(t, a.String(), "info line")
	assert.Contains(t, a.String(), "warn line")
	assert.Contains(t, a.String(), "2 files obfuscated")
	assert.NotContains(t, b.String(), "info line")
	assert.Contains(t, b.String(), "warn line")
}
