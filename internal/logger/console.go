// Package logger provides logging implementations for jsveil runs.
//
// Loggers report per-file size deltas, the closing summary line and run
// diagnostics. Implementations are safe for concurrent use, since the
// orchestrator reports from many file tasks at once.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/jsveil/internal/models"
	"github.com/harrison/jsveil/internal/report"
	"github.com/mattn/go-isatty"
)

// Logger is the full set of reporting methods shared by every logger in
// this package.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogFileReport(relPath string, delta float64)
	LogFilesSummary(count int)
	LogProgress(done, total int)
	LogRunSummary(result models.RunResult)
}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] [LEVEL].
// Color output is enabled when the writer is a terminal and NO_COLOR is unset.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// LogFileReport logs the size delta of one rewritten file at INFO level.
// Format: "[HH:MM:SS] [INFO] /_astro/app.js -12.4%"
func (cl *ConsoleLogger) LogFileReport(relPath string, delta float64) {
	if cl.colorOutput {
		cl.logWithLevel("INFO", report.ColorFileLine(relPath, delta))
		return
	}
	cl.logWithLevel("INFO", report.FileLine(relPath, delta))
}

// LogFilesSummary logs the closing line of a successful run at INFO level.
func (cl *ConsoleLogger) LogFilesSummary(count int) {
	if cl.colorOutput {
		cl.logWithLevel("INFO", report.ColorSummaryLine(count))
		return
	}
	cl.logWithLevel("INFO", report.SummaryLine(count))
}

// LogProgress logs a progress bar at DEBUG level.
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if !enabled(cl.logLevel, "debug") {
		return
	}
	bar := NewProgressBar(total, 20, cl.colorOutput)
	bar.SetPrefix("Progress: ")
	bar.Update(done)
	cl.logWithLevel("DEBUG", bar.Render())
}

// LogRunSummary logs run statistics at DEBUG level.
func (cl *ConsoleLogger) LogRunSummary(result models.RunResult) {
	cl.logWithLevel("DEBUG", runSummary(result))
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !enabled(cl.logLevel, strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// runSummary renders the statistics line shared by the console and file loggers.
func runSummary(result models.RunResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s [%s]: %d processed, %d excluded of %d discovered",
		shortID(result.ID), result.Status, result.Processed, result.Excluded, result.Discovered)
	fmt.Fprintf(&sb, ", %d bytes saved in %s", result.BytesSaved(), formatDuration(result.Duration))
	if result.Error != "" {
		fmt.Fprintf(&sb, " (%s)", result.Error)
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// timestamp returns the current time formatted as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders durations compactly: "850ms", "12s", "3m4s", "1h2m".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogFileReport(string, float64) {}
func (n *NoOpLogger) LogFilesSummary(int) {}
func (n *NoOpLogger) LogProgress(int, int) {}
func (n *NoOpLogger) LogRunSummary(models.RunResult) {}
