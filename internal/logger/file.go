package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/jsveil/internal/models"
	"github.com/harrison/jsveil/internal/report"
)

// FileLogger writes one plain-text log per run into a log directory
// (.jsveil/logs by default) and keeps a latest.log symlink pointing at the
// most recent run.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to logDir at the given level.
// The directory is created if it does not exist.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== jsveil run log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the path of the current run log file.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }
func (fl *FileLogger) LogInfo(message string)  { fl.logWithLevel("INFO", message) }
func (fl *FileLogger) LogWarn(message string)  { fl.logWithLevel("WARN", message) }
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

// LogFileReport records the size delta of one rewritten file.
func (fl *FileLogger) LogFileReport(relPath string, delta float64) {
	fl.logWithLevel("INFO", report.FileLine(relPath, delta))
}

// LogFilesSummary records the closing line of a successful run.
func (fl *FileLogger) LogFilesSummary(count int) {
	fl.logWithLevel("INFO", report.SummaryLine(count))
}

// LogProgress is only useful on an interactive console; the run log keeps
// per-file lines instead.
func (fl *FileLogger) LogProgress(done, total int) {}

// LogRunSummary writes run statistics and the per-file table to the run log.
func (fl *FileLogger) LogRunSummary(result models.RunResult) {
	if !enabled(fl.logLevel, "info") {
		return
	}

	var sb strings.Builder
	sb.WriteString("\n=== Run Summary ===\n")
	fmt.Fprintf(&sb, "Run ID: %s\n", result.ID)
	fmt.Fprintf(&sb, "Root: %s\n", result.Root)
	fmt.Fprintf(&sb, "Status: %s\n", result.Status)
	fmt.Fprintf(&sb, "Discovered: %d, Excluded: %d, Processed: %d\n",
		result.Discovered, result.Excluded, result.Processed)
	fmt.Fprintf(&sb, "Bytes saved: %d\n", result.BytesSaved())
	fmt.Fprintf(&sb, "Duration: %s\n", formatDuration(result.Duration))
	if result.Error != "" {
		fmt.Fprintf(&sb, "Error: %s\n", result.Error)
	}
	for _, f := range result.Files {
		if f.Error != nil {
			fmt.Fprintf(&sb, "  FAILED %s: %v\n", f.RelPath, f.Error)
			continue
		}
		fmt.Fprintf(&sb, "  %s %d -> %d bytes (%s)\n",
			f.RelPath, f.OriginalSize, f.TransformedSize, report.FormatDelta(f.Delta))
	}
	fl.writeRunLog(sb.String())
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	if !enabled(fl.logLevel, strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
