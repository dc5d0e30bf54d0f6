package logger

import "strings"

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// LevelNames lists the accepted log levels, most verbose first.
var LevelNames = []string{"trace", "debug", "info", "warn", "error"}

// ValidLevel reports whether level names a known log level (case-insensitive).
func ValidLevel(level string) bool {
	normalized := strings.ToLower(strings.TrimSpace(level))
	for _, name := range LevelNames {
		if name == normalized {
			return true
		}
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	if !ValidLevel(level) {
		return "info"
	}
	return strings.ToLower(strings.TrimSpace(level))
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func enabled(configured, message string) bool {
	return logLevelToInt(message) >= logLevelToInt(configured)
}
