package logger

import "github.com/harrison/jsveil/internal/models"

// MultiLogger forwards every call to each of its loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers; nil entries are dropped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) LogTrace(message string) { m.each(func(l Logger) { l.LogTrace(message) }) }
func (m *MultiLogger) LogDebug(message string) { m.each(func(l Logger) { l.LogDebug(message) }) }
func (m *MultiLogger) LogInfo(message string)  { m.each(func(l Logger) { l.LogInfo(message) }) }
func (m *MultiLogger) LogWarn(message string)  { m.each(func(l Logger) { l.LogWarn(message) }) }
func (m *MultiLogger) LogError(message string) { m.each(func(l Logger) { l.LogError(message) }) }

func (m *MultiLogger) LogFileReport(relPath string, delta float64) {
	m.each(func(l Logger) { l.LogFileReport(relPath, delta) })
}

func (m *MultiLogger) LogFilesSummary(count int) {
	m.each(func(l Logger) { l.LogFilesSummary(count) })
}

func (m *MultiLogger) LogProgress(done, total int) {
	m.each(func(l Logger) { l.LogProgress(done, total) })
}

func (m *MultiLogger) LogRunSummary(result models.RunResult) {
	m.each(func(l Logger) { l.LogRunSummary(result) })
}
