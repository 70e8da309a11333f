// Package common provides shared utilities and types used across shellfront.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogPrefix is prepended to every log line written by shellfront
const LogPrefix = "[shellfront] "

// the process-wide logger, see GetLogger
var globalLogger *Logger

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	// LogLevelNone disables logging
	LogLevelNone LogLevel = iota
	// LogLevelError logs only errors
	LogLevelError
	// LogLevelInfo logs information and errors
	LogLevelInfo
	// LogLevelDebug logs detailed debug information
	LogLevelDebug
)

// String returns the flag spelling of the level
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelError:
		return "error"
	default:
		return "none"
	}
}

// LogLevelFromString converts a flag value to a LogLevel.
// Unknown values map to LogLevelInfo.
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "error":
		return LogLevelError
	case "none", "off":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

// Logger is a leveled wrapper around the standard library logger.
// The interactive loop shares the terminal with the logger, so callers
// usually send it to a file or keep it at LogLevelNone.
type Logger struct {
	*log.Logger

	level    LogLevel
	filePath string
	file     *os.File
}

// NewLogger creates a new Logger instance
//
// Parameters:
//   - prefix: The prefix for all log messages
//   - filePath: Path to the log file (empty string logs to stderr, or nowhere for LogLevelNone)
//   - level: The logging verbosity level
//   - truncate: If true, truncate the log file; if false, append to it
//
// Returns:
//   - A new Logger instance
//   - An error if the log file cannot be opened
func NewLogger(prefix string, filePath string, level LogLevel, truncate bool) (*Logger, error) {
	var writer io.Writer
	var file *os.File

	switch {
	case filePath != "":
		flags := os.O_WRONLY | os.O_CREATE
		if truncate {
			flags |= os.O_TRUNC
		} else {
			flags |= os.O_APPEND
		}

		f, err := os.OpenFile(filePath, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writer = f
	case level == LogLevelNone:
		writer = io.Discard
	default:
		writer = os.Stderr
	}

	logger := &Logger{
		Logger:   log.New(writer, prefix, log.Ldate|log.Ltime|log.Lshortfile),
		level:    level,
		filePath: filePath,
		file:     file,
	}

	if file != nil && level >= LogLevelInfo {
		logger.Printf("----------------------------")
		logger.Printf("Logging initialized to file: %s (level %s)", filePath, level)
	}

	return logger, nil
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{
		Logger: log.New(io.Discard, "", 0),
		level:  LogLevelNone,
	}
}

// Close closes the log file if it's open
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a message at debug level
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		_ = l.Output(2, fmt.Sprintf("[DEBUG] "+format, v...))
	}
}

// Info logs a message at info level
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		_ = l.Output(2, fmt.Sprintf("[INFO] "+format, v...))
	}
}

// Error logs a message at error level
func (l *Logger) Error(format string, v ...interface{}) {
	if l.level >= LogLevelError {
		_ = l.Output(2, fmt.Sprintf("[ERROR] "+format, v...))
	}
}

// FilePath returns the current log file path
func (l *Logger) FilePath() string {
	return l.filePath
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// SetLevel changes the current log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

//////////////////////////////////////////////////////////////////////

// GetLogger returns the global application logger.
// Before SetLogger is called it returns a logger that discards everything,
// so library code never writes into the user's terminal by accident.
func GetLogger() *Logger {
	if globalLogger == nil {
		return NewNopLogger()
	}
	return globalLogger
}

// SetLogger sets the global application logger
func SetLogger(logger *Logger) {
	globalLogger = logger
}
