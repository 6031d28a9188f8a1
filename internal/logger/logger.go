// Package logger provides structured JSON logging for the AI events service.
//
// The logger supports multiple log levels (DEBUG, INFO, WARN, ERROR) and outputs
// structured JSON for easy parsing and analysis. All logs include timestamps and
// can include arbitrary structured fields.
//
// Example usage:
//
//	logger.Info("Scrape finished", logger.Fields{
//	    "extracted": 48,
//	    "relevant":  9,
//	})
//
//	logger.Error("Scrape failed", logger.Fields{
//	    "url": listingURL,
//	}, err)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger provides structured logging
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a new logger with the specified minimum log level and output destination.
// Messages below the minimum level will be discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		minLevel: level,
		output:   output,
	}
}

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(name string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(name)))
	if level == "WARNING" {
		level = LevelWarn
	}
	if _, ok := levelRank[level]; !ok {
		return LevelInfo, fmt.Errorf("unknown log level: %q", name)
	}
	return level, nil
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error). This allows centralizing logger configuration.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if marshalErr != nil {
		// Fallback to plain text if JSON marshal fails
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

// shouldLog determines if a message should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
// Warning messages indicate potential issues that don't prevent operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
