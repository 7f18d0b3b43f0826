// File: logger.go
// Title: Core Logger Implementation
// Description: Implements the main Logger type providing structured logging
//              with contextual fields and multiple output formats. Loggers
//              are immutable; the With* methods return configured clones.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package log

import (
	"io"
	"os"
	"sync"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string
	runID     string

	// Context fields added to all log entries
	contextFields Fields

	mutex sync.RWMutex
}

// Config represents logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a new logger with default configuration
func New() *Logger {
	return &Logger{
		level:         DefaultLevel(),
		formatter:     NewJSONFormatter(),
		output:        os.Stderr,
		contextFields: make(Fields),
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	logger := &Logger{
		level:         config.Level,
		output:        config.Output,
		name:          config.Name,
		formatter:     GetFormatter(config.Format),
		contextFields: make(Fields),
	}
	if logger.output == nil {
		logger.output = os.Stderr
	}
	return logger
}

// WithLevel returns a clone with the given minimum log level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithFormat returns a clone with the given output format
func (l *Logger) WithFormat(format Format) *Logger {
	clone := l.clone()
	clone.formatter = GetFormatter(format)
	return clone
}

// WithOutput returns a clone writing to the given destination
func (l *Logger) WithOutput(output io.Writer) *Logger {
	clone := l.clone()
	clone.output = output
	return clone
}

// WithName returns a clone with the given logger name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField returns a clone with a persistent field on all entries
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithFields returns a clone with persistent fields on all entries
func (l *Logger) WithFields(fields Fields) *Logger {
	clone := l.clone()
	for k, v := range fields {
		clone.contextFields[k] = v
	}
	return clone
}

// WithRunID returns a clone tagged with a script run ID
func (l *Logger) WithRunID(runID string) *Logger {
	clone := l.clone()
	clone.runID = runID
	return clone
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, fields...)
}

// Audit logs an audit level message (always logged regardless of level)
func (l *Logger) Audit(message string, fields ...Fields) {
	l.log(LevelAudit, message, nil, fields...)
}

// ErrorWithErr logs an error with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, fields...)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.level
}

// log is the internal logging method
func (l *Logger) log(level Level, message string, err error, fields ...Fields) {
	l.mutex.RLock()

	if !level.ShouldLog(l.level) {
		l.mutex.RUnlock()
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.RunID = l.runID
	entry.Error = err

	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, fieldSet := range fields {
		for k, v := range fieldSet {
			entry.Fields[k] = v
		}
	}

	formatter := l.formatter
	output := l.output
	l.mutex.RUnlock()

	if formatted, formatErr := formatter.Format(entry); formatErr == nil {
		output.Write(formatted)
	}
}

// clone creates a copy of the logger for immutable operations
func (l *Logger) clone() *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	clone := &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		runID:         l.runID,
		contextFields: make(Fields, len(l.contextFields)),
	}
	for k, v := range l.contextFields {
		clone.contextFields[k] = v
	}
	return clone
}

// Default logger instance
var (
	defaultLogger   = New()
	defaultLoggerMu sync.RWMutex
)

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// Debug logs a debug message using the default logger
func Debug(message string, fields ...Fields) {
	GetDefault().Debug(message, fields...)
}

// Info logs an info message using the default logger
func Info(message string, fields ...Fields) {
	GetDefault().Info(message, fields...)
}

// Warn logs a warning message using the default logger
func Warn(message string, fields ...Fields) {
	GetDefault().Warn(message, fields...)
}

// Error logs an error message using the default logger
func Error(message string, fields ...Fields) {
	GetDefault().Error(message, fields...)
}

// Audit logs an audit message using the default logger
func Audit(message string, fields ...Fields) {
	GetDefault().Audit(message, fields...)
}
