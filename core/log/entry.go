// File: entry.go
// Title: Log Entry Structure
// Description: Defines the log entry structure holding all information about
//              a single log message including level, message, fields, and
//              an optional error.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Entry represents a single log entry with all its metadata
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	RunID     string
	Fields    Fields
	Error     error
}

// Fields represents custom key-value pairs for structured logging
type Fields map[string]interface{}

// Err creates an error field for logging
func Err(err error) Fields {
	return Fields{"error": err}
}

// Clone creates a copy of the Fields
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	result := make(Fields, len(f))
	for k, v := range f {
		result[k] = v
	}
	return result
}

// Merge combines multiple Fields into one; other wins on duplicate keys
func (f Fields) Merge(other Fields) Fields {
	result := make(Fields, len(f)+len(other))
	for k, v := range f {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// NewEntry creates a new log entry with the given level and message
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}
