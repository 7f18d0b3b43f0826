// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering and controlling log output.
//              Includes the audit level used for capability and delegation
//              events that must always be recorded.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelDebug provides detailed information for debugging purposes
	LevelDebug Level = iota

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates potentially harmful situations
	LevelWarn

	// LevelError represents error conditions that need attention
	LevelError

	// LevelAudit represents audit trail events; always logged regardless
	// of the configured minimum level
	LevelAudit
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelAudit:
		return "audit"
	default:
		return "unknown"
	}
}

// ShortString returns a three-letter representation of the log level
func (l Level) ShortString() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelAudit:
		return "AUD"
	default:
		return "???"
	}
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel parses a string into a log level
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf":
		return LevelInfo, nil
	case "warn", "wrn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "audit", "aud":
		return LevelAudit, nil
	default:
		return LevelInfo, &ParseError{Input: level, Type: "level"}
	}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the default log level for production
func DefaultLevel() Level {
	return LevelInfo
}
