// File: format.go
// Title: Log Format Definitions
// Description: Defines output formats for log messages including JSON, text,
//              and console formats with their corresponding formatters.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs structured JSON logs (recommended for production)
	FormatJSON Format = iota

	// FormatText outputs human-readable text logs
	FormatText

	// FormatConsole outputs compact console logs for development
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, &ParseError{Input: format, Type: "format"}
	}
}

// Formatter defines the interface for log formatters
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns the formatter for the given format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return &TextFormatter{TimestampFormat: time.RFC3339}
	case FormatConsole:
		return &ConsoleFormatter{TimestampFormat: "15:04:05"}
	default:
		return NewJSONFormatter()
	}
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+6)

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.RunID != "" {
		data["run_id"] = entry.RunID
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	for k, v := range entry.Fields {
		// Errors and durations stringify poorly through encoding/json
		switch val := v.(type) {
		case error:
			data[k] = val.Error()
		case time.Duration:
			data[k] = val.String()
		default:
			data[k] = v
		}
	}

	line, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(line, '\n'), nil
}

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	TimestampFormat string
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
	b.WriteString(" [")
	b.WriteString(entry.Level.ShortString())
	b.WriteString("] ")

	if entry.Logger != "" {
		b.WriteString(entry.Logger)
		b.WriteString(": ")
	}

	b.WriteString(entry.Message)
	f.writeFields(&b, entry)
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func (f *TextFormatter) writeFields(b *strings.Builder, entry *Entry) {
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Fields[k])
	}
	if entry.RunID != "" {
		fmt.Fprintf(b, " run_id=%s", entry.RunID)
	}
	if entry.Error != nil {
		fmt.Fprintf(b, " error=%q", entry.Error.Error())
	}
}

// ConsoleFormatter formats log entries compactly for interactive use
type ConsoleFormatter struct {
	TimestampFormat string
}

// Format formats a log entry for console output
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	text := TextFormatter{TimestampFormat: f.TimestampFormat}
	return text.Format(entry)
}
