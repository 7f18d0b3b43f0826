// File: stringx.go
// Title: Extended String Utilities
// Description: Provides string helper functions used across mDS, covering
//              blank checks, truncation, and case-insensitive comparison.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

// Package stringx provides extended string manipulation utilities.
package stringx

import (
	"strings"
	"unicode/utf8"
)

// IsBlank checks if a string is empty or contains only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsNotBlank checks if a string contains non-whitespace characters
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate shortens a string to maxLen runes, appending "..." when the
// string was cut. maxLen below 4 returns the bare cut without suffix.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	if maxLen < 4 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// EqualsIgnoreCase compares two strings case-insensitively
func EqualsIgnoreCase(a, b string) bool {
	return strings.EqualFold(a, b)
}

// FirstNonBlank returns the first string that is not blank, or ""
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if IsNotBlank(v) {
			return v
		}
	}
	return ""
}

// CountLines counts the number of lines in a string. The empty string
// has zero lines; a trailing newline does not add a line.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n") + 1
	if strings.HasSuffix(s, "\n") {
		n--
	}
	return n
}
