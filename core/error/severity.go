// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors to enable proper
//              prioritization and logging. Severity defaults are derived
//              from the error code.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor error that doesn't affect core
	// functionality, such as a malformed user script
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects a single run but
	// leaves the runtime healthy
	SeverityMedium

	// SeverityHigh indicates a serious error such as an internal
	// invariant violation
	SeverityHigh

	// SeverityCritical indicates an error that makes the runtime unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	// Internal invariant violations are defects, not user errors
	case CodeInternal, CodeScriptCapability:
		return SeverityHigh

	case CodePrivilegedUnavailable, CodePrivilegedTimeout, CodePrivilegedRejected,
		CodeScriptIterationLimit, CodeScriptResource, CodeStorageError, CodeTimeout:
		return SeverityMedium

	case CodeScriptSyntax, CodeScriptExecution, CodeInvalidInput, CodeNotFound,
		CodeValidationFailed, CodeCancelled:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
