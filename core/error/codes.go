// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error
//              classification across mDS. The codes drive the router's
//              mapping to result error kinds and severity defaults.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package error

// Code represents a structured error code for categorizing errors
type Code string

// Core error codes for mDS
const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"
	CodeCancelled    Code = "CANCELLED"

	// DocScript language codes
	CodeScriptSyntax         Code = "SCRIPT_SYNTAX"
	CodeScriptExecution      Code = "SCRIPT_EXECUTION"
	CodeScriptIterationLimit Code = "SCRIPT_ITERATION_LIMIT"
	CodeScriptResource       Code = "SCRIPT_RESOURCE"
	CodeScriptCapability     Code = "SCRIPT_CAPABILITY"

	// Privileged delegation codes
	CodePrivilegedUnavailable Code = "PRIVILEGED_UNAVAILABLE"
	CodePrivilegedTimeout     Code = "PRIVILEGED_TIMEOUT"
	CodePrivilegedRejected    Code = "PRIVILEGED_REJECTED"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"

	// Storage
	CodeStorageError Code = "STORAGE_ERROR"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout, CodeCancelled,
		CodeScriptSyntax, CodeScriptExecution, CodeScriptIterationLimit, CodeScriptResource, CodeScriptCapability,
		CodePrivilegedUnavailable, CodePrivilegedTimeout, CodePrivilegedRejected,
		CodeConfigError, CodeMissingConfig, CodeStorageError, CodeValidationFailed:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeScriptSyntax, CodeScriptExecution, CodeScriptIterationLimit, CodeScriptResource, CodeScriptCapability:
		return "script"
	case CodePrivilegedUnavailable, CodePrivilegedTimeout, CodePrivilegedRejected:
		return "privileged"
	case CodeConfigError, CodeMissingConfig:
		return "configuration"
	case CodeStorageError:
		return "storage"
	case CodeValidationFailed, CodeInvalidInput:
		return "validation"
	default:
		return "generic"
	}
}
