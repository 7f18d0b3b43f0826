// File: doc.go
// Title: Package Documentation for core/error
// Description: Package documentation for the mDS structured error package.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package error provides structured errors with codes, severity, and
// detail metadata for mDS.
//
// Errors remain plain Go errors (errors.Is/As/Unwrap work throughout);
// the code is what the execution router maps to a result error kind:
//
//	err := mdserror.New("iteration budget exhausted").
//		WithCode(mdserror.CodeScriptIterationLimit).
//		WithOperation("interp.Run")
//
// Severity defaults follow the code and can be overridden per error.
package error
