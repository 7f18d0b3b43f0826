// File: doc.go
// Title: Package Documentation for core/log
// Description: Package documentation for the mDS structured logging package.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package log provides structured, leveled logging for mDS.
//
// Loggers are immutable: the With* methods return configured clones so that
// components can derive scoped loggers without affecting each other.
// The audit level bypasses level filtering and is used for capability and
// delegation events that must always be recorded.
//
// Basic usage:
//
//	logger := log.New().WithName("docscript-router")
//	logger.Info("run completed", log.Fields{"via": "local"})
//
// Output formats are JSON (default), text, and console.
package log
