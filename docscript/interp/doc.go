// File: doc.go
// Title: Package Documentation for docscript/interp
// Description: Package documentation for the DocScript interpreter.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package interp evaluates DocScript programs by walking the AST.
//
// Values are NULL, booleans, numbers (float64), strings, and lists. A
// run is single-threaded and bounded two ways: every loop iteration
// (and RANGE element) spends from a shared budget, and user function
// calls are depth-limited. Division and modulo by zero yield 0. A user
// function runs against a snapshot of its caller's variables with the
// parameters bound over them; writes inside the body never leak out.
//
// The interpreter never executes capability calls. The router keeps
// privileged scripts away from it; if one slips through anyway the run
// aborts and the incident is audit-logged.
package interp
