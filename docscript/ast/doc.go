// File: doc.go
// Title: Package Documentation for docscript/ast
// Description: Package documentation for the DocScript AST package.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package ast defines the abstract syntax tree for DocScript programs.
//
// A parsed script is a *Program holding a flat list of statements; block
// statements (IF, FOR, WHILE, DEF) carry their bodies as nested slices.
// Every node records its source Position for error reporting, renders a
// source-like form via String, and checks its own structure via Validate.
//
// Inspect walks a tree depth-first; the classifier uses it to find
// CapabilityCallExpr nodes without evaluating anything.
package ast
