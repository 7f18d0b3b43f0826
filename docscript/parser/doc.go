// File: doc.go
// Title: Package Documentation for docscript/parser
// Description: Package documentation for the DocScript lexer and parser.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial documentation

// Package parser implements lexical and syntactic analysis for DocScript.
//
// The lexer is permissive: characters that belong to no token class are
// skipped so that a stray byte does not take down an otherwise valid
// script. Strict mode turns those characters into hard errors instead.
// Keywords are case-insensitive; newlines are emitted as tokens and act
// as statement separators.
//
// The parser is a plain recursive-descent parser. Statements dispatch on
// their leading keyword, expressions follow a precedence ladder from OR
// down to primary, and a dotted call on an identifier (FILE.READ(...))
// becomes a capability call node that the interpreter refuses to run
// locally.
package parser
