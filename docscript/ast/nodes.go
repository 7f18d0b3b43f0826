// File: nodes.go
// Title: DocScript AST Node Definitions
// Description: Defines all AST node types for representing DocScript
//              programs including statements, expressions, capability
//              calls, and state access. Provides string representations
//              and validation methods.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial AST node definitions

package ast

import (
	"fmt"
	"strconv"
	"strings"

	mdsstringx "github.com/msto63/mDS/utils/stringx"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// String returns a source-like string representation of the node
	String() string

	// Position returns the source position of the node
	Position() Position

	// Validate performs basic structural validation of the node
	Validate() error
}

// Position represents a position in the source code
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
	Offset int // Byte offset (0-based)
}

// String returns "line:column" for error messages
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Stmt represents the base interface for all statements
type Stmt interface {
	Node
	stmtNode() // marker method
}

// Expr represents the base interface for all expressions
type Expr interface {
	Node
	exprNode() // marker method
}

// Program represents a complete DocScript program
type Program struct {
	Statements []Stmt   // Top-level statements in source order
	Pos        Position // Source position
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Statements))
	for _, s := range p.Statements {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

func (p *Program) Position() Position { return p.Pos }

func (p *Program) Validate() error {
	for i, s := range p.Statements {
		if s == nil {
			return fmt.Errorf("program statement %d is nil", i)
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SetStmt represents a variable assignment: SET name = expr
type SetStmt struct {
	Name  string   // Variable name
	Value Expr     // Assigned expression
	Pos   Position // Source position
}

func (s *SetStmt) String() string {
	return fmt.Sprintf("SET %s = %s", s.Name, s.Value.String())
}

func (s *SetStmt) Position() Position { return s.Pos }

func (s *SetStmt) Validate() error {
	if mdsstringx.IsBlank(s.Name) {
		return fmt.Errorf("SET at %s: variable name is empty", s.Pos)
	}
	if s.Value == nil {
		return fmt.Errorf("SET %s at %s: value expression is nil", s.Name, s.Pos)
	}
	return s.Value.Validate()
}

func (s *SetStmt) stmtNode() {}

// IfStmt represents a conditional: IF cond ... [ELSE ...] ENDIF
type IfStmt struct {
	Condition Expr     // Branch condition
	Then      []Stmt   // Statements when condition is truthy
	Else      []Stmt   // Statements when condition is falsy (may be nil)
	Pos       Position // Source position
}

func (s *IfStmt) String() string {
	var b strings.Builder
	b.WriteString("IF ")
	b.WriteString(s.Condition.String())
	for _, st := range s.Then {
		b.WriteString("\n  ")
		b.WriteString(st.String())
	}
	if s.Else != nil {
		b.WriteString("\nELSE")
		for _, st := range s.Else {
			b.WriteString("\n  ")
			b.WriteString(st.String())
		}
	}
	b.WriteString("\nENDIF")
	return b.String()
}

func (s *IfStmt) Position() Position { return s.Pos }

func (s *IfStmt) Validate() error {
	if s.Condition == nil {
		return fmt.Errorf("IF at %s: condition is nil", s.Pos)
	}
	if err := s.Condition.Validate(); err != nil {
		return err
	}
	return validateBlocks(s.Then, s.Else)
}

func (s *IfStmt) stmtNode() {}

// ForStmt represents a counted or collection loop: FOR var IN expr ... ENDFOR
type ForStmt struct {
	Variable string   // Loop variable name
	Iterable Expr     // Number (count) or list to iterate
	Body     []Stmt   // Loop body
	Pos      Position // Source position
}

func (s *ForStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FOR %s IN %s", s.Variable, s.Iterable.String())
	for _, st := range s.Body {
		b.WriteString("\n  ")
		b.WriteString(st.String())
	}
	b.WriteString("\nENDFOR")
	return b.String()
}

func (s *ForStmt) Position() Position { return s.Pos }

func (s *ForStmt) Validate() error {
	if mdsstringx.IsBlank(s.Variable) {
		return fmt.Errorf("FOR at %s: loop variable is empty", s.Pos)
	}
	if s.Iterable == nil {
		return fmt.Errorf("FOR %s at %s: iterable is nil", s.Variable, s.Pos)
	}
	if err := s.Iterable.Validate(); err != nil {
		return err
	}
	return validateBlocks(s.Body)
}

func (s *ForStmt) stmtNode() {}

// WhileStmt represents a conditional loop: WHILE cond ... ENDWHILE
type WhileStmt struct {
	Condition Expr     // Loop condition
	Body      []Stmt   // Loop body
	Pos       Position // Source position
}

func (s *WhileStmt) String() string {
	var b strings.Builder
	b.WriteString("WHILE ")
	b.WriteString(s.Condition.String())
	for _, st := range s.Body {
		b.WriteString("\n  ")
		b.WriteString(st.String())
	}
	b.WriteString("\nENDWHILE")
	return b.String()
}

func (s *WhileStmt) Position() Position { return s.Pos }

func (s *WhileStmt) Validate() error {
	if s.Condition == nil {
		return fmt.Errorf("WHILE at %s: condition is nil", s.Pos)
	}
	if err := s.Condition.Validate(); err != nil {
		return err
	}
	return validateBlocks(s.Body)
}

func (s *WhileStmt) stmtNode() {}

// DefStmt represents a function definition: DEF name(params) ... ENDDEF
type DefStmt struct {
	Name   string   // Function name
	Params []string // Parameter names
	Body   []Stmt   // Function body
	Pos    Position // Source position
}

func (s *DefStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DEF %s(%s)", s.Name, strings.Join(s.Params, ", "))
	for _, st := range s.Body {
		b.WriteString("\n  ")
		b.WriteString(st.String())
	}
	b.WriteString("\nENDDEF")
	return b.String()
}

func (s *DefStmt) Position() Position { return s.Pos }

func (s *DefStmt) Validate() error {
	if mdsstringx.IsBlank(s.Name) {
		return fmt.Errorf("DEF at %s: function name is empty", s.Pos)
	}
	seen := make(map[string]bool, len(s.Params))
	for _, p := range s.Params {
		if mdsstringx.IsBlank(p) {
			return fmt.Errorf("DEF %s at %s: parameter name is empty", s.Name, s.Pos)
		}
		if seen[p] {
			return fmt.Errorf("DEF %s at %s: duplicate parameter %q", s.Name, s.Pos, p)
		}
		seen[p] = true
	}
	return validateBlocks(s.Body)
}

func (s *DefStmt) stmtNode() {}

// PrintStmt represents an output statement: PRINT expr
type PrintStmt struct {
	Value Expr     // Expression to print
	Pos   Position // Source position
}

func (s *PrintStmt) String() string {
	return "PRINT " + s.Value.String()
}

func (s *PrintStmt) Position() Position { return s.Pos }

func (s *PrintStmt) Validate() error {
	if s.Value == nil {
		return fmt.Errorf("PRINT at %s: value is nil", s.Pos)
	}
	return s.Value.Validate()
}

func (s *PrintStmt) stmtNode() {}

// ReturnStmt represents a return from a function: RETURN [expr]
type ReturnStmt struct {
	Value Expr     // Optional return value (nil for bare RETURN)
	Pos   Position // Source position
}

func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "RETURN"
	}
	return "RETURN " + s.Value.String()
}

func (s *ReturnStmt) Position() Position { return s.Pos }

func (s *ReturnStmt) Validate() error {
	if s.Value != nil {
		return s.Value.Validate()
	}
	return nil
}

func (s *ReturnStmt) stmtNode() {}

// StateSetStmt represents a state write: STATE SET path = expr
type StateSetStmt struct {
	Path  string   // Dot-separated state path
	Value Expr     // Value to store
	Pos   Position // Source position
}

func (s *StateSetStmt) String() string {
	return fmt.Sprintf("STATE SET %s = %s", s.Path, s.Value.String())
}

func (s *StateSetStmt) Position() Position { return s.Pos }

func (s *StateSetStmt) Validate() error {
	if mdsstringx.IsBlank(s.Path) {
		return fmt.Errorf("STATE SET at %s: path is empty", s.Pos)
	}
	if s.Value == nil {
		return fmt.Errorf("STATE SET %s at %s: value is nil", s.Path, s.Pos)
	}
	return s.Value.Validate()
}

func (s *StateSetStmt) stmtNode() {}

// ExprStmt represents a bare expression evaluated for its side effects,
// most commonly a capability call
type ExprStmt struct {
	Value Expr     // The expression
	Pos   Position // Source position
}

func (s *ExprStmt) String() string {
	return s.Value.String()
}

func (s *ExprStmt) Position() Position { return s.Pos }

func (s *ExprStmt) Validate() error {
	if s.Value == nil {
		return fmt.Errorf("expression statement at %s: value is nil", s.Pos)
	}
	return s.Value.Validate()
}

func (s *ExprStmt) stmtNode() {}

// BinaryExpr represents a binary operation: left op right
type BinaryExpr struct {
	Op    string   // Operator ("+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "AND", "OR")
	Left  Expr     // Left operand
	Right Expr     // Right operand
	Pos   Position // Source position
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

func (e *BinaryExpr) Position() Position { return e.Pos }

func (e *BinaryExpr) Validate() error {
	if e.Left == nil || e.Right == nil {
		return fmt.Errorf("binary %q at %s: missing operand", e.Op, e.Pos)
	}
	if err := e.Left.Validate(); err != nil {
		return err
	}
	return e.Right.Validate()
}

func (e *BinaryExpr) exprNode() {}

// UnaryExpr represents a unary operation: op operand
type UnaryExpr struct {
	Op      string   // Operator ("-" or "NOT")
	Operand Expr     // Operand
	Pos     Position // Source position
}

func (e *UnaryExpr) String() string {
	if e.Op == "NOT" {
		return fmt.Sprintf("(NOT %s)", e.Operand.String())
	}
	return fmt.Sprintf("(%s%s)", e.Op, e.Operand.String())
}

func (e *UnaryExpr) Position() Position { return e.Pos }

func (e *UnaryExpr) Validate() error {
	if e.Operand == nil {
		return fmt.Errorf("unary %q at %s: missing operand", e.Op, e.Pos)
	}
	return e.Operand.Validate()
}

func (e *UnaryExpr) exprNode() {}

// LiteralExpr represents a literal value: number, string, boolean, or null
type LiteralExpr struct {
	Value interface{} // nil, bool, float64, or string
	Pos   Position    // Source position
}

func (e *LiteralExpr) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e *LiteralExpr) Position() Position { return e.Pos }

func (e *LiteralExpr) Validate() error {
	switch e.Value.(type) {
	case nil, bool, float64, string:
		return nil
	default:
		return fmt.Errorf("literal at %s: unsupported value type %T", e.Pos, e.Value)
	}
}

func (e *LiteralExpr) exprNode() {}

// ListExpr represents a list literal: [expr, expr, ...]
type ListExpr struct {
	Elements []Expr   // Element expressions
	Pos      Position // Source position
}

func (e *ListExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *ListExpr) Position() Position { return e.Pos }

func (e *ListExpr) Validate() error {
	for i, el := range e.Elements {
		if el == nil {
			return fmt.Errorf("list at %s: element %d is nil", e.Pos, i)
		}
		if err := el.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *ListExpr) exprNode() {}

// IdentifierExpr represents a variable reference
type IdentifierExpr struct {
	Name string   // Variable name
	Pos  Position // Source position
}

func (e *IdentifierExpr) String() string { return e.Name }

func (e *IdentifierExpr) Position() Position { return e.Pos }

func (e *IdentifierExpr) Validate() error {
	if mdsstringx.IsBlank(e.Name) {
		return fmt.Errorf("identifier at %s: name is empty", e.Pos)
	}
	return nil
}

func (e *IdentifierExpr) exprNode() {}

// CallExpr represents a plain function call: name(args)
type CallExpr struct {
	Name string   // Function name (user DEF or builtin)
	Args []Expr   // Argument expressions
	Pos  Position // Source position
}

func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

func (e *CallExpr) Position() Position { return e.Pos }

func (e *CallExpr) Validate() error {
	if mdsstringx.IsBlank(e.Name) {
		return fmt.Errorf("call at %s: function name is empty", e.Pos)
	}
	for i, a := range e.Args {
		if a == nil {
			return fmt.Errorf("call %s at %s: argument %d is nil", e.Name, e.Pos, i)
		}
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *CallExpr) exprNode() {}

// CapabilityCallExpr represents a namespaced capability invocation:
// NAMESPACE.OPERATION(args). These never execute locally.
type CapabilityCallExpr struct {
	Namespace string   // Capability namespace (uppercase, e.g. "FILE")
	Operation string   // Operation name (e.g. "READ")
	Args      []Expr   // Argument expressions
	Pos       Position // Source position
}

func (e *CapabilityCallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", e.Namespace, e.Operation, strings.Join(parts, ", "))
}

func (e *CapabilityCallExpr) Position() Position { return e.Pos }

func (e *CapabilityCallExpr) Validate() error {
	if mdsstringx.IsBlank(e.Namespace) {
		return fmt.Errorf("capability call at %s: namespace is empty", e.Pos)
	}
	if mdsstringx.IsBlank(e.Operation) {
		return fmt.Errorf("capability call at %s: operation is empty", e.Pos)
	}
	for i, a := range e.Args {
		if a == nil {
			return fmt.Errorf("capability call %s.%s at %s: argument %d is nil",
				e.Namespace, e.Operation, e.Pos, i)
		}
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *CapabilityCallExpr) exprNode() {}

// StateGetExpr represents a state read: STATE GET path
type StateGetExpr struct {
	Path string   // Dot-separated state path
	Pos  Position // Source position
}

func (e *StateGetExpr) String() string {
	return "STATE GET " + e.Path
}

func (e *StateGetExpr) Position() Position { return e.Pos }

func (e *StateGetExpr) Validate() error {
	if mdsstringx.IsBlank(e.Path) {
		return fmt.Errorf("STATE GET at %s: path is empty", e.Pos)
	}
	return nil
}

func (e *StateGetExpr) exprNode() {}

// validateBlocks validates statement blocks, skipping nil blocks
func validateBlocks(blocks ...[]Stmt) error {
	for _, block := range blocks {
		for i, st := range block {
			if st == nil {
				return fmt.Errorf("block statement %d is nil", i)
			}
			if err := st.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
