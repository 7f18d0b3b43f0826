// File: walk.go
// Title: AST Traversal
// Description: Implements Inspect, a depth-first walker over DocScript
//              AST nodes used by the capability classifier and tooling.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

package ast

// Inspect traverses the AST rooted at node in depth-first order. For each
// node it calls fn; if fn returns false the children of that node are
// skipped. A nil node is ignored.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		inspectStmts(n.Statements, fn)

	case *SetStmt:
		Inspect(n.Value, fn)

	case *IfStmt:
		Inspect(n.Condition, fn)
		inspectStmts(n.Then, fn)
		inspectStmts(n.Else, fn)

	case *ForStmt:
		Inspect(n.Iterable, fn)
		inspectStmts(n.Body, fn)

	case *WhileStmt:
		Inspect(n.Condition, fn)
		inspectStmts(n.Body, fn)

	case *DefStmt:
		inspectStmts(n.Body, fn)

	case *PrintStmt:
		Inspect(n.Value, fn)

	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, fn)
		}

	case *StateSetStmt:
		Inspect(n.Value, fn)

	case *ExprStmt:
		Inspect(n.Value, fn)

	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)

	case *UnaryExpr:
		Inspect(n.Operand, fn)

	case *ListExpr:
		for _, el := range n.Elements {
			Inspect(el, fn)
		}

	case *CallExpr:
		for _, a := range n.Args {
			Inspect(a, fn)
		}

	case *CapabilityCallExpr:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	}
}

func inspectStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, fn)
	}
}
