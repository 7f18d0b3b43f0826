// File: parser_test.go
// Title: Parser Unit Tests
// Description: Tests for statement parsing, expression precedence,
//              capability calls, state access, and syntax error reporting.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial test suite

package parser

import (
	"testing"

	mdserror "github.com/msto63/mDS/core/error"
	mdsast "github.com/msto63/mDS/docscript/ast"
)

func parseProgram(t *testing.T, source string) *mdsast.Program {
	t.Helper()
	program, err := New(Options{}).Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return program
}

func TestParse_Set(t *testing.T) {
	program := parseProgram(t, "SET x = 2 + 3")

	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	set, ok := program.Statements[0].(*mdsast.SetStmt)
	if !ok {
		t.Fatalf("statement is %T, want *SetStmt", program.Statements[0])
	}
	if set.Name != "x" {
		t.Errorf("name = %q, want x", set.Name)
	}
	if got := set.Value.String(); got != "(2 + 3)" {
		t.Errorf("value = %q, want (2 + 3)", got)
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"PRINT 1 + 2 * 3", "PRINT (1 + (2 * 3))"},
		{"PRINT (1 + 2) * 3", "PRINT ((1 + 2) * 3)"},
		{"PRINT 1 < 2 AND 3 < 4", "PRINT ((1 < 2) AND (3 < 4))"},
		{"PRINT a OR b AND c", "PRINT (a OR (b AND c))"},
		{"PRINT NOT a == b", "PRINT ((NOT a) == b)"},
		{"PRINT -x + 1", "PRINT ((-x) + 1)"},
		{"PRINT 10 % 3", "PRINT (10 % 3)"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.source)
		if got := program.Statements[0].String(); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestParse_IfElse(t *testing.T) {
	program := parseProgram(t, `
IF x > 0
  PRINT "pos"
ELSE
  PRINT "neg"
ENDIF`)

	ifStmt, ok := program.Statements[0].(*mdsast.IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want *IfStmt", program.Statements[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Errorf("then=%d else=%d, want 1/1", len(ifStmt.Then), len(ifStmt.Else))
	}
}

func TestParse_NestedBlocks(t *testing.T) {
	program := parseProgram(t, `
FOR i IN 3
  IF i > 1
    PRINT i
  ENDIF
ENDFOR`)

	forStmt, ok := program.Statements[0].(*mdsast.ForStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ForStmt", program.Statements[0])
	}
	if forStmt.Variable != "i" {
		t.Errorf("variable = %q, want i", forStmt.Variable)
	}
	if len(forStmt.Body) != 1 {
		t.Fatalf("body has %d statements, want 1", len(forStmt.Body))
	}
	if _, ok := forStmt.Body[0].(*mdsast.IfStmt); !ok {
		t.Errorf("body[0] is %T, want *IfStmt", forStmt.Body[0])
	}
}

func TestParse_While(t *testing.T) {
	program := parseProgram(t, "WHILE TRUE\n  SET x = 1\nENDWHILE")

	whileStmt, ok := program.Statements[0].(*mdsast.WhileStmt)
	if !ok {
		t.Fatalf("statement is %T, want *WhileStmt", program.Statements[0])
	}
	lit, ok := whileStmt.Condition.(*mdsast.LiteralExpr)
	if !ok || lit.Value != true {
		t.Errorf("condition = %v, want TRUE literal", whileStmt.Condition)
	}
}

func TestParse_Def(t *testing.T) {
	program := parseProgram(t, `
DEF add(a, b)
  RETURN a + b
ENDDEF`)

	def, ok := program.Statements[0].(*mdsast.DefStmt)
	if !ok {
		t.Fatalf("statement is %T, want *DefStmt", program.Statements[0])
	}
	if def.Name != "add" || len(def.Params) != 2 {
		t.Errorf("def = %s(%v), want add(a b)", def.Name, def.Params)
	}
	ret, ok := def.Body[0].(*mdsast.ReturnStmt)
	if !ok || ret.Value == nil {
		t.Errorf("body[0] = %v, want RETURN with value", def.Body[0])
	}
}

func TestParse_BareReturn(t *testing.T) {
	program := parseProgram(t, "DEF f()\n  RETURN\nENDDEF")

	def := program.Statements[0].(*mdsast.DefStmt)
	ret := def.Body[0].(*mdsast.ReturnStmt)
	if ret.Value != nil {
		t.Errorf("bare RETURN has value %v", ret.Value)
	}
}

func TestParse_CapabilityCall(t *testing.T) {
	program := parseProgram(t, `SET content = file.read("notes.txt")`)

	set := program.Statements[0].(*mdsast.SetStmt)
	call, ok := set.Value.(*mdsast.CapabilityCallExpr)
	if !ok {
		t.Fatalf("value is %T, want *CapabilityCallExpr", set.Value)
	}
	// Namespace and operation fold to uppercase regardless of source casing
	if call.Namespace != "FILE" || call.Operation != "READ" {
		t.Errorf("call = %s.%s, want FILE.READ", call.Namespace, call.Operation)
	}
	if len(call.Args) != 1 {
		t.Errorf("args = %d, want 1", len(call.Args))
	}
}

func TestParse_FunctionCallVsCapabilityCall(t *testing.T) {
	program := parseProgram(t, "PRINT LEN(items)")

	print := program.Statements[0].(*mdsast.PrintStmt)
	call, ok := print.Value.(*mdsast.CallExpr)
	if !ok {
		t.Fatalf("value is %T, want *CallExpr", print.Value)
	}
	if call.Name != "LEN" {
		t.Errorf("name = %q, want LEN", call.Name)
	}
}

func TestParse_StateStatements(t *testing.T) {
	program := parseProgram(t, "STATE SET user.name = \"ada\"\nPRINT STATE GET user.name")

	stateSet, ok := program.Statements[0].(*mdsast.StateSetStmt)
	if !ok {
		t.Fatalf("statement 0 is %T, want *StateSetStmt", program.Statements[0])
	}
	if stateSet.Path != "user.name" {
		t.Errorf("path = %q, want user.name", stateSet.Path)
	}

	print := program.Statements[1].(*mdsast.PrintStmt)
	get, ok := print.Value.(*mdsast.StateGetExpr)
	if !ok {
		t.Fatalf("print value is %T, want *StateGetExpr", print.Value)
	}
	if get.Path != "user.name" {
		t.Errorf("get path = %q, want user.name", get.Path)
	}
}

func TestParse_ListLiteral(t *testing.T) {
	program := parseProgram(t, `SET xs = [1, 2, "three"]`)

	set := program.Statements[0].(*mdsast.SetStmt)
	list, ok := set.Value.(*mdsast.ListExpr)
	if !ok {
		t.Fatalf("value is %T, want *ListExpr", set.Value)
	}
	if len(list.Elements) != 3 {
		t.Errorf("elements = %d, want 3", len(list.Elements))
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing assign", "SET x 5"},
		{"missing expression", "SET x ="},
		{"dangling operator", "PRINT 1 +"},
		{"unclosed paren", "PRINT (1 + 2"},
		{"unclosed list", "SET xs = [1, 2"},
		{"state without verb", "STATE x = 1"},
		{"for without in", "FOR i 3\nENDFOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{}).Parse(tt.source)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want syntax error", tt.source)
			}
			if !mdserror.HasCode(err, mdserror.CodeScriptSyntax) {
				t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptSyntax)
			}
		})
	}
}

func TestParse_OpenBlockClosedAtEOF(t *testing.T) {
	// The default parser closes blocks left open at end of input
	program := parseProgram(t, "IF 1\n PRINT \"x\"")

	ifStmt, ok := program.Statements[0].(*mdsast.IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want *IfStmt", program.Statements[0])
	}
	if len(ifStmt.Then) != 1 {
		t.Errorf("then has %d statements, want 1", len(ifStmt.Then))
	}
	if ifStmt.Else != nil {
		t.Errorf("else = %v, want nil", ifStmt.Else)
	}
}

func TestParse_NestedOpenBlocksClosedAtEOF(t *testing.T) {
	program := parseProgram(t, "FOR i IN 3\n  IF i > 1\n    PRINT i")

	forStmt, ok := program.Statements[0].(*mdsast.ForStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ForStmt", program.Statements[0])
	}
	if len(forStmt.Body) != 1 {
		t.Fatalf("for body has %d statements, want 1", len(forStmt.Body))
	}
	ifStmt, ok := forStmt.Body[0].(*mdsast.IfStmt)
	if !ok {
		t.Fatalf("body[0] is %T, want *IfStmt", forStmt.Body[0])
	}
	if len(ifStmt.Then) != 1 {
		t.Errorf("then has %d statements, want 1", len(ifStmt.Then))
	}
}

func TestParse_StrictRejectsOpenBlock(t *testing.T) {
	for _, source := range []string{
		"IF x > 0\n  PRINT x",
		"FOR i IN 3\n  PRINT i",
		"WHILE TRUE\n  SET x = 1",
		"DEF f()\n  RETURN 1",
	} {
		_, err := New(Options{Strict: true}).Parse(source)
		if err == nil {
			t.Errorf("strict Parse(%q) succeeded, want syntax error", source)
			continue
		}
		if !mdserror.HasCode(err, mdserror.CodeScriptSyntax) {
			t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptSyntax)
		}
	}
}

func TestParse_InputLengthBound(t *testing.T) {
	p := New(Options{MaxInputLength: 16})
	_, err := p.Parse("SET averylongname = 1234567890")
	if err == nil {
		t.Fatal("oversized script accepted")
	}
	if !mdserror.HasCode(err, mdserror.CodeScriptSyntax) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptSyntax)
	}
}

func TestParse_EmptyAndCommentOnly(t *testing.T) {
	for _, source := range []string{"", "\n\n\n", "# only a comment\n"} {
		program := parseProgram(t, source)
		if len(program.Statements) != 0 {
			t.Errorf("Parse(%q) produced %d statements, want 0", source, len(program.Statements))
		}
	}
}

func TestParse_MultipleStatementsPerLine(t *testing.T) {
	// No separator is required between statements; keywords resynchronize.
	program := parseProgram(t, "SET x = 1 SET y = 2")
	if len(program.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(program.Statements))
	}
}
