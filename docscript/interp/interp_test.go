// File: interp_test.go
// Title: Interpreter Unit Tests
// Description: Tests for evaluation semantics, iteration and recursion
//              bounds, state access, cancellation, and capability misuse.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial test suite

package interp

import (
	"context"
	"reflect"
	"testing"

	mdserror "github.com/msto63/mDS/core/error"
	mdsast "github.com/msto63/mDS/docscript/ast"
	mdsparser "github.com/msto63/mDS/docscript/parser"
	mdsstate "github.com/msto63/mDS/docscript/state"
)

func mustParse(t *testing.T, source string) *mdsast.Program {
	t.Helper()
	program, err := mdsparser.New(mdsparser.Options{}).Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return program
}

func run(t *testing.T, source string) *Result {
	t.Helper()
	result, err := New(Options{}).Run(context.Background(), mustParse(t, source))
	if err != nil {
		t.Fatalf("Run(%q) failed: %v", source, err)
	}
	return result
}

func runErr(t *testing.T, options Options, source string) (*Result, error) {
	t.Helper()
	result, err := New(options).Run(context.Background(), mustParse(t, source))
	if err == nil {
		t.Fatalf("Run(%q) succeeded, want error", source)
	}
	return result, err
}

func TestRun_Arithmetic(t *testing.T) {
	result := run(t, "SET x = 2\nSET y = 3\nPRINT x + y")
	if !reflect.DeepEqual(result.Output, []string{"5"}) {
		t.Errorf("output = %v, want [5]", result.Output)
	}
}

func TestRun_ForCountsFromZero(t *testing.T) {
	result := run(t, "FOR i IN 3\n  PRINT i\nENDFOR")
	if !reflect.DeepEqual(result.Output, []string{"0", "1", "2"}) {
		t.Errorf("output = %v, want [0 1 2]", result.Output)
	}
}

func TestRun_DivisionByZero(t *testing.T) {
	result := run(t, "PRINT 5 / 0")
	if !reflect.DeepEqual(result.Output, []string{"0"}) {
		t.Errorf("output = %v, want [0]", result.Output)
	}
}

func TestRun_ModuloByZero(t *testing.T) {
	result := run(t, "PRINT 5 % 0")
	if !reflect.DeepEqual(result.Output, []string{"0"}) {
		t.Errorf("output = %v, want [0]", result.Output)
	}
}

func TestRun_WhileHitsIterationLimit(t *testing.T) {
	result, err := runErr(t, Options{}, "SET n = 0\nWHILE TRUE\n  SET n = n + 1\nENDWHILE")

	if !mdserror.HasCode(err, mdserror.CodeScriptIterationLimit) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptIterationLimit)
	}
	if result == nil {
		t.Fatal("result missing on iteration limit")
	}
}

func TestRun_HugeForCountBoundedByBudget(t *testing.T) {
	// The numeric count is iterated lazily, so the budget stops the loop
	// after a handful of steps even for an enormous count
	result, err := runErr(t, Options{IterationLimit: 5}, "FOR i IN 1000000000\n  PRINT i\nENDFOR")
	if !mdserror.HasCode(err, mdserror.CodeScriptIterationLimit) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptIterationLimit)
	}
	if len(result.Output) != 5 {
		t.Errorf("output has %d lines, want 5", len(result.Output))
	}
}

func TestRun_IterationBudgetSharedAcrossLoops(t *testing.T) {
	// Two loops of 6 iterations each exceed a budget of 10 together.
	source := "FOR i IN 6\n  PRINT i\nENDFOR\nFOR j IN 6\n  PRINT j\nENDFOR"
	result, err := runErr(t, Options{IterationLimit: 10}, source)

	if !mdserror.HasCode(err, mdserror.CodeScriptIterationLimit) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptIterationLimit)
	}
	// First loop finished, second got partway: output is preserved
	if len(result.Output) != 10 {
		t.Errorf("partial output = %d lines, want 10", len(result.Output))
	}
}

func TestRun_PartialOutputPreservedOnError(t *testing.T) {
	result, err := New(Options{}).Run(context.Background(),
		mustParse(t, "PRINT \"first\"\nPRINT undefined_var"))
	if err == nil {
		t.Fatal("expected undefined variable error")
	}
	if !reflect.DeepEqual(result.Output, []string{"first"}) {
		t.Errorf("partial output = %v, want [first]", result.Output)
	}
}

func TestRun_IfElse(t *testing.T) {
	result := run(t, `
SET x = -4
IF x > 0
  PRINT "pos"
ELSE
  PRINT "neg"
ENDIF`)
	if !reflect.DeepEqual(result.Output, []string{"neg"}) {
		t.Errorf("output = %v, want [neg]", result.Output)
	}
}

func TestRun_UserFunction(t *testing.T) {
	result := run(t, `
DEF add(a, b)
  RETURN a + b
ENDDEF
PRINT add(2, 3)`)
	if !reflect.DeepEqual(result.Output, []string{"5"}) {
		t.Errorf("output = %v, want [5]", result.Output)
	}
}

func TestRun_FunctionScopeIsolation(t *testing.T) {
	result := run(t, `
SET x = 1
DEF f()
  SET x = 99
  RETURN x
ENDDEF
PRINT f()
PRINT x`)
	if !reflect.DeepEqual(result.Output, []string{"99", "1"}) {
		t.Errorf("output = %v, want [99 1]", result.Output)
	}
}

func TestRun_FunctionReadsGlobals(t *testing.T) {
	result := run(t, `
SET base = 10
DEF bump(n)
  RETURN base + n
ENDDEF
PRINT bump(5)`)
	if !reflect.DeepEqual(result.Output, []string{"15"}) {
		t.Errorf("output = %v, want [15]", result.Output)
	}
}

func TestRun_FunctionReadsCallerLocals(t *testing.T) {
	// A function body sees a snapshot of its caller's variables, so a
	// nested call can read the outer function's locals
	result := run(t, `
DEF inner()
  RETURN x + 1
ENDDEF
DEF outer()
  SET x = 7
  RETURN inner()
ENDDEF
PRINT outer()`)
	if !reflect.DeepEqual(result.Output, []string{"8"}) {
		t.Errorf("output = %v, want [8]", result.Output)
	}
}

func TestRun_FunctionWritesStayInSnapshot(t *testing.T) {
	result := run(t, `
DEF clobber()
  SET x = 99
  RETURN 0
ENDDEF
DEF outer()
  SET x = 1
  clobber()
  RETURN x
ENDDEF
PRINT outer()`)
	if !reflect.DeepEqual(result.Output, []string{"1"}) {
		t.Errorf("output = %v, want [1]", result.Output)
	}
}

func TestRun_ReturnUnwindsNestedBlocks(t *testing.T) {
	// RETURN inside a FOR inside an IF exits the function immediately,
	// skipping remaining iterations and trailing statements
	result := run(t, `
DEF find(limit)
  FOR i IN limit
    IF i == 2
      RETURN i * 10
    ENDIF
    PRINT i
  ENDFOR
  PRINT "unreached"
  RETURN -1
ENDDEF
PRINT find(100)`)
	if !reflect.DeepEqual(result.Output, []string{"0", "1", "20"}) {
		t.Errorf("output = %v, want [0 1 20]", result.Output)
	}
}

func TestRun_RecursionDepthBound(t *testing.T) {
	source := `
DEF loop(n)
  RETURN loop(n + 1)
ENDDEF
PRINT loop(0)`
	_, err := runErr(t, Options{MaxCallDepth: 8}, source)
	if !mdserror.HasCode(err, mdserror.CodeScriptResource) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptResource)
	}
}

func TestRun_ReturnStopsTopLevel(t *testing.T) {
	result := run(t, "PRINT \"before\"\nRETURN 42\nPRINT \"after\"")
	if !reflect.DeepEqual(result.Output, []string{"before"}) {
		t.Errorf("output = %v, want [before]", result.Output)
	}
	if result.Value != 42.0 {
		t.Errorf("value = %v, want 42", result.Value)
	}
}

func TestRun_CapabilityCallIsMisuse(t *testing.T) {
	_, err := runErr(t, Options{}, `SET x = FILE.READ("notes.txt")`)
	if !mdserror.HasCode(err, mdserror.CodeScriptCapability) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeScriptCapability)
	}
}

func TestRun_StateRoundTrip(t *testing.T) {
	doc := mdsstate.New(mdsstate.Options{})
	interp := New(Options{State: doc})

	_, err := interp.Run(context.Background(), mustParse(t, `STATE SET user.name = "ada"`))
	if err != nil {
		t.Fatalf("state write failed: %v", err)
	}

	result, err := interp.Run(context.Background(), mustParse(t, "PRINT STATE GET user.name"))
	if err != nil {
		t.Fatalf("state read failed: %v", err)
	}
	if !reflect.DeepEqual(result.Output, []string{"ada"}) {
		t.Errorf("output = %v, want [ada]", result.Output)
	}
}

func TestRun_MissingStateReadsNull(t *testing.T) {
	result := run(t, "PRINT STATE GET nothing.here")
	if !reflect.DeepEqual(result.Output, []string{"NULL"}) {
		t.Errorf("output = %v, want [NULL]", result.Output)
	}
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(Options{}).Run(ctx, mustParse(t, "PRINT 1"))
	if err == nil {
		t.Fatal("cancelled run succeeded")
	}
	if !mdserror.HasCode(err, mdserror.CodeCancelled) {
		t.Errorf("error code = %v, want %v", mdserror.CodeOf(err), mdserror.CodeCancelled)
	}
	if len(result.Output) != 0 {
		t.Errorf("cancelled run produced output %v", result.Output)
	}
}

func TestRun_StringConcatenation(t *testing.T) {
	result := run(t, `PRINT "n = " + 5`)
	if !reflect.DeepEqual(result.Output, []string{"n = 5"}) {
		t.Errorf("output = %v, want [n = 5]", result.Output)
	}
}

func TestRun_Truthiness(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"IF 0\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "f"},
		{"IF \"\"\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "f"},
		{"IF NULL\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "f"},
		{"IF []\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "f"},
		{"IF [0]\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "t"},
		{"IF \"x\"\nPRINT \"t\"\nELSE\nPRINT \"f\"\nENDIF", "t"},
	}

	for _, tt := range tests {
		result := run(t, tt.source)
		if !reflect.DeepEqual(result.Output, []string{tt.want}) {
			t.Errorf("Run(%q) = %v, want [%s]", tt.source, result.Output, tt.want)
		}
	}
}

func TestRun_ShortCircuit(t *testing.T) {
	// The right side would fail; short-circuiting must skip it
	result := run(t, "PRINT FALSE AND missing_var")
	if !reflect.DeepEqual(result.Output, []string{"FALSE"}) {
		t.Errorf("output = %v, want [FALSE]", result.Output)
	}

	result = run(t, "PRINT TRUE OR missing_var")
	if !reflect.DeepEqual(result.Output, []string{"TRUE"}) {
		t.Errorf("output = %v, want [TRUE]", result.Output)
	}
}

func TestRun_ForOverListAndString(t *testing.T) {
	result := run(t, "FOR item IN [10, 20]\n  PRINT item\nENDFOR")
	if !reflect.DeepEqual(result.Output, []string{"10", "20"}) {
		t.Errorf("list iteration = %v", result.Output)
	}

	result = run(t, "FOR ch IN \"ab\"\n  PRINT ch\nENDFOR")
	if !reflect.DeepEqual(result.Output, []string{"a", "b"}) {
		t.Errorf("string iteration = %v", result.Output)
	}
}

func TestRun_NumberFormatting(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"PRINT 5", "5"},
		{"PRINT 2.5", "2.5"},
		{"PRINT 10 / 4", "2.5"},
		{"PRINT 1 / 3 * 3", "1"},
		{"PRINT -0.5", "-0.5"},
	}

	for _, tt := range tests {
		result := run(t, tt.source)
		if !reflect.DeepEqual(result.Output, []string{tt.want}) {
			t.Errorf("Run(%q) = %v, want [%s]", tt.source, result.Output, tt.want)
		}
	}
}

func TestRun_RunIDAssigned(t *testing.T) {
	a := run(t, "PRINT 1")
	b := run(t, "PRINT 1")
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("run IDs not unique: %q vs %q", a.RunID, b.RunID)
	}
}
