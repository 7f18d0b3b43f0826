// File: interp.go
// Title: DocScript Tree-Walking Interpreter
// Description: Evaluates parsed programs directly against the AST with a
//              shared iteration budget and a call-depth bound. Capability
//              calls must never reach the interpreter; one arriving here
//              is a routing defect and aborts the run.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial interpreter implementation

package interp

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
	mdsast "github.com/msto63/mDS/docscript/ast"
	mdsstate "github.com/msto63/mDS/docscript/state"
	mdsmapx "github.com/msto63/mDS/utils/mapx"
)

const (
	// DefaultIterationLimit is the shared loop budget per run
	DefaultIterationLimit = 10000

	// DefaultMaxCallDepth bounds user function recursion
	DefaultMaxCallDepth = 32
)

// Options configures interpreter creation
type Options struct {
	Logger         *mdslog.Logger     // Logger (default: package default)
	IterationLimit int                // Shared loop budget (default: 10000)
	MaxCallDepth   int                // Recursion bound (default: 32)
	State          *mdsstate.Document // State document (default: fresh empty document)
}

// Interpreter evaluates DocScript programs locally
type Interpreter struct {
	options Options
}

// Result carries the outcome of a local run. Output holds every PRINT
// line produced before the run ended, including partial output of a
// failed run.
type Result struct {
	RunID  string   // Unique run identifier
	Output []string // PRINT lines in order
	Value  interface{} // Value of a top-level RETURN, nil otherwise
}

// execution is the per-run evaluation context
type execution struct {
	ctx        context.Context
	runID      string
	globals    map[string]interface{}
	functions  map[string]*mdsast.DefStmt
	output     []string
	iterations int
	depth      int
	options    Options
	logger     *mdslog.Logger
}

// outcome threads control flow out of nested blocks. A returned outcome
// unwinds to the enclosing function call, or ends the program at top
// level.
type outcome struct {
	returned bool
	value    interface{}
}

// New creates an interpreter with the given options
func New(options Options) *Interpreter {
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("interp")
	}
	if options.IterationLimit <= 0 {
		options.IterationLimit = DefaultIterationLimit
	}
	if options.MaxCallDepth <= 0 {
		options.MaxCallDepth = DefaultMaxCallDepth
	}
	if options.State == nil {
		options.State = mdsstate.New(mdsstate.Options{})
	}
	return &Interpreter{options: options}
}

// Run evaluates a program. On error the returned Result still carries
// the output produced up to the failure point.
func (i *Interpreter) Run(ctx context.Context, program *mdsast.Program) (*Result, error) {
	runID := uuid.NewString()
	exec := &execution{
		ctx:       ctx,
		runID:     runID,
		globals:   make(map[string]interface{}),
		functions: make(map[string]*mdsast.DefStmt),
		options:   i.options,
		logger:    i.options.Logger.WithRunID(runID),
	}

	result := &Result{RunID: runID}
	if program == nil {
		return result, nil
	}

	out, err := exec.execBlock(program.Statements, exec.globals)
	result.Output = exec.output
	if err != nil {
		return result, err
	}
	if out.returned {
		result.Value = out.value
	}

	return result, nil
}

// execBlock runs statements in order until an error or a RETURN
func (e *execution) execBlock(stmts []mdsast.Stmt, env map[string]interface{}) (outcome, error) {
	for _, stmt := range stmts {
		if err := e.checkCancelled(); err != nil {
			return outcome{}, err
		}

		out, err := e.execStatement(stmt, env)
		if err != nil {
			return outcome{}, err
		}
		if out.returned {
			return out, nil
		}
	}
	return outcome{}, nil
}

func (e *execution) execStatement(stmt mdsast.Stmt, env map[string]interface{}) (outcome, error) {
	switch s := stmt.(type) {
	case *mdsast.SetStmt:
		value, err := e.eval(s.Value, env)
		if err != nil {
			return outcome{}, err
		}
		env[s.Name] = value
		return outcome{}, nil

	case *mdsast.IfStmt:
		cond, err := e.eval(s.Condition, env)
		if err != nil {
			return outcome{}, err
		}
		if isTruthy(cond) {
			return e.execBlock(s.Then, env)
		}
		if s.Else != nil {
			return e.execBlock(s.Else, env)
		}
		return outcome{}, nil

	case *mdsast.ForStmt:
		return e.execFor(s, env)

	case *mdsast.WhileStmt:
		return e.execWhile(s, env)

	case *mdsast.DefStmt:
		e.functions[strings.ToUpper(s.Name)] = s
		return outcome{}, nil

	case *mdsast.PrintStmt:
		value, err := e.eval(s.Value, env)
		if err != nil {
			return outcome{}, err
		}
		e.output = append(e.output, formatValue(value))
		return outcome{}, nil

	case *mdsast.ReturnStmt:
		out := outcome{returned: true}
		if s.Value != nil {
			value, err := e.eval(s.Value, env)
			if err != nil {
				return outcome{}, err
			}
			out.value = value
		}
		return out, nil

	case *mdsast.StateSetStmt:
		value, err := e.eval(s.Value, env)
		if err != nil {
			return outcome{}, err
		}
		if err := e.options.State.Set(s.Path, value); err != nil {
			return outcome{}, err
		}
		return outcome{}, nil

	case *mdsast.ExprStmt:
		if _, err := e.eval(s.Value, env); err != nil {
			return outcome{}, err
		}
		return outcome{}, nil

	default:
		return outcome{}, e.evalError(stmt.Position(), fmt.Sprintf("unsupported statement %T", stmt))
	}
}

func (e *execution) execFor(s *mdsast.ForStmt, env map[string]interface{}) (outcome, error) {
	iterable, err := e.eval(s.Iterable, env)
	if err != nil {
		return outcome{}, err
	}

	// Each branch charges the budget element by element; a numeric count
	// is never materialized, so the budget also bounds memory.
	switch v := iterable.(type) {
	case float64:
		// FOR i IN 3 counts 0, 1, 2; negative counts run zero times
		for n := 0; n < int(v); n++ {
			out, done, err := e.forStep(s, env, float64(n))
			if done || err != nil {
				return out, err
			}
		}
	case []interface{}:
		for _, item := range v {
			out, done, err := e.forStep(s, env, item)
			if done || err != nil {
				return out, err
			}
		}
	case string:
		for _, r := range v {
			out, done, err := e.forStep(s, env, string(r))
			if done || err != nil {
				return out, err
			}
		}
	case nil:
		return outcome{}, nil
	default:
		return outcome{}, e.evalError(s.Position(), fmt.Sprintf("cannot iterate over %s", typeName(iterable)))
	}

	return outcome{}, nil
}

// forStep runs one loop iteration; done stops the loop early for a
// RETURN out of the body
func (e *execution) forStep(s *mdsast.ForStmt, env map[string]interface{}, item interface{}) (outcome, bool, error) {
	if err := e.spendIteration(s.Position()); err != nil {
		return outcome{}, true, err
	}
	if err := e.checkCancelled(); err != nil {
		return outcome{}, true, err
	}

	env[s.Variable] = item
	out, err := e.execBlock(s.Body, env)
	if err != nil {
		return outcome{}, true, err
	}
	return out, out.returned, nil
}

func (e *execution) execWhile(s *mdsast.WhileStmt, env map[string]interface{}) (outcome, error) {
	for {
		cond, err := e.eval(s.Condition, env)
		if err != nil {
			return outcome{}, err
		}
		if !isTruthy(cond) {
			return outcome{}, nil
		}

		if err := e.spendIteration(s.Position()); err != nil {
			return outcome{}, err
		}
		if err := e.checkCancelled(); err != nil {
			return outcome{}, err
		}

		out, err := e.execBlock(s.Body, env)
		if err != nil {
			return outcome{}, err
		}
		if out.returned {
			return out, nil
		}
	}
}

func (e *execution) eval(expr mdsast.Expr, env map[string]interface{}) (interface{}, error) {
	switch x := expr.(type) {
	case *mdsast.LiteralExpr:
		return x.Value, nil

	case *mdsast.ListExpr:
		items := make([]interface{}, 0, len(x.Elements))
		for _, el := range x.Elements {
			value, err := e.eval(el, env)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil

	case *mdsast.IdentifierExpr:
		if value, ok := env[x.Name]; ok {
			return value, nil
		}
		return nil, e.evalError(x.Position(), fmt.Sprintf("undefined variable %q", x.Name))

	case *mdsast.UnaryExpr:
		return e.evalUnary(x, env)

	case *mdsast.BinaryExpr:
		return e.evalBinary(x, env)

	case *mdsast.CallExpr:
		return e.evalCall(x, env)

	case *mdsast.StateGetExpr:
		value, ok := e.options.State.Get(x.Path)
		if !ok {
			return nil, nil // missing state reads as NULL
		}
		return value, nil

	case *mdsast.CapabilityCallExpr:
		// The router never hands privileged scripts to the interpreter;
		// reaching this branch means classification was bypassed.
		e.logger.Audit("capability call reached local interpreter", mdslog.Fields{
			"namespace": x.Namespace,
			"operation": x.Operation,
			"position":  x.Position().String(),
		})
		return nil, mdserror.Newf("capability call %s.%s cannot execute locally", x.Namespace, x.Operation).
			WithCode(mdserror.CodeScriptCapability).
			WithOperation("interp.eval").
			WithDetail("namespace", x.Namespace).
			WithDetail("operation", x.Operation)

	default:
		return nil, e.evalError(expr.Position(), fmt.Sprintf("unsupported expression %T", expr))
	}
}

func (e *execution) evalUnary(x *mdsast.UnaryExpr, env map[string]interface{}) (interface{}, error) {
	operand, err := e.eval(x.Operand, env)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case "-":
		n, err := e.toNumber(operand, x.Position())
		if err != nil {
			return nil, err
		}
		return -n, nil
	case "NOT":
		return !isTruthy(operand), nil
	default:
		return nil, e.evalError(x.Position(), fmt.Sprintf("unsupported unary operator %q", x.Op))
	}
}

func (e *execution) evalBinary(x *mdsast.BinaryExpr, env map[string]interface{}) (interface{}, error) {
	// AND/OR short-circuit before the right side is touched
	if x.Op == "AND" || x.Op == "OR" {
		left, err := e.eval(x.Left, env)
		if err != nil {
			return nil, err
		}
		if x.Op == "AND" && !isTruthy(left) {
			return false, nil
		}
		if x.Op == "OR" && isTruthy(left) {
			return true, nil
		}
		right, err := e.eval(x.Right, env)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	}

	left, err := e.eval(x.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(x.Right, env)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case "+":
		// Any string operand turns + into concatenation
		if ls, ok := left.(string); ok {
			return ls + formatValue(right), nil
		}
		if rs, ok := right.(string); ok {
			return formatValue(left) + rs, nil
		}
		return e.arith(left, right, x.Position(), func(a, b float64) float64 { return a + b })

	case "-":
		return e.arith(left, right, x.Position(), func(a, b float64) float64 { return a - b })

	case "*":
		return e.arith(left, right, x.Position(), func(a, b float64) float64 { return a * b })

	case "/":
		return e.arith(left, right, x.Position(), func(a, b float64) float64 {
			if b == 0 {
				return 0 // division by zero yields 0, not an error
			}
			return a / b
		})

	case "%":
		return e.arith(left, right, x.Position(), func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return float64(int64(a) % int64(b))
		})

	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil

	case "<", "<=", ">", ">=":
		return e.compare(x.Op, left, right, x.Position())

	default:
		return nil, e.evalError(x.Position(), fmt.Sprintf("unsupported operator %q", x.Op))
	}
}

func (e *execution) arith(left, right interface{}, pos mdsast.Position, op func(a, b float64) float64) (interface{}, error) {
	a, err := e.toNumber(left, pos)
	if err != nil {
		return nil, err
	}
	b, err := e.toNumber(right, pos)
	if err != nil {
		return nil, err
	}
	return op(a, b), nil
}

func (e *execution) compare(op string, left, right interface{}, pos mdsast.Position) (interface{}, error) {
	// Strings compare lexically when both sides are strings
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			switch op {
			case "<":
				return ls < rs, nil
			case "<=":
				return ls <= rs, nil
			case ">":
				return ls > rs, nil
			default:
				return ls >= rs, nil
			}
		}
	}

	a, err := e.toNumber(left, pos)
	if err != nil {
		return nil, err
	}
	b, err := e.toNumber(right, pos)
	if err != nil {
		return nil, err
	}

	switch op {
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	default:
		return a >= b, nil
	}
}

func (e *execution) evalCall(x *mdsast.CallExpr, env map[string]interface{}) (interface{}, error) {
	args := make([]interface{}, 0, len(x.Args))
	for _, argExpr := range x.Args {
		value, err := e.eval(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	// User definitions shadow builtins of the same name
	if def, ok := e.functions[strings.ToUpper(x.Name)]; ok {
		return e.callUserFunction(def, args, env, x.Position())
	}

	if builtin, ok := builtins[strings.ToUpper(x.Name)]; ok {
		return builtin(e, args, x.Position())
	}

	return nil, e.evalError(x.Position(), fmt.Sprintf("undefined function %q", x.Name))
}

func (e *execution) callUserFunction(def *mdsast.DefStmt, args []interface{}, env map[string]interface{}, pos mdsast.Position) (interface{}, error) {
	if e.depth >= e.options.MaxCallDepth {
		return nil, mdserror.Newf("call depth limit of %d exceeded in %q", e.options.MaxCallDepth, def.Name).
			WithCode(mdserror.CodeScriptResource).
			WithOperation("interp.call").
			WithDetail("function", def.Name).
			WithDetail("depth", e.depth)
	}
	if len(args) != len(def.Params) {
		return nil, e.evalError(pos, fmt.Sprintf("%s expects %d arguments, got %d", def.Name, len(def.Params), len(args)))
	}

	// The body runs against a snapshot of the caller's variables with the
	// parameters bound over them; the caller's mapping is untouched when
	// the call returns
	local := mdsmapx.Clone(env)
	for i, param := range def.Params {
		local[param] = args[i]
	}

	e.depth++
	out, err := e.execBlock(def.Body, local)
	e.depth--
	if err != nil {
		return nil, err
	}
	return out.value, nil
}

// spendIteration charges one loop iteration against the shared budget
func (e *execution) spendIteration(pos mdsast.Position) error {
	e.iterations++
	if e.iterations > e.options.IterationLimit {
		return mdserror.Newf("iteration limit of %d exceeded", e.options.IterationLimit).
			WithCode(mdserror.CodeScriptIterationLimit).
			WithOperation("interp.Run").
			WithDetail("line", pos.Line)
	}
	return nil
}

func (e *execution) checkCancelled() error {
	select {
	case <-e.ctx.Done():
		return mdserror.Wrap(e.ctx.Err(), "run cancelled").
			WithCode(mdserror.CodeCancelled).
			WithOperation("interp.Run")
	default:
		return nil
	}
}

func (e *execution) toNumber(value interface{}, pos mdsast.Position) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, nil
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, nil
		}
		return 0, e.evalError(pos, fmt.Sprintf("cannot use %q as a number", v))
	default:
		return 0, e.evalError(pos, fmt.Sprintf("cannot use %s as a number", typeName(value)))
	}
}

func (e *execution) evalError(pos mdsast.Position, message string) error {
	return mdserror.Newf("evaluation error at %s: %s", pos, message).
		WithCode(mdserror.CodeScriptExecution).
		WithOperation("interp.Run").
		WithDetail("line", pos.Line).
		WithDetail("column", pos.Column)
}

// isTruthy applies DocScript truthiness: NULL, FALSE, 0, "", and the
// empty list are falsy, everything else is truthy
func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// valuesEqual compares two values; numbers and strings compare by value,
// lists compare element-wise
func valuesEqual(left, right interface{}) bool {
	return reflect.DeepEqual(left, right)
}

// formatValue renders a value the way PRINT shows it
func formatValue(value interface{}) string {
	switch v := value.(type) {
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
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", value)
	}
}

// typeName names a runtime value type for error messages
func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "NULL"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "list"
	default:
		return fmt.Sprintf("%T", value)
	}
}
