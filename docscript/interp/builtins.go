// File: builtins.go
// Title: Interpreter Builtin Functions
// Description: Implements the builtin function table available to every
//              script. User DEF statements of the same name shadow
//              builtins for the rest of the run.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial builtin set

package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	mdsast "github.com/msto63/mDS/docscript/ast"
)

// builtinFunc is the signature shared by all builtins
type builtinFunc func(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error)

// builtins maps uppercase names to implementations
var builtins = map[string]builtinFunc{
	"LEN":   builtinLen,
	"UPPER": builtinUpper,
	"LOWER": builtinLower,
	"TRIM":  builtinTrim,
	"ROUND": builtinRound,
	"ABS":   builtinAbs,
	"MIN":   builtinMinMax(math.Min),
	"MAX":   builtinMinMax(math.Max),
	"RANGE": builtinRange,
	"NOW":   builtinNow,
	"STR":   builtinStr,
	"NUM":   builtinNum,
}

// BuiltinNames returns the names of all builtins in unspecified order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func argCount(e *execution, name string, args []interface{}, min, max int, pos mdsast.Position) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return e.evalError(pos, fmt.Sprintf("%s expects %d arguments, got %d", name, min, len(args)))
		}
		return e.evalError(pos, fmt.Sprintf("%s expects %d to %d arguments, got %d", name, min, max, len(args)))
	}
	return nil
}

func builtinLen(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "LEN", args, 1, 1, pos); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []interface{}:
		return float64(len(v)), nil
	case nil:
		return float64(0), nil
	default:
		return nil, e.evalError(pos, fmt.Sprintf("LEN expects a string or list, got %s", typeName(args[0])))
	}
}

func builtinUpper(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "UPPER", args, 1, 1, pos); err != nil {
		return nil, err
	}
	return strings.ToUpper(formatValue(args[0])), nil
}

func builtinLower(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "LOWER", args, 1, 1, pos); err != nil {
		return nil, err
	}
	return strings.ToLower(formatValue(args[0])), nil
}

func builtinTrim(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "TRIM", args, 1, 1, pos); err != nil {
		return nil, err
	}
	return strings.TrimSpace(formatValue(args[0])), nil
}

func builtinRound(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "ROUND", args, 1, 2, pos); err != nil {
		return nil, err
	}

	n, err := e.toNumber(args[0], pos)
	if err != nil {
		return nil, err
	}

	digits := 0.0
	if len(args) == 2 {
		digits, err = e.toNumber(args[1], pos)
		if err != nil {
			return nil, err
		}
	}

	factor := math.Pow(10, digits)
	return math.Round(n*factor) / factor, nil
}

func builtinAbs(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "ABS", args, 1, 1, pos); err != nil {
		return nil, err
	}
	n, err := e.toNumber(args[0], pos)
	if err != nil {
		return nil, err
	}
	return math.Abs(n), nil
}

func builtinMinMax(pick func(a, b float64) float64) builtinFunc {
	return func(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
		if len(args) == 0 {
			return nil, e.evalError(pos, "MIN/MAX expect at least one argument")
		}

		// A single list argument folds over its elements
		values := args
		if len(args) == 1 {
			if list, ok := args[0].([]interface{}); ok {
				if len(list) == 0 {
					return nil, nil
				}
				values = list
			}
		}

		best, err := e.toNumber(values[0], pos)
		if err != nil {
			return nil, err
		}
		for _, arg := range values[1:] {
			n, err := e.toNumber(arg, pos)
			if err != nil {
				return nil, err
			}
			best = pick(best, n)
		}
		return best, nil
	}
}

func builtinRange(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "RANGE", args, 1, 2, pos); err != nil {
		return nil, err
	}

	start := 0.0
	var end float64
	var err error

	if len(args) == 1 {
		end, err = e.toNumber(args[0], pos)
	} else {
		start, err = e.toNumber(args[0], pos)
		if err == nil {
			end, err = e.toNumber(args[1], pos)
		}
	}
	if err != nil {
		return nil, err
	}

	var items []interface{}
	for n := int(start); n < int(end); n++ {
		// RANGE draws from the same budget as loops so a huge range
		// cannot dodge the iteration bound
		if err := e.spendIteration(pos); err != nil {
			return nil, err
		}
		items = append(items, float64(n))
	}
	return items, nil
}

func builtinNow(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "NOW", args, 0, 0, pos); err != nil {
		return nil, err
	}
	return time.Now().UTC().Format(time.RFC3339), nil
}

func builtinStr(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "STR", args, 1, 1, pos); err != nil {
		return nil, err
	}
	return formatValue(args[0]), nil
}

func builtinNum(e *execution, args []interface{}, pos mdsast.Position) (interface{}, error) {
	if err := argCount(e, "NUM", args, 1, 1, pos); err != nil {
		return nil, err
	}

	// NUM is lenient: unparseable input yields 0 instead of an error
	switch v := args[0].(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, nil
		}
		return float64(0), nil
	default:
		return float64(0), nil
	}
}
