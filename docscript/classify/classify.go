// File: classify.go
// Title: Static Capability Classifier
// Description: Walks parsed programs to decide whether a script can run
//              in the local interpreter or must be delegated to the
//              privileged executor. Classification is purely static; no
//              expression is evaluated.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

// Package classify provides static privilege classification for DocScript.
package classify

import (
	"sort"

	mdslog "github.com/msto63/mDS/core/log"
	mdsast "github.com/msto63/mDS/docscript/ast"
	mdsregistry "github.com/msto63/mDS/docscript/registry"
)

// Call identifies a single capability call site found in a script
type Call struct {
	Namespace  string          // Uppercase namespace
	Operation  string          // Uppercase operation
	Pos        mdsast.Position // Source position
	Registered bool            // Known to the capability registry
}

// Result describes the outcome of classifying a program
type Result struct {
	Privileged bool     // Script must be delegated
	Namespaces []string // Distinct namespaces referenced, sorted
	Calls      []Call   // Every capability call site in source order
}

// Classifier inspects programs for capability usage
type Classifier struct {
	registry *mdsregistry.Registry
	logger   *mdslog.Logger
}

// Options configures classifier creation
type Options struct {
	Registry *mdsregistry.Registry // Capability catalog (default: standard namespaces)
	Logger   *mdslog.Logger        // Logger (default: package default)
}

// New creates a classifier with the given options
func New(options Options) *Classifier {
	if options.Registry == nil {
		options.Registry = mdsregistry.New(mdsregistry.Options{})
	}
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("classify")
	}
	return &Classifier{registry: options.Registry, logger: options.Logger}
}

// Classify inspects a program and reports its capability usage. Any
// capability call marks the script privileged, registered or not; an
// unknown namespace still reaches for the outside world, and the
// privileged executor is the one to reject it.
func (c *Classifier) Classify(program *mdsast.Program) Result {
	result := Result{}
	if program == nil {
		return result
	}

	seen := make(map[string]bool)

	mdsast.Inspect(program, func(n mdsast.Node) bool {
		call, ok := n.(*mdsast.CapabilityCallExpr)
		if !ok {
			return true
		}

		_, registered := c.registry.LookupOperation(call.Namespace, call.Operation)
		result.Calls = append(result.Calls, Call{
			Namespace:  call.Namespace,
			Operation:  call.Operation,
			Pos:        call.Position(),
			Registered: registered,
		})

		if !seen[call.Namespace] {
			seen[call.Namespace] = true
			result.Namespaces = append(result.Namespaces, call.Namespace)
		}
		return true
	})

	sort.Strings(result.Namespaces)
	result.Privileged = len(result.Calls) > 0

	if result.Privileged {
		c.logger.Debug("script classified privileged", mdslog.Fields{
			"namespaces": result.Namespaces,
			"calls":      len(result.Calls),
		})
	}

	return result
}
