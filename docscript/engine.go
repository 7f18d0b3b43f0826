// File: engine.go
// Title: DocScript Engine Facade
// Description: Provides the top-level entry point embedding hosts use to
//              run DocScript. Bundles parser, classifier, interpreter,
//              and router behind a small API and wires them from
//              configuration.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial engine facade

// Package docscript is the embedding surface of the mDS script runtime.
//
// A host creates one Engine and feeds it scripts:
//
//	engine, err := docscript.NewEngine(docscript.Options{
//		ExecutorEndpoint: "http://localhost:8710",
//	})
//	result := engine.Run(ctx, source)
//
// Scripts that stay inside the language run in-process; scripts that
// touch a capability namespace (FILE, MESH, KNOWLEDGE, ARCHIVE, EMAIL,
// SYSTEM, or anything else dotted) are delegated to the configured
// privileged executor in full.
package docscript

import (
	"context"
	"time"

	mdsconfig "github.com/msto63/mDS/core/config"
	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
	mdsclassify "github.com/msto63/mDS/docscript/classify"
	mdsinterp "github.com/msto63/mDS/docscript/interp"
	mdsparser "github.com/msto63/mDS/docscript/parser"
	mdsprivileged "github.com/msto63/mDS/docscript/privileged"
	mdsregistry "github.com/msto63/mDS/docscript/registry"
	mdsrouter "github.com/msto63/mDS/docscript/router"
	mdsstate "github.com/msto63/mDS/docscript/state"
)

// Options configures engine creation. Zero values pick working defaults
// for everything except delegation, which stays off without an endpoint.
type Options struct {
	Logger           *mdslog.Logger         // Logger (default: package default)
	Registry         *mdsregistry.Registry  // Capability catalog (default: standard namespaces)
	Executor         mdsprivileged.Executor // Explicit executor (overrides ExecutorEndpoint)
	ExecutorEndpoint string                 // HTTP executor base URL ("" disables delegation)
	ExecutorTimeout  time.Duration          // Privileged call timeout (default: 30s)
	IterationLimit   int                    // Local loop budget (default: 10000)
	MaxCallDepth     int                    // Local recursion bound (default: 32)
	MaxInputLength   int                    // Script size bound (default: 64 KiB)
	MaxStateSize     int                    // State document size bound (default: 1 MiB)
	Strict           bool                   // Strict lexing
	InitialState     map[string]interface{} // Initial state contents
}

// Engine is the runtime facade
type Engine struct {
	logger   *mdslog.Logger
	router   *mdsrouter.Router
	parser   *mdsparser.Parser
	classify *mdsclassify.Classifier
	registry *mdsregistry.Registry
	state    *mdsstate.Document
}

// CheckResult is the outcome of static analysis without execution
type CheckResult struct {
	Valid      bool     // Script parses
	Privileged bool     // Script would be delegated
	Namespaces []string // Capability namespaces referenced
	Error      string   // Parse error text when invalid
}

// NewEngine creates an engine with the given options
func NewEngine(options Options) (*Engine, error) {
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("docscript")
	}
	if options.Registry == nil {
		options.Registry = mdsregistry.New(mdsregistry.Options{Logger: options.Logger})
	}

	stateDoc := mdsstate.New(mdsstate.Options{
		Initial: options.InitialState,
		MaxSize: options.MaxStateSize,
	})

	parser := mdsparser.New(mdsparser.Options{
		Logger:         options.Logger,
		MaxInputLength: options.MaxInputLength,
		Strict:         options.Strict,
	})

	classifier := mdsclassify.New(mdsclassify.Options{
		Registry: options.Registry,
		Logger:   options.Logger,
	})

	interpreter := mdsinterp.New(mdsinterp.Options{
		Logger:         options.Logger,
		IterationLimit: options.IterationLimit,
		MaxCallDepth:   options.MaxCallDepth,
		State:          stateDoc,
	})

	executor := options.Executor
	if executor == nil && options.ExecutorEndpoint != "" {
		client, err := mdsprivileged.NewClient(mdsprivileged.Options{
			Endpoint: options.ExecutorEndpoint,
			Timeout:  options.ExecutorTimeout,
			Logger:   options.Logger,
		})
		if err != nil {
			return nil, mdserror.Wrap(err, "configuring privileged executor").
				WithCode(mdserror.CodeConfigError).
				WithOperation("docscript.NewEngine")
		}
		executor = client
	}

	router := mdsrouter.New(mdsrouter.Options{
		Logger:      options.Logger,
		Parser:      parser,
		Classifier:  classifier,
		Interpreter: interpreter,
		Executor:    executor,
		State:       stateDoc,
		Timeout:     options.ExecutorTimeout,
	})

	return &Engine{
		logger:   options.Logger,
		router:   router,
		parser:   parser,
		classify: classifier,
		registry: options.Registry,
		state:    stateDoc,
	}, nil
}

// NewEngineFromConfig builds engine options from a loaded configuration
func NewEngineFromConfig(cfg *mdsconfig.Config, logger *mdslog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = mdsconfig.NewEmpty()
	}

	return NewEngine(Options{
		Logger:           logger,
		ExecutorEndpoint: cfg.GetString("privileged.endpoint"),
		ExecutorTimeout:  cfg.GetDuration("privileged.timeout"),
		IterationLimit:   cfg.GetInt("runtime.iteration_limit"),
		MaxCallDepth:     cfg.GetInt("runtime.max_call_depth"),
		MaxInputLength:   cfg.GetInt("runtime.max_input_length"),
		MaxStateSize:     cfg.GetInt("runtime.max_state_size"),
		Strict:           cfg.GetBool("runtime.strict"),
	})
}

// Run executes a script and returns the normalized result
func (e *Engine) Run(ctx context.Context, source string) *mdsrouter.Result {
	return e.router.Run(ctx, source)
}

// Check parses and classifies a script without executing it
func (e *Engine) Check(source string) CheckResult {
	program, err := e.parser.Parse(source)
	if err != nil {
		return CheckResult{Valid: false, Error: err.Error()}
	}

	classification := e.classify.Classify(program)
	return CheckResult{
		Valid:      true,
		Privileged: classification.Privileged,
		Namespaces: classification.Namespaces,
	}
}

// State returns the shared state document
func (e *Engine) State() *mdsstate.Document {
	return e.state
}

// UpdateState overwrites the state document with host-provided contents
func (e *Engine) UpdateState(data map[string]interface{}) {
	e.router.UpdateState(data)
}

// Registry returns the capability catalog
func (e *Engine) Registry() *mdsregistry.Registry {
	return e.registry
}
