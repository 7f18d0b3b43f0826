// File: router.go
// Title: Execution Router
// Description: Routes parsed scripts to the local interpreter or the
//              remote privileged executor based on static classification.
//              Privileged scripts never run locally, not even partially;
//              after successful delegation the executor's state document
//              replaces the local one wholesale.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial router implementation

// Package router decides where DocScript runs execute and normalizes
// their outcomes.
package router

import (
	"context"
	"time"

	"github.com/google/uuid"

	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
	mdsclassify "github.com/msto63/mDS/docscript/classify"
	mdsinterp "github.com/msto63/mDS/docscript/interp"
	mdsparser "github.com/msto63/mDS/docscript/parser"
	mdsprivileged "github.com/msto63/mDS/docscript/privileged"
	mdsstate "github.com/msto63/mDS/docscript/state"
)

// RunState tracks where a run is in its lifecycle
type RunState int

const (
	StateIdle RunState = iota
	StateClassified
	StateLocalExecuting
	StateAwaitingPrivileged
	StateCompleted
	StateFailed
)

// String returns the state name
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClassified:
		return "classified"
	case StateLocalExecuting:
		return "local_executing"
	case StateAwaitingPrivileged:
		return "awaiting_privileged"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies run failures for callers. It is a result field,
// not a Go error: a failed run is still a regular Result.
type ErrorKind string

const (
	KindNone                   ErrorKind = ""
	KindParseError             ErrorKind = "ParseError"
	KindIterationLimitExceeded ErrorKind = "IterationLimitExceeded"
	KindPrivilegedUnavailable  ErrorKind = "PrivilegedUnavailable"
	KindPrivilegedTimeout      ErrorKind = "PrivilegedTimeout"
	KindCapabilityMisuse       ErrorKind = "CapabilityMisuse"
	KindEvaluationError        ErrorKind = "EvaluationError"
	KindCancelled              ErrorKind = "Cancelled"
)

// knownKinds guards mapping of remote error kinds onto the taxonomy
var knownKinds = map[ErrorKind]bool{
	KindParseError:             true,
	KindIterationLimitExceeded: true,
	KindPrivilegedUnavailable:  true,
	KindPrivilegedTimeout:      true,
	KindCapabilityMisuse:       true,
	KindEvaluationError:        true,
	KindCancelled:              true,
}

// Result is the normalized outcome of a routed run
type Result struct {
	RunID        string        // Unique run identifier
	Success      bool          // Run completed without error
	Output       []string      // PRINT lines, partial on failure
	Privileged   bool          // Script was delegated (or should have been)
	Namespaces   []string      // Capability namespaces the script references
	ErrorKind    ErrorKind     // Failure classification, empty on success
	ErrorMessage string        // Human-readable failure detail
	FinalState   RunState      // Terminal lifecycle state
	Duration     time.Duration // Wall time of the run
}

// Options configures router creation
type Options struct {
	Logger      *mdslog.Logger           // Logger (default: package default)
	Parser      *mdsparser.Parser        // Parser (default: standard options)
	Classifier  *mdsclassify.Classifier  // Classifier (default: standard registry)
	Interpreter *mdsinterp.Interpreter   // Local interpreter (default: standard bounds)
	Executor    mdsprivileged.Executor   // Privileged backend (nil: delegation unavailable)
	State       *mdsstate.Document       // Shared state document (default: fresh document)
	Timeout     time.Duration            // Privileged call timeout (default: 30s)
}

// Router owns the execution pipeline for one embedding host
type Router struct {
	logger      *mdslog.Logger
	parser      *mdsparser.Parser
	classifier  *mdsclassify.Classifier
	interpreter *mdsinterp.Interpreter
	executor    mdsprivileged.Executor
	state       *mdsstate.Document
	timeout     time.Duration
}

// New creates a router with the given options
func New(options Options) *Router {
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("router")
	}
	if options.Parser == nil {
		options.Parser = mdsparser.New(mdsparser.Options{Logger: options.Logger})
	}
	if options.Classifier == nil {
		options.Classifier = mdsclassify.New(mdsclassify.Options{Logger: options.Logger})
	}
	if options.State == nil {
		options.State = mdsstate.New(mdsstate.Options{})
	}
	if options.Interpreter == nil {
		options.Interpreter = mdsinterp.New(mdsinterp.Options{
			Logger: options.Logger,
			State:  options.State,
		})
	}
	if options.Timeout <= 0 {
		options.Timeout = mdsprivileged.DefaultTimeout
	}

	return &Router{
		logger:      options.Logger,
		parser:      options.Parser,
		classifier:  options.Classifier,
		interpreter: options.Interpreter,
		executor:    options.Executor,
		state:       options.State,
		timeout:     options.Timeout,
	}
}

// State returns the shared state document
func (r *Router) State() *mdsstate.Document {
	return r.state
}

// UpdateState overwrites the shared state document. The host calls this
// between runs; there is no merge semantics anywhere.
func (r *Router) UpdateState(data map[string]interface{}) {
	r.state.Replace(data)
}

// Run parses, classifies, and executes a script. Failures come back as
// Result fields; the error return is reserved for misuse of the router
// itself and is currently always nil.
func (r *Router) Run(ctx context.Context, source string) *Result {
	started := time.Now()
	result := &Result{RunID: uuid.NewString(), FinalState: StateIdle}
	logger := r.logger.WithRunID(result.RunID)

	defer func() {
		result.Duration = time.Since(started)
		logger.Info("run finished", mdslog.Fields{
			"state":      result.FinalState.String(),
			"privileged": result.Privileged,
			"error_kind": string(result.ErrorKind),
			"duration":   result.Duration,
		})
	}()

	program, err := r.parser.Parse(source)
	if err != nil {
		return r.fail(result, KindParseError, err)
	}

	classification := r.classifier.Classify(program)
	result.FinalState = StateClassified
	result.Privileged = classification.Privileged
	result.Namespaces = classification.Namespaces

	if !classification.Privileged {
		result.FinalState = StateLocalExecuting
		local, err := r.interpreter.Run(ctx, program)
		if local != nil {
			result.RunID = local.RunID
			result.Output = local.Output
		}
		if err != nil {
			return r.fail(result, kindFromError(err), err)
		}
		result.Success = true
		result.FinalState = StateCompleted
		return result
	}

	return r.delegate(ctx, source, result, logger)
}

// delegate hands a privileged script to the remote executor
func (r *Router) delegate(ctx context.Context, source string, result *Result, logger *mdslog.Logger) *Result {
	if r.executor == nil {
		return r.fail(result, KindPrivilegedUnavailable,
			mdserror.New("no privileged executor configured").
				WithCode(mdserror.CodePrivilegedUnavailable))
	}

	result.FinalState = StateAwaitingPrivileged

	// A fresh probe before every delegation; a cached healthy verdict
	// can be stale by the time the script arrives.
	if err := r.executor.Probe(ctx); err != nil {
		return r.fail(result, kindFromError(err), err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.executor.Execute(callCtx, mdsprivileged.ExecuteRequest{
		Source: source,
		State:  r.state.Snapshot(),
	})
	if err != nil {
		// A cancelled parent context wins over the transport's own verdict
		if ctx.Err() != nil && callCtx.Err() == context.Canceled {
			return r.fail(result, KindCancelled, err)
		}
		return r.fail(result, kindFromError(err), err)
	}

	result.Output = resp.OutputLines

	// The executor's state is authoritative even for failed runs; its
	// side effects happened regardless of how the script ended.
	if resp.State != nil {
		r.state.Replace(resp.State)
		logger.Debug("state replaced from executor", mdslog.Fields{
			"size": r.state.Size(),
		})
	}

	if !resp.Success {
		kind := KindEvaluationError
		message := "privileged execution failed"
		if resp.Error != nil {
			if remote := ErrorKind(resp.Error.Kind); knownKinds[remote] {
				kind = remote
			}
			if resp.Error.Message != "" {
				message = resp.Error.Message
			}
		}
		result.ErrorKind = kind
		result.ErrorMessage = message
		result.FinalState = StateFailed
		return result
	}

	result.Success = true
	result.FinalState = StateCompleted
	return result
}

// fail finalizes a result for a failed run
func (r *Router) fail(result *Result, kind ErrorKind, err error) *Result {
	result.ErrorKind = kind
	result.ErrorMessage = err.Error()
	result.FinalState = StateFailed
	return result
}

// kindFromError maps structured error codes onto the result taxonomy
func kindFromError(err error) ErrorKind {
	switch mdserror.CodeOf(err) {
	case mdserror.CodeScriptSyntax:
		return KindParseError
	case mdserror.CodeScriptIterationLimit:
		return KindIterationLimitExceeded
	case mdserror.CodeScriptCapability:
		return KindCapabilityMisuse
	case mdserror.CodePrivilegedUnavailable:
		return KindPrivilegedUnavailable
	case mdserror.CodePrivilegedTimeout:
		return KindPrivilegedTimeout
	case mdserror.CodeCancelled:
		return KindCancelled
	default:
		return KindEvaluationError
	}
}
