// File: registry.go
// Title: Capability Registry
// Description: Maintains the catalog of capability namespaces and
//              operations known to the runtime. The classifier consults
//              the registry to annotate scripts; routing decisions do not
//              depend on an operation being registered.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

// Package registry provides the capability namespace catalog for DocScript.
package registry

import (
	"sort"
	"strings"
	"sync"

	mdslog "github.com/msto63/mDS/core/log"
	mdsmapx "github.com/msto63/mDS/utils/mapx"
)

// Operation describes a single capability operation
type Operation struct {
	Name        string // Operation name (uppercase)
	Description string // Human-readable description
	MinArgs     int    // Minimum argument count
	MaxArgs     int    // Maximum argument count (-1 for unbounded)
}

// Namespace describes a capability namespace and its operations
type Namespace struct {
	Name        string               // Namespace name (uppercase)
	Description string               // Human-readable description
	Operations  map[string]Operation // Operations keyed by uppercase name
}

// Registry holds the known capability namespaces with thread-safe access
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
	logger     *mdslog.Logger
}

// Options configures registry creation
type Options struct {
	Logger       *mdslog.Logger // Logger (default: package default)
	SkipBuiltins bool           // Start empty instead of seeding the standard namespaces
}

// New creates a registry seeded with the standard capability namespaces
func New(options Options) *Registry {
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("registry")
	}

	r := &Registry{
		namespaces: make(map[string]*Namespace),
		logger:     options.Logger,
	}

	if !options.SkipBuiltins {
		r.seedBuiltins()
	}

	return r
}

// Register adds or replaces a namespace. Names fold to uppercase.
func (r *Registry) Register(ns *Namespace) {
	if ns == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToUpper(ns.Name)
	normalized := &Namespace{
		Name:        name,
		Description: ns.Description,
		Operations:  make(map[string]Operation, len(ns.Operations)),
	}
	for _, op := range ns.Operations {
		opName := strings.ToUpper(op.Name)
		op.Name = opName
		normalized.Operations[opName] = op
	}

	r.namespaces[name] = normalized
	r.logger.Debug("namespace registered", mdslog.Fields{
		"namespace":  name,
		"operations": len(normalized.Operations),
	})
}

// Lookup returns the namespace for a name, case-insensitively
func (r *Registry) Lookup(name string) (*Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ns, ok := r.namespaces[strings.ToUpper(name)]
	return ns, ok
}

// LookupOperation returns the operation descriptor for namespace.operation
func (r *Registry) LookupOperation(namespace, operation string) (Operation, bool) {
	ns, ok := r.Lookup(namespace)
	if !ok {
		return Operation{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := ns.Operations[strings.ToUpper(operation)]
	return op, ok
}

// Has reports whether a namespace is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all registered namespace names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return mdsmapx.SortedStringKeys(r.namespaces)
}

// OperationNames returns the sorted operation names of a namespace
func (r *Registry) OperationNames(namespace string) []string {
	ns, ok := r.Lookup(namespace)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(ns.Operations))
	for name := range ns.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// seedBuiltins registers the standard privileged namespaces
func (r *Registry) seedBuiltins() {
	builtins := []*Namespace{
		{
			Name:        "FILE",
			Description: "Workspace file access",
			Operations: map[string]Operation{
				"READ":   {Name: "READ", Description: "Read a file as text", MinArgs: 1, MaxArgs: 1},
				"WRITE":  {Name: "WRITE", Description: "Write text to a file", MinArgs: 2, MaxArgs: 2},
				"APPEND": {Name: "APPEND", Description: "Append text to a file", MinArgs: 2, MaxArgs: 2},
				"LIST":   {Name: "LIST", Description: "List directory entries", MinArgs: 0, MaxArgs: 1},
				"EXISTS": {Name: "EXISTS", Description: "Check whether a path exists", MinArgs: 1, MaxArgs: 1},
				"DELETE": {Name: "DELETE", Description: "Delete a file", MinArgs: 1, MaxArgs: 1},
			},
		},
		{
			Name:        "MESH",
			Description: "Peer messaging",
			Operations: map[string]Operation{
				"SEND":      {Name: "SEND", Description: "Send a message to a peer", MinArgs: 2, MaxArgs: 2},
				"BROADCAST": {Name: "BROADCAST", Description: "Send a message to all peers", MinArgs: 1, MaxArgs: 1},
				"PEERS":     {Name: "PEERS", Description: "List known peers", MinArgs: 0, MaxArgs: 0},
			},
		},
		{
			Name:        "KNOWLEDGE",
			Description: "Knowledge base queries",
			Operations: map[string]Operation{
				"QUERY":  {Name: "QUERY", Description: "Query the knowledge base", MinArgs: 1, MaxArgs: 2},
				"STORE":  {Name: "STORE", Description: "Store a knowledge entry", MinArgs: 2, MaxArgs: 2},
				"SEARCH": {Name: "SEARCH", Description: "Full-text search", MinArgs: 1, MaxArgs: 2},
			},
		},
		{
			Name:        "ARCHIVE",
			Description: "Long-term document archive",
			Operations: map[string]Operation{
				"STORE":    {Name: "STORE", Description: "Archive a document", MinArgs: 1, MaxArgs: 2},
				"RETRIEVE": {Name: "RETRIEVE", Description: "Retrieve an archived document", MinArgs: 1, MaxArgs: 1},
				"SEARCH":   {Name: "SEARCH", Description: "Search the archive", MinArgs: 1, MaxArgs: 2},
			},
		},
		{
			Name:        "EMAIL",
			Description: "Outbound mail",
			Operations: map[string]Operation{
				"SEND":  {Name: "SEND", Description: "Send a mail", MinArgs: 2, MaxArgs: 3},
				"DRAFT": {Name: "DRAFT", Description: "Create a draft", MinArgs: 2, MaxArgs: 3},
			},
		},
		{
			Name:        "SYSTEM",
			Description: "Host system information",
			Operations: map[string]Operation{
				"INFO":   {Name: "INFO", Description: "Host and runtime information", MinArgs: 0, MaxArgs: 0},
				"NOTIFY": {Name: "NOTIFY", Description: "Show a user notification", MinArgs: 1, MaxArgs: 2},
			},
		},
	}

	for _, ns := range builtins {
		r.Register(ns)
	}
}
