// File: state.go
// Title: Script State Document
// Description: Implements the shared state document scripts read and
//              write through STATE GET/SET. The document survives across
//              runs; after privileged delegation the executor's returned
//              state replaces it wholesale.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial implementation

// Package state provides the persistent state document for DocScript runs.
package state

import (
	"encoding/json"
	"sync"

	mdserror "github.com/msto63/mDS/core/error"
	mdsmapx "github.com/msto63/mDS/utils/mapx"
)

// DefaultMaxSize bounds the serialized document size in bytes
const DefaultMaxSize = 1 << 20 // 1 MiB

// Document is a thread-safe nested key/value store addressed by
// dot-separated paths
type Document struct {
	mu      sync.RWMutex
	data    map[string]interface{}
	maxSize int
}

// Options configures document creation
type Options struct {
	Initial map[string]interface{} // Initial contents (deep-cloned)
	MaxSize int                    // Serialized size bound in bytes (default: 1 MiB)
}

// New creates a state document
func New(options Options) *Document {
	if options.MaxSize <= 0 {
		options.MaxSize = DefaultMaxSize
	}

	data := mdsmapx.DeepClone(options.Initial)
	if data == nil {
		data = make(map[string]interface{})
	}

	return &Document{data: data, maxSize: options.MaxSize}
}

// Get returns the value at a dot-separated path
func (d *Document) Get(path string) (interface{}, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return mdsmapx.GetPath(d.data, path)
}

// Set writes a value at a dot-separated path, creating intermediate maps
// as needed. The write is rejected when it would push the serialized
// document past the size bound.
func (d *Document) Set(path string, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous, hadPrevious := mdsmapx.GetPath(d.data, path)
	mdsmapx.SetPath(d.data, path, value)

	if size := d.sizeLocked(); size > d.maxSize {
		// Roll back so an oversized write leaves the document intact
		if hadPrevious {
			mdsmapx.SetPath(d.data, path, previous)
		} else {
			mdsmapx.DeletePath(d.data, path)
		}
		return mdserror.Newf("state document would exceed %d bytes", d.maxSize).
			WithCode(mdserror.CodeScriptResource).
			WithOperation("state.Set").
			WithDetail("path", path).
			WithDetail("size", size)
	}

	return nil
}

// Delete removes the value at a dot-separated path
func (d *Document) Delete(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mdsmapx.DeletePath(d.data, path)
}

// Snapshot returns a deep copy of the document contents
func (d *Document) Snapshot() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return mdsmapx.DeepClone(d.data)
}

// Replace overwrites the whole document with the given contents. This is
// the state-sync path after privileged delegation: the executor's view
// wins, there is no merging.
func (d *Document) Replace(data map[string]interface{}) {
	cloned := mdsmapx.DeepClone(data)
	if cloned == nil {
		cloned = make(map[string]interface{})
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = cloned
}

// Size returns the serialized size of the document in bytes
func (d *Document) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sizeLocked()
}

// MarshalJSON serializes the document contents
func (d *Document) MarshalJSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return json.Marshal(d.data)
}

// UnmarshalJSON replaces the document contents from serialized form
func (d *Document) UnmarshalJSON(raw []byte) error {
	data := make(map[string]interface{})
	if err := json.Unmarshal(raw, &data); err != nil {
		return mdserror.Wrap(err, "invalid state document").
			WithCode(mdserror.CodeInvalidInput).
			WithOperation("state.UnmarshalJSON")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.data = data
	if d.maxSize <= 0 {
		d.maxSize = DefaultMaxSize
	}
	return nil
}

func (d *Document) sizeLocked() int {
	raw, err := json.Marshal(d.data)
	if err != nil {
		return 0
	}
	return len(raw)
}
