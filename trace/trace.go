// Package trace records the functions selected for execution tracing.
//
// Targets are registered by name, usually by an option mask parser handling
// a "trace(...)" entry, and later matched against the signature of each
// traced function.
package trace

import (
	"slices"
	"strings"
	"sync"
)

// Sink receives trace targets.
type Sink interface {
	AddTarget(name string)
}

// SinkFunc adapts a function to a [Sink].
type SinkFunc func(name string)

// AddTarget calls f(name).
func (f SinkFunc) AddTarget(name string) { f(name) }

// Discard is a [Sink] that ignores every target.
var Discard Sink = SinkFunc(func(string) {})

// Registry is an ordered set of trace targets. Each target is kept once, in
// the order it was first added.
//
// A Registry is safe for concurrent use. The zero value is empty and ready
// to use.
type Registry struct {
	mu      sync.RWMutex
	seen    map[string]struct{}
	targets []string
}

// AddTarget adds name to r unless it is empty or already present.
func (r *Registry) AddTarget(name string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[name]; ok {
		return
	}

	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}

	r.seen[name] = struct{}{}
	r.targets = append(r.targets, name)
}

// Targets returns the registered targets in the order they were added.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.targets)
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.targets)
}

// Reset removes every target.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.seen)
	r.targets = nil
}

// Match reports whether function is selected for tracing, that is, whether
// any registered target is a prefix of the function signature. A target
// "Solver::" therefore selects every member of Solver, and "solve(int"
// selects only the overloads of solve whose first parameter is an int.
func (r *Registry) Match(function string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.ContainsFunc(r.targets, func(target string) bool {
		return strings.HasPrefix(function, target)
	})
}

// Default is the process-wide registry used by the package-level functions.
var Default = new(Registry)

// AddTarget adds name to [Default].
func AddTarget(name string) { Default.AddTarget(name) }

// Match reports whether function matches a target in [Default].
func Match(function string) bool { return Default.Match(function) }
