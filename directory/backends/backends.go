// Package backends is the build-time plugin registry for directory
// Store backends.
//
// A backend registers itself in init() and is enabled in a binary by
// importing its package (often as a blank import):
//
//	backends.MustRegister(backends.Backend{ ... })
package backends

import (
	"flag"
	"fmt"
	"sort"
	"sync"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// RegisterFlags adds backend-specific flags to fs. Optional; it
	// must be safe to call exactly once per process.
	RegisterFlags func(fs *flag.FlagSet)

	// Open constructs the Store using values parsed into flags
	// registered by RegisterFlags. It returns an optional close
	// function.
	Open func(root node.Node, rootOwner, resolverAddr registry.Address) (directory.Store, func() error, error)
}

var (
	mu      sync.RWMutex
	entries = map[string]Backend{}
)

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("backends: backend name is required")
	}
	if b.Open == nil {
		return fmt.Errorf("backends: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("backends: backend %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := entries[b.Name]; exists {
		return fmt.Errorf("backends: backend %q already registered", b.Name)
	}
	entries[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(entries))
	for _, b := range entries {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns backend names matching usage, sorted.
func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// RegisterFlags registers flags for all backends matching usage.
//
// This enables single-pass flag parsing (Go's flag package rejects
// unknown flags).
func RegisterFlags(fs *flag.FlagSet, usage Usage) {
	for _, b := range List(usage) {
		if b.RegisterFlags != nil {
			b.RegisterFlags(fs)
		}
	}
}

// Open opens the named backend if it exists and matches usage.
func Open(name string, usage Usage, root node.Node, rootOwner, resolverAddr registry.Address) (directory.Store, func() error, error) {
	mu.RLock()
	b, ok := entries[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("backend %q not supported in this binary", name)
	}
	return b.Open(root, rootOwner, resolverAddr)
}
