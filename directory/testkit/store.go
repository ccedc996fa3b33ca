// Package testkit holds the shared conformance suite for directory
// Store backends.
package testkit

import (
	"testing"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

// NewStore constructs a fresh, empty Store for a test with the given
// root node, root owner and resolver address. The returned Store MUST
// be isolated from other tests.
type NewStore func(t *testing.T, root node.Node, rootOwner, resolverAddr registry.Address) directory.Store

// RunStoreConformance exercises the Store contract every backend must
// satisfy.
func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	const (
		owner    = registry.Address("addr-registry")
		resolver = registry.Address("addr-resolver")
		stranger = registry.Address("addr-stranger")
	)

	t.Run("CreateSubnodeAndRead", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		lh := node.HashLabel("cork")
		if err := s.CreateSubnode(owner, node.Root, lh, owner, resolver); err != nil {
			t.Fatalf("CreateSubnode: %v", err)
		}
		child := node.Derive(node.Root, lh)
		if got, ok := s.Owner(child); !ok || got != owner {
			t.Fatalf("Owner(child) = %q, %v", got, ok)
		}
		if got, ok := s.ResolverOf(child); !ok || got != resolver {
			t.Fatalf("ResolverOf(child) = %q, %v", got, ok)
		}
	})

	t.Run("CreateSubnodeRequiresParentOwner", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		lh := node.HashLabel("cork")
		err := s.CreateSubnode(stranger, node.Root, lh, stranger, resolver)
		if !directory.IsNotOwner(err) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
		if _, ok := s.Owner(node.Derive(node.Root, lh)); ok {
			t.Fatalf("rejected CreateSubnode left a record behind")
		}
	})

	t.Run("CreateSubnodeOverwriteKeepsTarget", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		lh := node.HashLabel("cork")
		child := node.Derive(node.Root, lh)
		if err := s.CreateSubnode(owner, node.Root, lh, owner, resolver); err != nil {
			t.Fatalf("CreateSubnode(1): %v", err)
		}
		if err := s.SetTarget(owner, child, "addr-target"); err != nil {
			t.Fatalf("SetTarget: %v", err)
		}
		// Assignment is total: the second call overwrites ownership but
		// the bound target survives.
		if err := s.CreateSubnode(owner, node.Root, lh, stranger, resolver); err != nil {
			t.Fatalf("CreateSubnode(2): %v", err)
		}
		if got, _ := s.Owner(child); got != stranger {
			t.Fatalf("overwrite did not change owner: %q", got)
		}
		if got := s.Target(child); got != "addr-target" {
			t.Fatalf("overwrite clobbered target: %q", got)
		}
	})

	t.Run("SetTargetOwnerGated", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		lh := node.HashLabel("cork")
		child := node.Derive(node.Root, lh)
		if err := s.CreateSubnode(owner, node.Root, lh, owner, resolver); err != nil {
			t.Fatalf("CreateSubnode: %v", err)
		}
		if err := s.SetTarget(stranger, child, "addr-target"); !directory.IsNotOwner(err) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
		if err := s.SetTarget(owner, child, "addr-target"); err != nil {
			t.Fatalf("SetTarget(owner): %v", err)
		}
		if got := s.Target(child); got != "addr-target" {
			t.Fatalf("Target = %q", got)
		}
	})

	t.Run("SetTargetUnknownNode", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		n := node.Derive(node.Root, node.HashLabel("ghost"))
		if err := s.SetTarget(owner, n, "addr-target"); !directory.IsNotOwner(err) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("TargetDefaultsToZero", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		if got := s.Target(node.Derive(node.Root, node.HashLabel("cork"))); !got.IsZero() {
			t.Fatalf("unbound Target = %q, want zero", got)
		}
	})

	t.Run("ResolverAddr", func(t *testing.T) {
		s := newStore(t, node.Root, owner, resolver)
		if got := s.Addr(); got != resolver {
			t.Fatalf("Addr = %q, want %q", got, resolver)
		}
	})
}
