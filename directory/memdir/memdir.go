// Package memdir provides the in-memory Store backend.
//
// It is the default backend for tests and single-process runs; state
// does not survive the process.
package memdir

import (
	"sync"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

type record struct {
	owner    registry.Address
	resolver registry.Address
	target   registry.Address
}

// Store is an in-memory directory + resolver.
type Store struct {
	resolverAddr registry.Address

	mu      sync.Mutex
	records map[node.Node]*record
}

var _ directory.Store = (*Store)(nil)

// New constructs a Store whose root node is owned by rootOwner and
// whose resolver identifies as resolverAddr.
func New(root node.Node, rootOwner, resolverAddr registry.Address) *Store {
	s := &Store{
		resolverAddr: resolverAddr,
		records:      map[node.Node]*record{},
	}
	s.records[root] = &record{owner: rootOwner, resolver: resolverAddr}
	return s
}

func (s *Store) CreateSubnode(caller registry.Address, parent node.Node, label node.LabelHash, owner, resolver registry.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[parent]
	if !ok || p.owner != caller {
		return directory.ErrNotOwner
	}
	child := node.Derive(parent, label)
	rec, ok := s.records[child]
	if !ok {
		rec = &record{}
		s.records[child] = rec
	}
	// Assignment is total: overwrite owner and resolver, keep target.
	rec.owner = owner
	rec.resolver = resolver
	return nil
}

func (s *Store) Addr() registry.Address { return s.resolverAddr }

func (s *Store) SetTarget(caller registry.Address, n node.Node, target registry.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[n]
	if !ok || rec.owner != caller {
		return directory.ErrNotOwner
	}
	rec.target = target
	return nil
}

func (s *Store) Target(n node.Node) registry.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[n]
	if !ok {
		return ""
	}
	return rec.target
}

func (s *Store) Owner(n node.Node) (registry.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[n]
	if !ok {
		return "", false
	}
	return rec.owner, true
}

func (s *Store) ResolverOf(n node.Node) (registry.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[n]
	if !ok {
		return "", false
	}
	return rec.resolver, true
}
