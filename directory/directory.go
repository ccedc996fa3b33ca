// Package directory defines the backend contract for the hierarchical
// ownership store and its attached resolver.
//
// A Store implements both collaborator interfaces the registry
// consumes. Implementations live in subpackages (memdir, fsdir) and
// register themselves with the backends plugin registry; every backend
// must pass testkit.RunStoreConformance.
package directory

import (
	"errors"

	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

var (
	// ErrNotOwner: the caller does not own the node (or parent) it is
	// trying to mutate.
	ErrNotOwner = errors.New("directory: caller is not the owner")
	// ErrNotFound: no record exists for the node.
	ErrNotFound = errors.New("directory: node not found")
)

// IsNotOwner reports whether err is (or wraps) ErrNotOwner.
func IsNotOwner(err error) bool { return errors.Is(err, ErrNotOwner) }

// Store is a combined Directory + Resolver backend.
//
// Contract:
//   - CreateSubnode MUST fail with ErrNotOwner unless caller owns parent.
//   - Owner/resolver assignment is total: a second CreateSubnode for the
//     same (parent, label) overwrites both.
//   - SetTarget MUST fail with ErrNotOwner unless caller owns the node.
//   - Target MUST return the zero Address for unbound nodes.
//   - Owner/ResolverOf are audit reads and MUST NOT mutate state.
type Store interface {
	registry.Directory
	registry.Resolver

	Owner(n node.Node) (registry.Address, bool)
	ResolverOf(n node.Node) (registry.Address, bool)
}
