// Package fsdir provides the filesystem-backed Store backend.
//
// One JSON record per node, keyed by the node's hex form and sharded
// by its first two characters. Writes go through a temp file, fsync
// and rename so a crash never leaves a torn record. The backend is
// offline and deterministic: no network, no wall-clock dependence.
package fsdir

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

type record struct {
	Owner    registry.Address `json:"owner"`
	Resolver registry.Address `json:"resolver"`
	Target   registry.Address `json:"target,omitempty"`
}

// Store is a filesystem directory + resolver rooted at a directory.
type Store struct {
	root         string
	resolverAddr registry.Address

	mu sync.Mutex
}

var _ directory.Store = (*Store)(nil)

// New constructs a Store under dir. The root node record is created
// with rootOwner on first use and left untouched on reopen.
func New(dir string, root node.Node, rootOwner, resolverAddr registry.Address) (*Store, error) {
	if dir == "" {
		return nil, errors.New("fsdir: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{root: dir, resolverAddr: resolverAddr}
	if _, err := s.read(root); errors.Is(err, directory.ErrNotFound) {
		if werr := s.write(root, &record{Owner: rootOwner, Resolver: resolverAddr}); werr != nil {
			return nil, werr
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) CreateSubnode(caller registry.Address, parent node.Node, label node.LabelHash, owner, resolver registry.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.read(parent)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return directory.ErrNotOwner
		}
		return err
	}
	if p.Owner != caller {
		return directory.ErrNotOwner
	}
	child := node.Derive(parent, label)
	rec, err := s.read(child)
	if errors.Is(err, directory.ErrNotFound) {
		rec = &record{}
	} else if err != nil {
		return err
	}
	rec.Owner = owner
	rec.Resolver = resolver
	return s.write(child, rec)
}

func (s *Store) Addr() registry.Address { return s.resolverAddr }

func (s *Store) SetTarget(caller registry.Address, n node.Node, target registry.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.read(n)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return directory.ErrNotOwner
		}
		return err
	}
	if rec.Owner != caller {
		return directory.ErrNotOwner
	}
	rec.Target = target
	return s.write(n, rec)
}

func (s *Store) Target(n node.Node) registry.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.read(n)
	if err != nil {
		return ""
	}
	return rec.Target
}

func (s *Store) Owner(n node.Node) (registry.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.read(n)
	if err != nil {
		return "", false
	}
	return rec.Owner, true
}

func (s *Store) ResolverOf(n node.Node) (registry.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.read(n)
	if err != nil {
		return "", false
	}
	return rec.Resolver, true
}

func (s *Store) pathFor(n node.Node) string {
	h := n.String()
	return filepath.Join(s.root, h[:2], h+".json")
}

func (s *Store) read(n node.Node) (*record, error) {
	b, err := os.ReadFile(s.pathFor(n))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, directory.ErrNotFound
		}
		return nil, err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) write(n node.Node, rec *record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	path := s.pathFor(n)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
