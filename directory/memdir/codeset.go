package memdir

import (
	"sync"

	"xdao.co/appreg/registry"
)

// CodeSet is an in-memory CodeChecker: an address has code iff it was
// added. Stands in for an execution environment in tests and local
// runs.
type CodeSet struct {
	mu    sync.Mutex
	addrs map[registry.Address]bool
}

var _ registry.CodeChecker = (*CodeSet)(nil)

func NewCodeSet(addrs ...registry.Address) *CodeSet {
	c := &CodeSet{addrs: map[registry.Address]bool{}}
	for _, a := range addrs {
		c.Add(a)
	}
	return c
}

func (c *CodeSet) Add(a registry.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addrs[a] = true
}

func (c *CodeSet) HasCode(a registry.Address) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addrs[a]
}
