package memdir_test

import (
	"testing"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/directory/memdir"
	"xdao.co/appreg/directory/testkit"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

func TestMemdir_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T, root node.Node, rootOwner, resolverAddr registry.Address) directory.Store {
		return memdir.New(root, rootOwner, resolverAddr)
	})
}

func TestCodeSet(t *testing.T) {
	c := memdir.NewCodeSet("addr-p1")
	if !c.HasCode("addr-p1") {
		t.Fatalf("expected code at addr-p1")
	}
	if c.HasCode("addr-p2") {
		t.Fatalf("unexpected code at addr-p2")
	}
	c.Add("addr-p2")
	if !c.HasCode("addr-p2") {
		t.Fatalf("expected code at addr-p2 after Add")
	}
}
