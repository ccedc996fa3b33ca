package backends

import (
	"testing"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

func testBackend(name string, usage Usage) Backend {
	return Backend{
		Name:  name,
		Usage: usage,
		Open: func(root node.Node, rootOwner, resolverAddr registry.Address) (directory.Store, func() error, error) {
			return nil, nil, nil
		},
	}
}

func TestRegister_Validation(t *testing.T) {
	if err := Register(Backend{}); err == nil {
		t.Fatalf("expected error for empty backend")
	}
	if err := Register(Backend{Name: "x", Usage: UsageCLI}); err == nil {
		t.Fatalf("expected error for missing Open")
	}
	b := testBackend("dup-test", UsageCLI)
	if err := Register(b); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(b); err == nil {
		t.Fatalf("expected duplicate-name error")
	}
}

func TestListAndOpen_UsageFiltered(t *testing.T) {
	MustRegister(testBackend("cli-only-test", UsageCLI))

	for _, n := range Names(UsageDaemon) {
		if n == "cli-only-test" {
			t.Fatalf("CLI-only backend listed for daemon usage")
		}
	}
	if _, _, err := Open("cli-only-test", UsageDaemon, node.Root, "addr-registry", "addr-resolver"); err == nil {
		t.Fatalf("expected usage mismatch error")
	}
	if _, _, err := Open("no-such-backend", UsageCLI, node.Root, "addr-registry", "addr-resolver"); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}
