package memdir

import (
	"xdao.co/appreg/directory"
	"xdao.co/appreg/directory/backends"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

func init() {
	backends.MustRegister(backends.Backend{
		Name:        "mem",
		Description: "In-memory store (state does not survive the process)",
		Usage:       backends.UsageCLI | backends.UsageDaemon,
		Open: func(root node.Node, rootOwner, resolverAddr registry.Address) (directory.Store, func() error, error) {
			return New(root, rootOwner, resolverAddr), nil, nil
		},
	})
}
