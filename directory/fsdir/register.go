package fsdir

import (
	"errors"
	"flag"

	"xdao.co/appreg/directory"
	"xdao.co/appreg/directory/backends"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

var flagRoot string

func init() {
	backends.MustRegister(backends.Backend{
		Name:        "fsdir",
		Description: "Filesystem store (one JSON record per node)",
		Usage:       backends.UsageCLI | backends.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagRoot, "fsdir-root", "", "fsdir: store directory (required for -backend=fsdir)")
		},
		Open: func(root node.Node, rootOwner, resolverAddr registry.Address) (directory.Store, func() error, error) {
			if flagRoot == "" {
				return nil, nil, errors.New("fsdir: -fsdir-root is required")
			}
			s, err := New(flagRoot, root, rootOwner, resolverAddr)
			if err != nil {
				return nil, nil, err
			}
			return s, nil, nil
		},
	})
}
