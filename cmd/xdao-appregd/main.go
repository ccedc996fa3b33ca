package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"google.golang.org/grpc"

	"xdao.co/appreg/directory/backends"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
	"xdao.co/appreg/regrpc"

	_ "xdao.co/appreg/directory/fsdir"
	_ "xdao.co/appreg/directory/memdir"
)

func main() {
	fs := flag.NewFlagSet("xdao-appregd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7778", "listen address")
	backend := fs.String("backend", "mem", "directory backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	self := fs.String("self", "appreg", "registry's own address (owner of created subnodes)")
	resolverAddr := fs.String("resolver", "appreg-resolver", "resolver address attached to created subnodes")
	codeList := fs.String("code-list", "", "file of addresses with deployed code, one per line (default: any non-zero address)")

	backends.RegisterFlags(fs, backends.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range backends.List(backends.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	codes := registry.AllowAllCode
	if *codeList != "" {
		var err error
		codes, err = loadCodeList(*codeList)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	store, closeFn, err := backends.Open(*backend, backends.UsageDaemon, node.Root, registry.Address(*self), registry.Address(*resolverAddr))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	reg, err := registry.New(registry.Config{
		Directory: store,
		Resolver:  store,
		Codes:     codes,
		Events:    registry.LogSink{W: os.Stderr},
		Root:      node.Root,
		Self:      registry.Address(*self),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	regrpc.RegisterRegistryServer(s, &regrpc.Server{Registry: reg})

	fmt.Fprintf(os.Stderr, "xdao-appregd listening on %s (backend=%s)\n", lis.Addr().String(), *backend)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCodeList(path string) (registry.CodeChecker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("code-list: %w", err)
	}
	defer f.Close()

	addrs := map[registry.Address]bool{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addrs[registry.Address(line)] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("code-list: %w", err)
	}
	return registry.CodeCheckerFunc(func(a registry.Address) bool { return addrs[a] }), nil
}
