package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
	"xdao.co/appreg/regrpc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "register-org":
		return cmdRegisterOrg(args[1:], out, errOut)
	case "set-org-admin":
		return cmdSetOrgAdmin(args[1:], out, errOut)
	case "register-app":
		return cmdRegisterApp(args[1:], out, errOut)
	case "set-app-admin":
		return cmdSetAppAdmin(args[1:], out, errOut)
	case "publish":
		return cmdPublish(args[1:], out, errOut)
	case "latest":
		return cmdLatest(args[1:], out, errOut)
	case "version":
		return cmdVersion(args[1:], out, errOut)
	case "admin":
		return cmdAdmin(args[1:], out, errOut)
	case "derive":
		return cmdDerive(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-appreg: app version registry CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-appreg register-org --label <label> --admin <addr>")
	fmt.Fprintln(w, "  xdao-appreg set-org-admin --caller <addr> --org <node> --admin <addr>")
	fmt.Fprintln(w, "  xdao-appreg register-app --caller <addr> --label <label> --org <node> --proxy <addr>")
	fmt.Fprintln(w, "  xdao-appreg set-app-admin --caller <addr> --app <node> --admin <addr>")
	fmt.Fprintln(w, "  xdao-appreg publish --caller <addr> --app <node> --impl <addr>")
	fmt.Fprintln(w, "  xdao-appreg latest --app <node>")
	fmt.Fprintln(w, "  xdao-appreg version --app <node>")
	fmt.Fprintln(w, "  xdao-appreg admin {--org <node> | --app <node>}")
	fmt.Fprintln(w, "  xdao-appreg derive [--parent <node>] --label <label>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - all commands accept --addr <host:port> (default 127.0.0.1:7778)")
	fmt.Fprintln(w, "  - nodes are accepted as 64-char hex or CIDv1 (raw + sha3-256)")
	fmt.Fprintln(w, "  - version labels are decimal; the alias label is \"latest\"")
}

func dial(addr string, caller registry.Address, errOut io.Writer) (*regrpc.Client, int) {
	c, err := regrpc.Dial(addr, regrpc.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		fmt.Fprintf(errOut, "dial %s: %v\n", addr, err)
		return nil, 1
	}
	c.Caller = caller
	c.Timeout = 10 * time.Second
	return c, 0
}

func parseNodeArg(s, name string, errOut io.Writer) (node.Node, bool) {
	if s == "" {
		fmt.Fprintf(errOut, "missing --%s\n", name)
		return node.Node{}, false
	}
	n, err := node.Parse(s)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --%s: %v\n", name, err)
		return node.Node{}, false
	}
	return n, true
}

func cmdRegisterOrg(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("register-org", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	label := fs.String("label", "", "Org label")
	admin := fs.String("admin", "", "Org admin address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *label == "" {
		fmt.Fprintln(errOut, "missing --label")
		return 2
	}
	if *admin == "" {
		fmt.Fprintln(errOut, "missing --admin")
		return 2
	}
	c, rc := dial(*addr, "", errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	orgNode, err := c.RegisterOrg(*label, registry.Address(*admin))
	if err != nil {
		fmt.Fprintf(errOut, "register-org: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, orgNode)
	return 0
}

func cmdSetOrgAdmin(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set-org-admin", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	caller := fs.String("caller", "", "Caller address (current org admin)")
	org := fs.String("org", "", "Org node")
	admin := fs.String("admin", "", "New admin address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *caller == "" {
		fmt.Fprintln(errOut, "missing --caller")
		return 2
	}
	orgNode, ok := parseNodeArg(*org, "org", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, registry.Address(*caller), errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	if err := c.SetOrgAdmin(orgNode, registry.Address(*admin)); err != nil {
		fmt.Fprintf(errOut, "set-org-admin: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdRegisterApp(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("register-app", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	caller := fs.String("caller", "", "Caller address (org admin; becomes app admin)")
	label := fs.String("label", "", "App label")
	org := fs.String("org", "", "Org node")
	proxy := fs.String("proxy", "", "Proxy target address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *caller == "" {
		fmt.Fprintln(errOut, "missing --caller")
		return 2
	}
	if *label == "" {
		fmt.Fprintln(errOut, "missing --label")
		return 2
	}
	orgNode, ok := parseNodeArg(*org, "org", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, registry.Address(*caller), errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	appNode, err := c.RegisterApp(*label, orgNode, registry.Address(*proxy))
	if err != nil {
		fmt.Fprintf(errOut, "register-app: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, appNode)
	return 0
}

func cmdSetAppAdmin(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set-app-admin", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	caller := fs.String("caller", "", "Caller address (current app admin)")
	app := fs.String("app", "", "App node")
	admin := fs.String("admin", "", "New admin address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *caller == "" {
		fmt.Fprintln(errOut, "missing --caller")
		return 2
	}
	appNode, ok := parseNodeArg(*app, "app", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, registry.Address(*caller), errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	if err := c.SetAppAdmin(appNode, registry.Address(*admin)); err != nil {
		fmt.Fprintf(errOut, "set-app-admin: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdPublish(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	caller := fs.String("caller", "", "Caller address (app admin)")
	app := fs.String("app", "", "App node")
	impl := fs.String("impl", "", "Implementation target address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *caller == "" {
		fmt.Fprintln(errOut, "missing --caller")
		return 2
	}
	appNode, ok := parseNodeArg(*app, "app", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, registry.Address(*caller), errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	version, versionNode, err := c.PublishVersion(appNode, registry.Address(*impl))
	if err != nil {
		fmt.Fprintf(errOut, "publish: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "%d %s\n", version, versionNode)
	return 0
}

func cmdLatest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("latest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	app := fs.String("app", "", "App node")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	appNode, ok := parseNodeArg(*app, "app", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, "", errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	impl, err := c.LatestImplementation(appNode)
	if err != nil {
		fmt.Fprintf(errOut, "latest: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, impl)
	return 0
}

func cmdVersion(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	app := fs.String("app", "", "App node")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	appNode, ok := parseNodeArg(*app, "app", errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, "", errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	version, err := c.LatestVersion(appNode)
	if err != nil {
		fmt.Fprintf(errOut, "version: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, version)
	return 0
}

func cmdAdmin(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	org := fs.String("org", "", "Org node")
	app := fs.String("app", "", "App node")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (*org == "") == (*app == "") {
		fmt.Fprintln(errOut, "exactly one of --org or --app is required")
		return 2
	}
	name, raw := "org", *org
	if *app != "" {
		name, raw = "app", *app
	}
	n, ok := parseNodeArg(raw, name, errOut)
	if !ok {
		return 2
	}
	c, rc := dial(*addr, "", errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	var admin registry.Address
	var err error
	if name == "org" {
		admin, err = c.OrgAdmin(n)
	} else {
		admin, err = c.AppAdmin(n)
	}
	if err != nil {
		fmt.Fprintf(errOut, "admin: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, admin)
	return 0
}

func cmdDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7778", "daemon address")
	parent := fs.String("parent", "", "Parent node (default: registry root)")
	label := fs.String("label", "", "Label")
	local := fs.Bool("local", false, "Derive locally without contacting the daemon")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *label == "" {
		fmt.Fprintln(errOut, "missing --label")
		return 2
	}
	parentNode := node.Root
	if *parent != "" {
		var ok bool
		parentNode, ok = parseNodeArg(*parent, "parent", errOut)
		if !ok {
			return 2
		}
	}
	if *local {
		derived, err := node.DeriveLabel(parentNode, *label)
		if err != nil {
			fmt.Fprintf(errOut, "derive: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, derived)
		return 0
	}
	c, rc := dial(*addr, "", errOut)
	if c == nil {
		return rc
	}
	defer c.Close()
	derived, err := c.Derive(parentNode, *label)
	if err != nil {
		fmt.Fprintf(errOut, "derive: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, derived)
	return 0
}
