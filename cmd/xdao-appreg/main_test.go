package main

import (
	"strings"
	"testing"
)

func TestRun_UnknownCommand(t *testing.T) {
	var out, errOut strings.Builder
	if rc := run([]string{"bogus"}, &out, &errOut); rc != 2 {
		t.Fatalf("rc = %d, want 2", rc)
	}
	if !strings.Contains(errOut.String(), "unknown command: bogus") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

// Every dispatched subcommand must be reachable and listed in the
// usage text; none may fall through to the unknown-command branch.
func TestRun_DispatchAndUsage(t *testing.T) {
	subcommands := []string{
		"register-org",
		"set-org-admin",
		"register-app",
		"set-app-admin",
		"publish",
		"latest",
		"version",
		"admin",
		"derive",
	}

	var usage strings.Builder
	if rc := run([]string{"help"}, &usage, &usage); rc != 0 {
		t.Fatalf("help rc = %d", rc)
	}
	for _, cmd := range subcommands {
		if !strings.Contains(usage.String(), "xdao-appreg "+cmd) {
			t.Fatalf("usage does not list %q", cmd)
		}
		// Missing required flags fail before any dial, so the command
		// must exit 2 with its own message, not "unknown command".
		var out, errOut strings.Builder
		if rc := run([]string{cmd}, &out, &errOut); rc != 2 {
			t.Fatalf("%s with no flags: rc = %d, want 2", cmd, rc)
		}
		if strings.Contains(errOut.String(), "unknown command") {
			t.Fatalf("%s not dispatched: %q", cmd, errOut.String())
		}
	}
}

func TestRun_AdminFlagExclusion(t *testing.T) {
	var out, errOut strings.Builder
	if rc := run([]string{"admin"}, &out, &errOut); rc != 2 {
		t.Fatalf("rc = %d, want 2", rc)
	}
	if !strings.Contains(errOut.String(), "exactly one of --org or --app") {
		t.Fatalf("stderr = %q", errOut.String())
	}

	errOut.Reset()
	args := []string{"admin", "--org", strings.Repeat("a", 64), "--app", strings.Repeat("b", 64)}
	if rc := run(args, &out, &errOut); rc != 2 {
		t.Fatalf("both flags: rc = %d, want 2", rc)
	}

	errOut.Reset()
	if rc := run([]string{"admin", "--org", "not-a-node"}, &out, &errOut); rc != 2 {
		t.Fatalf("bad node: rc = %d, want 2", rc)
	}
	if !strings.Contains(errOut.String(), "invalid --org") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}
