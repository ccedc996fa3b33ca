package registry_test

import (
	"errors"
	"testing"

	"xdao.co/appreg/directory/memdir"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

const (
	regAddr      = registry.Address("addr-registry")
	resolverAddr = registry.Address("addr-resolver")
	adminX       = registry.Address("addr-x")
	adminY       = registry.Address("addr-y")
	proxyP       = registry.Address("addr-proxy")
	implI1       = registry.Address("addr-impl-1")
	implI2       = registry.Address("addr-impl-2")
)

type fixture struct {
	reg    *registry.Registry
	store  *memdir.Store
	codes  *memdir.CodeSet
	events *registry.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memdir.New(node.Root, regAddr, resolverAddr)
	codes := memdir.NewCodeSet(proxyP, implI1, implI2)
	events := &registry.Recorder{}
	reg, err := registry.New(registry.Config{
		Directory: store,
		Resolver:  store,
		Codes:     codes,
		Events:    events,
		Root:      node.Root,
		Self:      regAddr,
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return &fixture{reg: reg, store: store, codes: codes, events: events}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	store := memdir.New(node.Root, regAddr, resolverAddr)
	cases := []registry.Config{
		{Resolver: store, Codes: registry.AllowAllCode, Self: regAddr},
		{Directory: store, Codes: registry.AllowAllCode, Self: regAddr},
		{Directory: store, Resolver: store, Self: regAddr},
		{Directory: store, Resolver: store, Codes: registry.AllowAllCode},
	}
	for i, cfg := range cases {
		if _, err := registry.New(cfg); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
}

func TestRegisterOrg(t *testing.T) {
	f := newFixture(t)

	orgNode, err := f.reg.RegisterOrg("cork", adminX)
	if err != nil {
		t.Fatalf("RegisterOrg: %v", err)
	}
	want, _ := node.DeriveLabel(node.Root, "cork")
	if orgNode != want {
		t.Fatalf("org node mismatch")
	}
	if got := f.reg.OrgAdmin(orgNode); got != adminX {
		t.Fatalf("OrgAdmin = %q, want %q", got, adminX)
	}

	// The registry owns the subnode it created, with the shared
	// resolver attached.
	if owner, ok := f.store.Owner(orgNode); !ok || owner != regAddr {
		t.Fatalf("org node owner = %q, %v", owner, ok)
	}
	if res, ok := f.store.ResolverOf(orgNode); !ok || res != resolverAddr {
		t.Fatalf("org node resolver = %q, %v", res, ok)
	}
}

func TestRegisterOrg_ZeroAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.reg.RegisterOrg("cork", "")
	if !registry.IsKind(err, registry.KindInvalidAddress) {
		t.Fatalf("expected InvalidAddress, got %v", err)
	}
}

func TestRegisterOrg_InvalidLabel(t *testing.T) {
	f := newFixture(t)
	for _, label := range []string{"", "Cork", "-cork", "cork-", "co_rk"} {
		_, err := f.reg.RegisterOrg(label, adminX)
		if !registry.IsKind(err, registry.KindInvalidLabel) {
			t.Fatalf("label %q: expected InvalidLabel, got %v", label, err)
		}
	}
}

func TestRegisterOrg_Duplicate(t *testing.T) {
	f := newFixture(t)
	orgNode, err := f.reg.RegisterOrg("cork", adminX)
	if err != nil {
		t.Fatalf("RegisterOrg(1): %v", err)
	}
	_, err = f.reg.RegisterOrg("cork", adminY)
	if !registry.IsKind(err, registry.KindAlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}
	// The failed call must not touch the existing record.
	if got := f.reg.OrgAdmin(orgNode); got != adminX {
		t.Fatalf("admin changed by failed registration: %q", got)
	}
}

func TestSetOrgAdmin(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)

	if err := f.reg.SetOrgAdmin(adminY, orgNode, adminY); !registry.IsKind(err, registry.KindUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err := f.reg.SetOrgAdmin(adminX, orgNode, ""); !registry.IsKind(err, registry.KindInvalidAddress) {
		t.Fatalf("expected InvalidAddress, got %v", err)
	}
	if err := f.reg.SetOrgAdmin(adminX, orgNode, adminY); err != nil {
		t.Fatalf("SetOrgAdmin: %v", err)
	}
	if got := f.reg.OrgAdmin(orgNode); got != adminY {
		t.Fatalf("OrgAdmin = %q, want %q", got, adminY)
	}
	// Old admin lost control with the handover.
	if err := f.reg.SetOrgAdmin(adminX, orgNode, adminX); !registry.IsKind(err, registry.KindUnauthorized) {
		t.Fatalf("expected Unauthorized for old admin, got %v", err)
	}
}

func TestSetOrgAdmin_NotRegistered(t *testing.T) {
	f := newFixture(t)
	ghost, _ := node.DeriveLabel(node.Root, "ghost")
	if err := f.reg.SetOrgAdmin(adminX, ghost, adminY); !registry.IsKind(err, registry.KindNotRegistered) {
		t.Fatalf("expected NotRegistered, got %v", err)
	}
}

func TestRegisterApp(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)

	appNode, err := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)
	if err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}
	want, _ := node.DeriveLabel(orgNode, "app")
	if appNode != want {
		t.Fatalf("app node mismatch")
	}
	// Admin becomes the caller; the app node resolves to the proxy.
	if got := f.reg.AppAdmin(appNode); got != adminX {
		t.Fatalf("AppAdmin = %q, want %q", got, adminX)
	}
	if got := f.store.Target(appNode); got != proxyP {
		t.Fatalf("app target = %q, want %q", got, proxyP)
	}
	if owner, ok := f.store.Owner(appNode); !ok || owner != regAddr {
		t.Fatalf("app node owner = %q, %v", owner, ok)
	}
}

func TestRegisterApp_Faults(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	ghost, _ := node.DeriveLabel(node.Root, "ghost")

	cases := []struct {
		name   string
		caller registry.Address
		label  string
		org    node.Node
		proxy  registry.Address
		kind   registry.Kind
	}{
		{"zero proxy", adminX, "app", orgNode, "", registry.KindInvalidAddress},
		{"no code", adminX, "app", orgNode, "addr-empty", registry.KindTargetHasNoCode},
		{"no code wins over caller", adminY, "app", orgNode, "addr-empty", registry.KindTargetHasNoCode},
		{"unknown org", adminX, "app", ghost, proxyP, registry.KindNotRegistered},
		{"not org admin", adminY, "app", orgNode, proxyP, registry.KindUnauthorized},
		{"bad label", adminX, "App", orgNode, proxyP, registry.KindInvalidLabel},
	}
	for _, tc := range cases {
		_, err := f.reg.RegisterApp(tc.caller, tc.label, tc.org, tc.proxy)
		if !registry.IsKind(err, tc.kind) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestRegisterApp_Duplicate(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	if _, err := f.reg.RegisterApp(adminX, "app", orgNode, proxyP); err != nil {
		t.Fatalf("RegisterApp(1): %v", err)
	}
	_, err := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)
	if !registry.IsKind(err, registry.KindAlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}
}

func TestSetAppAdmin(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	appNode, _ := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)

	if err := f.reg.SetAppAdmin(adminY, appNode, adminY); !registry.IsKind(err, registry.KindUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err := f.reg.SetAppAdmin(adminX, appNode, adminY); err != nil {
		t.Fatalf("SetAppAdmin: %v", err)
	}
	if got := f.reg.AppAdmin(appNode); got != adminY {
		t.Fatalf("AppAdmin = %q, want %q", got, adminY)
	}
}

func TestPublishVersion_Sequence(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	appNode, _ := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)

	if got := f.reg.LatestVersion(appNode); got != 0 {
		t.Fatalf("LatestVersion before publish = %d", got)
	}
	if got := f.reg.LatestImplementation(appNode); !got.IsZero() {
		t.Fatalf("LatestImplementation before publish = %q", got)
	}

	// Version numbers are derived, gap-free from 1.
	impls := []registry.Address{implI1, implI2, implI1}
	for i, impl := range impls {
		version, vnode, err := f.reg.PublishVersion(adminX, appNode, impl)
		if err != nil {
			t.Fatalf("PublishVersion(%d): %v", i+1, err)
		}
		if version != uint64(i+1) {
			t.Fatalf("version = %d, want %d", version, i+1)
		}
		wantNode, _ := node.DeriveLabel(appNode, "1")
		if i == 0 && vnode != wantNode {
			t.Fatalf("version-1 node mismatch")
		}
		if got := f.reg.LatestVersion(appNode); got != version {
			t.Fatalf("LatestVersion = %d, want %d", got, version)
		}
		if got := f.reg.LatestImplementation(appNode); got != impl {
			t.Fatalf("LatestImplementation = %q, want %q", got, impl)
		}
	}
}

// The concrete scenario from the acceptance notes: cork/app, publish
// I1 then I2; version-1 stays pinned to I1 while latest moves to I2.
func TestPublishVersion_LatestAlias(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	appNode, _ := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)

	v1node, _ := node.DeriveLabel(appNode, "1")
	latest, _ := node.DeriveLabel(appNode, registry.LatestLabel)

	version, gotNode, err := f.reg.PublishVersion(adminX, appNode, implI1)
	if err != nil {
		t.Fatalf("PublishVersion(I1): %v", err)
	}
	if version != 1 || gotNode != v1node {
		t.Fatalf("publish(I1) = v%d %s", version, gotNode)
	}
	if got := f.store.Target(v1node); got != implI1 {
		t.Fatalf("version-1 target = %q, want I1", got)
	}
	if got := f.store.Target(latest); got != implI1 {
		t.Fatalf("latest target = %q, want I1", got)
	}

	version, _, err = f.reg.PublishVersion(adminX, appNode, implI2)
	if err != nil {
		t.Fatalf("PublishVersion(I2): %v", err)
	}
	if version != 2 {
		t.Fatalf("second publish version = %d", version)
	}
	// Version nodes are immutable; only the alias is retargeted.
	if got := f.store.Target(v1node); got != implI1 {
		t.Fatalf("version-1 target changed to %q", got)
	}
	if got := f.store.Target(latest); got != implI2 {
		t.Fatalf("latest target = %q, want I2", got)
	}
	if got := f.reg.LatestImplementation(appNode); got != implI2 {
		t.Fatalf("LatestImplementation = %q, want I2", got)
	}
}

func TestPublishVersion_Faults(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	appNode, _ := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)
	ghost, _ := node.DeriveLabel(orgNode, "ghost")

	cases := []struct {
		name   string
		caller registry.Address
		app    node.Node
		impl   registry.Address
		kind   registry.Kind
	}{
		{"zero impl", adminX, appNode, "", registry.KindInvalidAddress},
		{"no code", adminX, appNode, "addr-empty", registry.KindTargetHasNoCode},
		{"unknown app", adminX, ghost, implI1, registry.KindNotRegistered},
		{"not app admin", adminY, appNode, implI1, registry.KindUnauthorized},
	}
	for _, tc := range cases {
		_, _, err := f.reg.PublishVersion(tc.caller, tc.app, tc.impl)
		if !registry.IsKind(err, tc.kind) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.kind, err)
		}
	}
	if got := f.reg.LatestVersion(appNode); got != 0 {
		t.Fatalf("failed publishes advanced the counter to %d", got)
	}
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	orgNode, _ := f.reg.RegisterOrg("cork", adminX)
	appNode, _ := f.reg.RegisterApp(adminX, "app", orgNode, proxyP)
	_, vnode, _ := f.reg.PublishVersion(adminX, appNode, implI1)
	_ = f.reg.SetAppAdmin(adminX, appNode, adminY)
	_ = f.reg.SetOrgAdmin(adminX, orgNode, adminY)

	got := f.events.Events()
	wantNames := []string{
		"org-registered",
		"app-registered",
		"version-published",
		"app-admin-changed",
		"org-admin-changed",
	}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d events, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name() != name {
			t.Fatalf("event[%d] = %s, want %s", i, got[i].Name(), name)
		}
	}
	pub, ok := got[2].(registry.VersionPublished)
	if !ok {
		t.Fatalf("event[2] is %T", got[2])
	}
	if pub.Version != 1 || pub.VersionNode != vnode || pub.Implementation != implI1 || pub.AppNode != appNode {
		t.Fatalf("version-published payload mismatch: %+v", pub)
	}
}

func TestDerive_Helper(t *testing.T) {
	f := newFixture(t)
	got, err := f.reg.Derive(node.Root, "cork")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	want, _ := node.DeriveLabel(node.Root, "cork")
	if got != want {
		t.Fatalf("Derive mismatch")
	}
	if _, err := f.reg.Derive(node.Root, "-bad"); !registry.IsKind(err, registry.KindInvalidLabel) {
		t.Fatalf("expected InvalidLabel, got %v", err)
	}
}

// A collaborator failure must abort the whole publish: no counter
// advance, no event.
func TestPublishVersion_CollaboratorAbort(t *testing.T) {
	store := memdir.New(node.Root, regAddr, resolverAddr)
	failing := &failingDirectory{inner: store}
	reg, err := registry.New(registry.Config{
		Directory: failing,
		Resolver:  store,
		Codes:     memdir.NewCodeSet(proxyP, implI1),
		Root:      node.Root,
		Self:      regAddr,
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	orgNode, err := reg.RegisterOrg("cork", adminX)
	if err != nil {
		t.Fatalf("RegisterOrg: %v", err)
	}
	appNode, err := reg.RegisterApp(adminX, "app", orgNode, proxyP)
	if err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}

	failing.fail = true
	_, _, err = reg.PublishVersion(adminX, appNode, implI1)
	if !registry.IsKind(err, registry.KindInternal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if got := reg.LatestVersion(appNode); got != 0 {
		t.Fatalf("aborted publish advanced the counter to %d", got)
	}

	// The next successful publish still gets version 1.
	failing.fail = false
	version, _, err := reg.PublishVersion(adminX, appNode, implI1)
	if err != nil {
		t.Fatalf("PublishVersion after abort: %v", err)
	}
	if version != 1 {
		t.Fatalf("version after abort = %d, want 1", version)
	}
}

type failingDirectory struct {
	inner registry.Directory
	fail  bool
}

func (f *failingDirectory) CreateSubnode(caller registry.Address, parent node.Node, label node.LabelHash, owner, resolver registry.Address) error {
	if f.fail {
		return errors.New("directory unavailable")
	}
	return f.inner.CreateSubnode(caller, parent, label, owner, resolver)
}
