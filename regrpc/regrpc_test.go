package regrpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"xdao.co/appreg/directory/memdir"
	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	store := memdir.New(node.Root, "addr-registry", "addr-resolver")
	reg, err := registry.New(registry.Config{
		Directory: store,
		Resolver:  store,
		Codes:     registry.AllowAllCode,
		Root:      node.Root,
		Self:      "addr-registry",
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterRegistryServer(srv, &Server{Registry: reg})
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	c := NewClient(cc)
	c.Timeout = 2 * time.Second
	return c
}

func TestRegistryRPC_RoundTrip(t *testing.T) {
	c := newTestClient(t)
	c.Caller = "addr-x"

	orgNode, err := c.RegisterOrg("cork", "addr-x")
	if err != nil {
		t.Fatalf("RegisterOrg: %v", err)
	}
	wantOrg, _ := node.DeriveLabel(node.Root, "cork")
	if orgNode != wantOrg {
		t.Fatalf("org node mismatch")
	}

	appNode, err := c.RegisterApp("app", orgNode, "addr-proxy")
	if err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}
	if admin, err := c.AppAdmin(appNode); err != nil || admin != "addr-x" {
		t.Fatalf("AppAdmin = %q, %v", admin, err)
	}

	version, versionNode, err := c.PublishVersion(appNode, "addr-impl-1")
	if err != nil {
		t.Fatalf("PublishVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}
	wantV1, _ := node.DeriveLabel(appNode, "1")
	if versionNode != wantV1 {
		t.Fatalf("version node mismatch")
	}

	if impl, err := c.LatestImplementation(appNode); err != nil || impl != "addr-impl-1" {
		t.Fatalf("LatestImplementation = %q, %v", impl, err)
	}
	if got, err := c.LatestVersion(appNode); err != nil || got != 1 {
		t.Fatalf("LatestVersion = %d, %v", got, err)
	}

	derived, err := c.Derive(orgNode, "app")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if derived != appNode {
		t.Fatalf("Derive mismatch")
	}
}

// Fault kinds must survive the wire as structured registry errors.
func TestRegistryRPC_FaultMapping(t *testing.T) {
	c := newTestClient(t)
	c.Caller = "addr-x"

	if _, err := c.RegisterOrg("Bad-Label", "addr-x"); !registry.IsKind(err, registry.KindInvalidLabel) {
		t.Fatalf("expected InvalidLabel, got %v", err)
	}
	if _, err := c.RegisterOrg("cork", ""); !registry.IsKind(err, registry.KindInvalidAddress) {
		t.Fatalf("expected InvalidAddress, got %v", err)
	}

	orgNode, err := c.RegisterOrg("cork", "addr-x")
	if err != nil {
		t.Fatalf("RegisterOrg: %v", err)
	}
	if _, err := c.RegisterOrg("cork", "addr-x"); !registry.IsKind(err, registry.KindAlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}

	ghost, _ := node.DeriveLabel(node.Root, "ghost")
	if err := c.SetOrgAdmin(ghost, "addr-y"); !registry.IsKind(err, registry.KindNotRegistered) {
		t.Fatalf("expected NotRegistered, got %v", err)
	}

	c.Caller = "addr-y"
	if err := c.SetOrgAdmin(orgNode, "addr-y"); !registry.IsKind(err, registry.KindUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if _, err := c.RegisterApp("app", orgNode, "addr-proxy"); !registry.IsKind(err, registry.KindUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

// Version numbers cross the wire as decimal strings; a Struct number
// field is a float64 and would silently truncate above 2^53.
func TestPublishVersion_WireEncoding(t *testing.T) {
	store := memdir.New(node.Root, "addr-registry", "addr-resolver")
	reg, err := registry.New(registry.Config{
		Directory: store,
		Resolver:  store,
		Codes:     registry.AllowAllCode,
		Root:      node.Root,
		Self:      "addr-registry",
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	srv := &Server{Registry: reg}
	ctx := context.Background()

	in, _ := structpb.NewStruct(map[string]interface{}{"label": "cork", "admin": "addr-x"})
	orgReply, err := srv.RegisterOrg(ctx, in)
	if err != nil {
		t.Fatalf("RegisterOrg: %v", err)
	}
	in, _ = structpb.NewStruct(map[string]interface{}{
		"caller": "addr-x", "label": "app", "org": orgReply.GetValue(), "proxy": "addr-proxy",
	})
	appReply, err := srv.RegisterApp(ctx, in)
	if err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}

	in, _ = structpb.NewStruct(map[string]interface{}{
		"caller": "addr-x", "app": appReply.GetValue(), "implementation": "addr-impl-1",
	})
	reply, err := srv.PublishVersion(ctx, in)
	if err != nil {
		t.Fatalf("PublishVersion: %v", err)
	}
	v := reply.GetFields()["version"]
	if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok {
		t.Fatalf("version field is %T, want string", v.GetKind())
	}
	if got := v.GetStringValue(); got != "1" {
		t.Fatalf("version = %q, want \"1\"", got)
	}
}

func TestRegistryRPC_RuleIDSurvives(t *testing.T) {
	c := newTestClient(t)
	_, err := c.RegisterOrg("-bad", "addr-x")
	if got := registry.RuleID(err); got != "REG-LBL-002" {
		t.Fatalf("RuleID = %q, want REG-LBL-002", got)
	}
}
