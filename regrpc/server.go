package regrpc

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/appreg/node"
	"xdao.co/appreg/registry"
)

// Server exposes a registry.Registry over the Registry gRPC service.
//
// Callers self-identify via the "caller" request field; transport
// authentication is out of scope here and belongs to the deployment
// (mTLS, sidecar, trusted network).
type Server struct {
	UnimplementedRegistryServer
	Registry *registry.Registry
}

// RegisterOrg fields: label, admin. Returns the org node (hex).
func (s *Server) RegisterOrg(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	orgNode, err := s.Registry.RegisterOrg(field(in, "label"), addr(in, "admin"))
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(orgNode.String()), nil
}

// SetOrgAdmin fields: caller, org, admin.
func (s *Server) SetOrgAdmin(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	orgNode, err := parseNodeField(in, "org")
	if err != nil {
		return nil, err
	}
	if err := s.Registry.SetOrgAdmin(addr(in, "caller"), orgNode, addr(in, "admin")); err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bool(true), nil
}

// RegisterApp fields: caller, label, org, proxy. Returns the app node (hex).
func (s *Server) RegisterApp(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	orgNode, err := parseNodeField(in, "org")
	if err != nil {
		return nil, err
	}
	appNode, err := s.Registry.RegisterApp(addr(in, "caller"), field(in, "label"), orgNode, addr(in, "proxy"))
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(appNode.String()), nil
}

// SetAppAdmin fields: caller, app, admin.
func (s *Server) SetAppAdmin(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	appNode, err := parseNodeField(in, "app")
	if err != nil {
		return nil, err
	}
	if err := s.Registry.SetAppAdmin(addr(in, "caller"), appNode, addr(in, "admin")); err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bool(true), nil
}

// PublishVersion fields: caller, app, implementation.
// Returns {version, versionNode}.
func (s *Server) PublishVersion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	appNode, err := parseNodeField(in, "app")
	if err != nil {
		return nil, err
	}
	version, versionNode, err := s.Registry.PublishVersion(addr(in, "caller"), appNode, addr(in, "implementation"))
	if err != nil {
		return nil, mapErr(err)
	}
	// Struct numbers are float64; a decimal string keeps the full
	// uint64 range intact on the wire.
	out, err := structpb.NewStruct(map[string]interface{}{
		"version":     strconv.FormatUint(version, 10),
		"versionNode": versionNode.String(),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

func (s *Server) LatestImplementation(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	appNode, err := parseNodeValue(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(string(s.Registry.LatestImplementation(appNode))), nil
}

func (s *Server) LatestVersion(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	appNode, err := parseNodeValue(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.UInt64(s.Registry.LatestVersion(appNode)), nil
}

func (s *Server) OrgAdmin(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	orgNode, err := parseNodeValue(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(string(s.Registry.OrgAdmin(orgNode))), nil
}

func (s *Server) AppAdmin(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	appNode, err := parseNodeValue(in)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(string(s.Registry.AppAdmin(appNode))), nil
}

// Derive fields: parent (hex/CID, empty for root), label.
// Returns the derived node (hex).
func (s *Server) Derive(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	parent := s.Registry.Root()
	if raw := field(in, "parent"); raw != "" {
		var err error
		parent, err = node.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "bad parent node")
		}
	}
	derived, err := s.Registry.Derive(parent, field(in, "label"))
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(derived.String()), nil
}

func field(in *structpb.Struct, key string) string {
	if in == nil {
		return ""
	}
	v, ok := in.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func addr(in *structpb.Struct, key string) registry.Address {
	return registry.Address(field(in, key))
}

func parseNodeField(in *structpb.Struct, key string) (node.Node, error) {
	n, err := node.Parse(field(in, key))
	if err != nil {
		return node.Node{}, status.Errorf(codes.InvalidArgument, "bad %s node", key)
	}
	return n, nil
}

func parseNodeValue(in *wrapperspb.StringValue) (node.Node, error) {
	n, err := node.Parse(in.GetValue())
	if err != nil {
		return node.Node{}, status.Error(codes.InvalidArgument, "bad node")
	}
	return n, nil
}
