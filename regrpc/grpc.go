package regrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RegistryServer is the server API for the Registry gRPC service.
//
// We intentionally use protobuf well-known types (Struct plus the
// wrapper types) so this package does not require a protoc/codegen
// toolchain. Struct fields per method are documented on the Server
// handlers.
//
// Proto definition: registry.proto.
type RegistryServer interface {
	RegisterOrg(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	SetOrgAdmin(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	RegisterApp(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	SetAppAdmin(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	PublishVersion(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LatestImplementation(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	LatestVersion(context.Context, *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error)
	OrgAdmin(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	AppAdmin(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Derive(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

// UnimplementedRegistryServer can be embedded to have forward compatible implementations.
type UnimplementedRegistryServer struct{}

func (UnimplementedRegistryServer) RegisterOrg(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterOrg not implemented")
}
func (UnimplementedRegistryServer) SetOrgAdmin(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SetOrgAdmin not implemented")
}
func (UnimplementedRegistryServer) RegisterApp(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterApp not implemented")
}
func (UnimplementedRegistryServer) SetAppAdmin(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SetAppAdmin not implemented")
}
func (UnimplementedRegistryServer) PublishVersion(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PublishVersion not implemented")
}
func (UnimplementedRegistryServer) LatestImplementation(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method LatestImplementation not implemented")
}
func (UnimplementedRegistryServer) LatestVersion(context.Context, *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method LatestVersion not implemented")
}
func (UnimplementedRegistryServer) OrgAdmin(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method OrgAdmin not implemented")
}
func (UnimplementedRegistryServer) AppAdmin(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AppAdmin not implemented")
}
func (UnimplementedRegistryServer) Derive(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Derive not implemented")
}

// RegisterRegistryServer registers the Registry service on a gRPC server.
func RegisterRegistryServer(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&Registry_ServiceDesc, srv)
}

// RegistryClient is the client API for the Registry gRPC service.
type RegistryClient interface {
	RegisterOrg(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	SetOrgAdmin(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	RegisterApp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	SetAppAdmin(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	PublishVersion(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	LatestImplementation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	LatestVersion(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error)
	OrgAdmin(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	AppAdmin(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Derive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type registryClient struct{ cc grpc.ClientConnInterface }

func NewRegistryClient(cc grpc.ClientConnInterface) RegistryClient { return &registryClient{cc: cc} }

const serviceName = "/xdao.appreg.regrpc.v1.Registry/"

func (c *registryClient) RegisterOrg(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"RegisterOrg", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) SetOrgAdmin(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, serviceName+"SetOrgAdmin", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) RegisterApp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"RegisterApp", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) SetAppAdmin(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, serviceName+"SetAppAdmin", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) PublishVersion(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, serviceName+"PublishVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) LatestImplementation(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"LatestImplementation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) LatestVersion(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.UInt64Value, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, serviceName+"LatestVersion", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) OrgAdmin(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"OrgAdmin", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) AppAdmin(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"AppAdmin", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *registryClient) Derive(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, serviceName+"Derive", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func structHandler(method string, call func(RegistryServer, context.Context, *structpb.Struct) (interface{}, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func stringHandler(method string, call func(RegistryServer, context.Context, *wrapperspb.StringValue) (interface{}, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RegistryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RegistryServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Registry_ServiceDesc is the grpc.ServiceDesc for the Registry service.
var Registry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "xdao.appreg.regrpc.v1.Registry",
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterOrg", Handler: structHandler("RegisterOrg", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.RegisterOrg(ctx, in)
		})},
		{MethodName: "SetOrgAdmin", Handler: structHandler("SetOrgAdmin", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.SetOrgAdmin(ctx, in)
		})},
		{MethodName: "RegisterApp", Handler: structHandler("RegisterApp", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.RegisterApp(ctx, in)
		})},
		{MethodName: "SetAppAdmin", Handler: structHandler("SetAppAdmin", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.SetAppAdmin(ctx, in)
		})},
		{MethodName: "PublishVersion", Handler: structHandler("PublishVersion", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.PublishVersion(ctx, in)
		})},
		{MethodName: "LatestImplementation", Handler: stringHandler("LatestImplementation", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.LatestImplementation(ctx, in)
		})},
		{MethodName: "LatestVersion", Handler: stringHandler("LatestVersion", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.LatestVersion(ctx, in)
		})},
		{MethodName: "OrgAdmin", Handler: stringHandler("OrgAdmin", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.OrgAdmin(ctx, in)
		})},
		{MethodName: "AppAdmin", Handler: stringHandler("AppAdmin", func(s RegistryServer, ctx context.Context, in *wrapperspb.StringValue) (interface{}, error) {
			return s.AppAdmin(ctx, in)
		})},
		{MethodName: "Derive", Handler: structHandler("Derive", func(s RegistryServer, ctx context.Context, in *structpb.Struct) (interface{}, error) {
			return s.Derive(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "registry.proto",
}
