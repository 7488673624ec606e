package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "aivs.query.v1.QueryService"

const (
	methodSubmit  = "/" + ServiceName + "/Submit"
	methodOptions = "/" + ServiceName + "/Options"
)

// QueryServiceServer is the server API for QueryService. Messages are
// well-known protobuf types, so no generated code is involved.
type QueryServiceServer interface {
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Options(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes QueryService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Options", Handler: optionsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "aivs/query/v1/query.proto",
}

// Register mounts srv on s.
func Register(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSubmit}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServiceServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func optionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).Options(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodOptions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServiceServer).Options(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin QueryService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Submit sends form values and returns the attempt outcome.
func (c *Client) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodSubmit, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Options returns the dropdown catalog.
func (c *Client) Options(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodOptions, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
