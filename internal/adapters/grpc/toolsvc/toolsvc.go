// Package toolsvc は hiring.v1.ToolService の gRPC サービス定義です。
// リクエストとレスポンスには protobuf の既知型 (structpb / emptypb) を用いるため、
// 独自の .proto からのコード生成を必要としません。
package toolsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName         = "hiring.v1.ToolService"
	InvokeFullMethod    = "/" + ServiceName + "/Invoke"
	ListToolsFullMethod = "/" + ServiceName + "/ListTools"
)

// ToolServiceServer はツール呼び出しサービスのサーバー実装が満たすインターフェースです。
type ToolServiceServer interface {
	Invoke(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTools(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterToolServiceServer はサーバー実装を登録します。
func RegisterToolServiceServer(s grpc.ServiceRegistrar, srv ToolServiceServer) {
	s.RegisterService(&ToolServiceDesc, srv)
}

// ToolServiceDesc は hiring.v1.ToolService のサービス記述子です。
var ToolServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ToolServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
		{MethodName: "ListTools", Handler: listToolsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hiring/v1/tool.proto",
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolServiceServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InvokeFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolServiceServer).Invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listToolsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolServiceServer).ListTools(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListToolsFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolServiceServer).ListTools(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ToolServiceClient は hiring.v1.ToolService のクライアントです。
type ToolServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewToolServiceClient は ToolServiceClient を生成します。
func NewToolServiceClient(cc grpc.ClientConnInterface) *ToolServiceClient {
	return &ToolServiceClient{cc: cc}
}

// Invoke はツールを 1 回呼び出します。
func (c *ToolServiceClient) Invoke(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvokeFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTools は利用可能なツール名を取得します。
func (c *ToolServiceClient) ListTools(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListToolsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// NewInvokeRequest はツール名と引数から Invoke のリクエストを組み立てます。
func NewInvokeRequest(tool string, args map[string]any) (*structpb.Struct, error) {
	if args == nil {
		args = map[string]any{}
	}
	return structpb.NewStruct(map[string]any{"tool": tool, "args": args})
}
