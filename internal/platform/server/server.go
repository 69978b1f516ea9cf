package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/grpc/toolsvc"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/ratelimit"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// limiter が nil の場合は呼び出しのペース制御を行いません。
func New(listenAddr string, svc employee.UseCase, logger *zap.Logger, limiter *ratelimit.Limiter, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	interceptors := []grpc.UnaryServerInterceptor{loggingInterceptor(logger)}
	if limiter != nil {
		interceptors = append(interceptors, rateLimitInterceptor(limiter))
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(interceptors...))

	srv := grpc.NewServer(opts...)
	toolsvc.RegisterToolServiceServer(srv, handler.NewToolGrpcHandler(svc))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(toolsvc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は既存のリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
