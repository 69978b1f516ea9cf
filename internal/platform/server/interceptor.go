package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/ratelimit"
)

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if in, ok := req.(*structpb.Struct); ok {
			fields = append(fields,
				zap.String("tool", in.GetFields()["tool"].GetStringValue()),
				zap.String("employee_id", in.GetFields()["args"].GetStructValue().GetFields()["employee_id"].GetStringValue()),
			)
		}

		switch status.Code(err) {
		case codes.OK:
			logger.Info("tool call handled", fields...)
		case codes.Internal, codes.Unknown:
			logger.Error("tool call failed", append(fields, zap.Error(err))...)
		default:
			logger.Warn("tool call rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

func rateLimitInterceptor(limiter *ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		return next(ctx, req)
	}
}
