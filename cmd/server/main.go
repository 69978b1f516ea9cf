package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/config"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/logger"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/ratelimit"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	repo := memory.NewEmployeeRepository()
	svc := employee.NewService(repo, nil, nil, employee.Options{
		PassingMarks:     &cfg.Lifecycle.PassingMarks,
		StrictScheduling: cfg.Lifecycle.StrictScheduling,
	})
	limiter := ratelimit.New(cfg.RateLimit.Quota, cfg.RateLimit.Window, zl.Named("ratelimit"))
	grpcServer := server.New(cfg.Server.ListenAddr, svc, zl.Named("grpc"), limiter)

	zl.Info("gRPC server listening",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.Int("passing_marks", cfg.Lifecycle.PassingMarks),
		zap.Bool("strict_scheduling", cfg.Lifecycle.StrictScheduling),
	)

	if err := grpcServer.Run(ctx); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}
