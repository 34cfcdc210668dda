// Package server реализует gRPC-сервер проверки здоровья портала
// (grpc.health.v1) для оркестратора.
//
// Статус сервиса обновляется периодически по результатам Ping зависимостей:
// SERVING, если все доступны, иначе NOT_SERVING.
package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// ServiceName имя сервиса в протоколе health.
const ServiceName = "awfixer.portal"

// Checker проверяет одну зависимость.
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthServer gRPC-сервер проверки здоровья.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	checks     map[string]Checker
	interval   time.Duration
	log        *slog.Logger
}

// NewHealthServer создает сервер. interval задает период проверки зависимостей.
func NewHealthServer(log *slog.Logger, checks map[string]Checker, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &HealthServer{
		grpcServer: srv,
		health:     hs,
		checks:     checks,
		interval:   interval,
		log:        log,
	}
}

// Refresh проверяет зависимости и обновляет статус. Возвращает новый статус.
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, c := range s.checks {
		if c == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			s.log.Warn("dependency is unhealthy", slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve принимает соединения на lis и обновляет статус до отмены ctx.
// При отмене помечает сервис как NOT_SERVING и останавливается мягко.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", lis.Addr().String()))
		errCh <- s.grpcServer.Serve(lis)
	}()

	s.Refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
