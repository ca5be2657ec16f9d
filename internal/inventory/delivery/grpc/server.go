package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// ServiceName is the health service name reported next to the overall ""
const ServiceName = "inventory.Tracker"

// DefaultWatchInterval is used when Watch gets a non-positive interval
const DefaultWatchInterval = 10 * time.Second

// HealthServer reports SERVING while the document store answers pings
type HealthServer struct {
	health *health.Server
	store  domain.DocumentStore
}

// NewHealthServer creates a health server that starts as NOT_SERVING
func NewHealthServer(store domain.DocumentStore) *HealthServer {
	s := &HealthServer{
		health: health.NewServer(),
		store:  store,
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// NewServer builds a gRPC server exposing the health and reflection services
func NewServer(hs *HealthServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)
	healthpb.RegisterHealthServer(server, hs.health)
	reflection.Register(server)
	return server
}

// Check pings the store once and updates the serving status
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Document store ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.set(status)
	return status
}

// Watch re-checks the store every interval until ctx is cancelled, then
// marks the service as shutting down.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
