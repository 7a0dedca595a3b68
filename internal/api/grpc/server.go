package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"appliance-rental-backend/internal/api/grpc/interceptor"
	"appliance-rental-backend/internal/logger"
)

// ServiceName is the health service name clients can check in addition to the
// overall server status ("").
const ServiceName = "appliance.rental.v1.RentalService"

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer builds the gRPC server carrying the health and reflection
// services. Health starts NOT_SERVING until the first database check.
func NewServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptor.Recovery(), interceptor.Logging()),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)
	return s, hs
}

// CheckDatabase sets the serving status from a single ping.
func CheckDatabase(ctx context.Context, hs *health.Server, db Pinger, timeout time.Duration) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("Database health check failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(ServiceName, status)
	return status
}

// WatchDatabase re-checks the database every interval until ctx is done, then
// marks the server as shutting down.
func WatchDatabase(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration) {
	CheckDatabase(ctx, hs, db, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			CheckDatabase(ctx, hs, db, interval)
		}
	}
}
