package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rental-marketplace-backend/internal/api/grpc/interceptor"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/security"
)

// ServiceName is the health service name reported for the marketplace API.
const ServiceName = "rental.marketplace"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer builds the gRPC server exposing the standard health service and
// reflection for grpcurl.
func NewServer(tokens security.TokenManager) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewAuthInterceptor(tokens).Unary()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s, hs
}

// WatchDatabase flips the health status between SERVING and NOT_SERVING as
// the database becomes reachable or not, until ctx is done.
func WatchDatabase(ctx context.Context, hs *health.Server, db Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		st := healthpb.HealthCheckResponse_SERVING
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("Database health check failed", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", st)
		hs.SetServingStatus(ServiceName, st)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
