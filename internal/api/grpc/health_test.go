package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func statusOf(t *testing.T, hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	return resp.Status
}

func TestWatchDatabase(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  error
		want healthpb.HealthCheckResponse_ServingStatus
	}{
		{"Reachable", nil, healthpb.HealthCheckResponse_SERVING},
		{"Unreachable", errors.New("connection refused"), healthpb.HealthCheckResponse_NOT_SERVING},
	} {
		t.Run(tt.name, func(t *testing.T) {
			hs := health.NewServer()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			WatchDatabase(ctx, hs, fakePinger{err: tt.err}, time.Second)
			assert.Equal(t, tt.want, statusOf(t, hs))
		})
	}
}
