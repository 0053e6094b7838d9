package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startHealthServer(t *testing.T) (*health.Server, *GRPCHealthChecker) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	checker, err := NewGRPCHealthChecker("passthrough:///bufnet", "catalog",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = checker.Close() })

	return hs, checker
}

func TestGRPCHealthChecker_Serving(t *testing.T) {
	hs, checker := startHealthServer(t)
	hs.SetServingStatus("catalog", healthpb.HealthCheckResponse_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, checker.Health(ctx))
}

func TestGRPCHealthChecker_NotServing(t *testing.T) {
	hs, checker := startHealthServer(t)
	hs.SetServingStatus("catalog", healthpb.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.ErrorIs(t, checker.Health(ctx), ErrUnavailable)
}

func TestGRPCHealthChecker_UnknownService(t *testing.T) {
	_, checker := startHealthServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.ErrorIs(t, checker.Health(ctx), ErrUnavailable)
}
