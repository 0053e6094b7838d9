package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// GRPCHealthChecker probes a standard grpc.health.v1 endpoint. Deployments
// that front the backend with a gRPC sidecar use it instead of /api/health.
type GRPCHealthChecker struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

// NewGRPCHealthChecker prepares a lazy connection to addr. service is the
// health service name; "" asks about the server as a whole.
func NewGRPCHealthChecker(addr, service string, opts ...grpc.DialOption) (*GRPCHealthChecker, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc health client: %w", err)
	}
	return &GRPCHealthChecker{conn: conn, client: healthpb.NewHealthClient(conn), service: service}, nil
}

func (g *GRPCHealthChecker) Health(ctx context.Context) error {
	resp, err := g.client.Check(ctx, &healthpb.HealthCheckRequest{Service: g.service})
	if err != nil {
		return g.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (g *GRPCHealthChecker) Close() error {
	return g.conn.Close()
}

func (g *GRPCHealthChecker) mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return fmt.Errorf("%w: unknown health service %q", ErrUnavailable, g.service)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: rpc error: %w", ErrTransport, err)
	}
}
