package api

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"restaurant-menu-service/internal/store"
)

// GRPCServiceName is the service name reported by the gRPC health endpoint.
const GRPCServiceName = "menu.v1.MenuService"

// GRPCHealthHandler implements grpc.health.v1.Health. Each Check runs the
// same storage round trip as the HTTP health endpoint.
type GRPCHealthHandler struct {
	grpc_health_v1.UnimplementedHealthServer

	pinger store.Pinger
	logger zerolog.Logger
}

// NewGRPCHealthHandler creates a new GRPCHealthHandler.
func NewGRPCHealthHandler(pinger store.Pinger, logger zerolog.Logger) *GRPCHealthHandler {
	return &GRPCHealthHandler{pinger: pinger, logger: logger}
}

func (s *GRPCHealthHandler) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", GRPCServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Str("service", req.GetService()).Msg("gRPC health check database ping failed")
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

// NewGRPCServer registers the health service and server reflection.
func NewGRPCServer(health *GRPCHealthHandler) *grpc.Server {
	s := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(s, health)
	reflection.Register(s) // useful for tools like grpcurl
	return s
}
