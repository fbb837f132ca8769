// Package grpcapi exposes the clinic over gRPC. Messages are the REST JSON
// shapes, carried by a registered JSON codec.
package grpcapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"hospital-management-api/internal/middleware"
	"hospital-management-api/internal/service"
)

type Server struct {
	auth   *service.Auth
	clinic *service.Clinic
	log    *zap.Logger
}

func NewServer(a *service.Auth, c *service.Clinic, log *zap.Logger) *Server {
	return &Server{auth: a, clinic: c, log: log}
}

// NewGRPCServer wires the rate limit and auth interceptors, registers the
// clinic service and reports it healthy.
func NewGRPCServer(s *Server, rl *middleware.RateLimiter) *grpc.Server {
	g := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RateLimitInterceptor(rl, LimitedMethods),
			middleware.AuthInterceptor(s.auth, OpenMethods),
		),
	)
	g.RegisterService(&serviceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(g, hs)
	return g
}

func (s *Server) toStatus(method string, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		s.log.Error("grpc call failed", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
	msg := se.Msg
	if len(se.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, joinFields(se.Fields))
	}
	return status.Error(Code(se.Kind), msg)
}

func Code(kind error) codes.Code {
	switch kind {
	case service.ErrValidation:
		return codes.InvalidArgument
	case service.ErrUnauthorized:
		return codes.Unauthenticated
	case service.ErrNotFound:
		return codes.NotFound
	case service.ErrDuplicateIdentity, service.ErrConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + fields[k]
	}
	return strings.Join(parts, "; ")
}
