package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-management-api/internal/service"
)

const ServiceName = "hospital.v1.ClinicService"

// Empty is the request of the argument-less list methods.
type Empty struct{}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// OpenMethods skip the auth interceptor.
var OpenMethods = map[string]bool{
	fullMethod("Signup"):           true,
	fullMethod("Login"):            true,
	"/grpc.health.v1.Health/Check": true,
}

// LimitedMethods go through the per-peer rate limiter.
var LimitedMethods = map[string]bool{
	fullMethod("Signup"): true,
	fullMethod("Login"):  true,
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary("Signup", func(s *Server, ctx context.Context, req *service.SignupRequest) (any, error) {
			return s.auth.Signup(ctx, *req)
		}),
		unary("Login", func(s *Server, ctx context.Context, req *service.LoginRequest) (any, error) {
			return s.auth.Login(ctx, *req)
		}),
		unary("CreatePatient", func(s *Server, ctx context.Context, req *service.CreatePatientRequest) (any, error) {
			return s.clinic.CreatePatient(ctx, *req)
		}),
		unary("ListPatients", func(s *Server, ctx context.Context, _ *Empty) (any, error) {
			return s.clinic.ListPatients(ctx)
		}),
		unary("GetPatient", func(s *Server, ctx context.Context, req *service.GetPatientRequest) (any, error) {
			return s.clinic.GetPatient(ctx, *req)
		}),
		unary("CreateProfessional", func(s *Server, ctx context.Context, req *service.CreateProfessionalRequest) (any, error) {
			return s.clinic.CreateProfessional(ctx, *req)
		}),
		unary("ListProfessionals", func(s *Server, ctx context.Context, _ *Empty) (any, error) {
			return s.clinic.ListProfessionals(ctx)
		}),
		unary("CreateAppointment", func(s *Server, ctx context.Context, req *service.CreateAppointmentRequest) (any, error) {
			return s.clinic.CreateAppointment(ctx, *req)
		}),
		unary("ListAppointments", func(s *Server, ctx context.Context, req *service.ListAppointmentsRequest) (any, error) {
			return s.clinic.ListAppointments(ctx, *req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed call to grpc.MethodDesc, running the interceptor
// chain the way generated code does.
func unary[Req any, Res any](name string, call func(*Server, context.Context, *Req) (Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, ic grpc.UnaryServerInterceptor) (any, error) {
			req := new(Req)
			if err := dec(req); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
			}
			s := srv.(*Server)
			handle := func(ctx context.Context, r any) (any, error) {
				res, err := call(s, ctx, r.(*Req))
				if err != nil {
					return nil, s.toStatus(name, err)
				}
				return res, nil
			}
			if ic == nil {
				return handle(ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return ic(ctx, req, info, handle)
		},
	}
}
