package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"hospital-management-api/internal/service"
)

// Client calls ClinicService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithToken attaches a bearer token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (c *Client) invoke(ctx context.Context, method string, req, res any) error {
	return c.cc.Invoke(ctx, fullMethod(method), req, res, grpc.CallContentSubtype(CodecName))
}

func (c *Client) Signup(ctx context.Context, req service.SignupRequest) (*service.SignupResponse, error) {
	res := &service.SignupResponse{}
	if err := c.invoke(ctx, "Signup", &req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	res := &service.LoginResponse{}
	if err := c.invoke(ctx, "Login", &req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreatePatient(ctx context.Context, req service.CreatePatientRequest) (*service.PatientView, error) {
	res := &service.PatientView{}
	if err := c.invoke(ctx, "CreatePatient", &req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetPatient(ctx context.Context, id int64) (*service.PatientView, error) {
	res := &service.PatientView{}
	if err := c.invoke(ctx, "GetPatient", &service.GetPatientRequest{ID: id}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListPatients(ctx context.Context) ([]service.PatientView, error) {
	var res []service.PatientView
	if err := c.invoke(ctx, "ListPatients", &Empty{}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateProfessional(ctx context.Context, req service.CreateProfessionalRequest) (*service.ProfessionalView, error) {
	res := &service.ProfessionalView{}
	if err := c.invoke(ctx, "CreateProfessional", &req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListProfessionals(ctx context.Context) ([]service.ProfessionalView, error) {
	var res []service.ProfessionalView
	if err := c.invoke(ctx, "ListProfessionals", &Empty{}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateAppointment(ctx context.Context, req service.CreateAppointmentRequest) (*service.AppointmentView, error) {
	res := &service.AppointmentView{}
	if err := c.invoke(ctx, "CreateAppointment", &req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListAppointments(ctx context.Context, req service.ListAppointmentsRequest) ([]service.AppointmentView, error) {
	var res []service.AppointmentView
	if err := c.invoke(ctx, "ListAppointments", &req, &res); err != nil {
		return nil, err
	}
	return res, nil
}
