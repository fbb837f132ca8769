package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hospital-management-api/internal/config"
	"hospital-management-api/internal/model"
	"hospital-management-api/internal/store"
)

// Clinic registers patients and professionals and books appointments.
type Clinic struct {
	store  store.Store
	policy config.Policy
	log    *zap.Logger
}

func NewClinic(st store.Store, policy config.Policy, log *zap.Logger) *Clinic {
	return &Clinic{store: st, policy: policy, log: log}
}

// Ready reports whether the backing store answers.
func (s *Clinic) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Clinic) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientView, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	if s.policy.UniquePatientCPF {
		taken, err := s.store.PatientCPFTaken(ctx, req.CPF)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fail(ErrDuplicateIdentity, "cpf already registered")
		}
	}

	p := &model.Patient{Name: req.Name, CPF: req.CPF, BirthDate: req.BirthDate, Phone: req.Phone}
	if err := s.store.CreatePatient(ctx, p); err != nil {
		return nil, err
	}

	v := patientView(p)
	return &v, nil
}

func (s *Clinic) GetPatient(ctx context.Context, req GetPatientRequest) (*PatientView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	p, err := s.store.PatientByID(ctx, req.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fail(ErrNotFound, "patient %d not found", req.ID)
	}
	if err != nil {
		return nil, err
	}
	v := patientView(p)
	return &v, nil
}

func (s *Clinic) ListPatients(ctx context.Context) ([]PatientView, error) {
	ps, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PatientView, len(ps))
	for i := range ps {
		out[i] = patientView(&ps[i])
	}
	return out, nil
}

func (s *Clinic) CreateProfessional(ctx context.Context, req CreateProfessionalRequest) (*ProfessionalView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	p := &model.Professional{Name: req.Name, Specialty: req.Specialty}
	if err := s.store.CreateProfessional(ctx, p); err != nil {
		return nil, err
	}
	v := professionalView(p)
	return &v, nil
}

func (s *Clinic) ListProfessionals(ctx context.Context) ([]ProfessionalView, error) {
	ps, err := s.store.ListProfessionals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProfessionalView, len(ps))
	for i := range ps {
		out[i] = professionalView(&ps[i])
	}
	return out, nil
}

func (s *Clinic) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*AppointmentView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	at, ok := parseDateTime(req.DateTime)
	if !ok {
		return nil, invalid(map[string]string{
			"datetime": "must be RFC 3339 or YYYY-MM-DDTHH:MM[:SS]",
		})
	}

	a := &model.Appointment{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		ScheduledAt:    at,
		Type:           model.AppointmentType(req.Type),
		Reason:         req.Reason,
		Status:         model.StatusScheduled,
	}

	reject := s.policy.DoubleBooking == config.DoubleBookingReject
	err := s.store.CreateAppointment(ctx, a, reject)
	var me *store.MissingError
	switch {
	case errors.As(err, &me):
		return nil, fail(ErrNotFound, "%s %d not found", me.Entity, me.ID)
	case errors.Is(err, store.ErrNotFound):
		return nil, fail(ErrNotFound, "referenced patient or professional not found")
	case errors.Is(err, store.ErrSlotTaken):
		return nil, fail(ErrConflict, "professional %d already has an appointment at %s",
			req.ProfessionalID, at.Format(DateTimeLayout))
	case err != nil:
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info("appointment booked",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("patient_id", a.PatientID),
		zap.Int64("professional_id", a.ProfessionalID),
	)
	v := appointmentView(a)
	return &v, nil
}

func (s *Clinic) ListAppointments(ctx context.Context, req ListAppointmentsRequest) ([]AppointmentView, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	as, err := s.store.ListAppointments(ctx, model.AppointmentFilter{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]AppointmentView, len(as))
	for i := range as {
		out[i] = appointmentView(&as[i])
	}
	return out, nil
}
