// Package store persists users, patients, professionals and appointments in a
// relational database. Two backends share the Store contract: a SQLite file
// through gorm and PostgreSQL through pgx.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hospital-management-api/internal/config"
	"hospital-management-api/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrSlotTaken means the professional already has an appointment at
	// that instant.
	ErrSlotTaken = errors.New("slot taken")
)

type Store interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// CreateUser fills u.ID and u.CreatedAt. ErrDuplicate on a taken username.
	CreateUser(ctx context.Context, u *model.User) error
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)

	CreatePatient(ctx context.Context, p *model.Patient) error
	PatientByID(ctx context.Context, id int64) (*model.Patient, error)
	PatientCPFTaken(ctx context.Context, cpf string) (bool, error)
	ListPatients(ctx context.Context) ([]model.Patient, error)

	CreateProfessional(ctx context.Context, p *model.Professional) error
	ListProfessionals(ctx context.Context) ([]model.Professional, error)

	// CreateAppointment checks that both referenced rows exist and inserts
	// in one transaction. A missing row yields ErrNotFound and nothing is
	// written. With rejectDoubleBooking, an existing appointment for the same
	// professional at the same instant yields ErrSlotTaken.
	CreateAppointment(ctx context.Context, a *model.Appointment, rejectDoubleBooking bool) error
	ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
}

// Open connects to the configured backend. Migrations are not applied.
func Open(ctx context.Context, cfg config.Database, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path, log)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.URL, log)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// MissingError names the row a reference pointed at but did not find.
type MissingError struct {
	Entity string
	ID     int64
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *MissingError) Unwrap() error { return ErrNotFound }

func missing(entity string, id int64) error {
	return &MissingError{Entity: entity, ID: id}
}
