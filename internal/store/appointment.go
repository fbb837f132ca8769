package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hospital-management-api/internal/model"
)

func (s *Postgres) CreateAppointment(ctx context.Context, a *model.Appointment, rejectDoubleBooking bool) error {
	a.ScheduledAt = a.ScheduledAt.UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var found bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patients WHERE id = $1)`, a.PatientID,
	).Scan(&found); err != nil {
		return fmt.Errorf("failed to check patient: %w", err)
	}
	if !found {
		return missing("patient", a.PatientID)
	}

	// row lock on the professional serializes concurrent bookings for them
	var profID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM professionals WHERE id = $1 FOR UPDATE`, a.ProfessionalID,
	).Scan(&profID)
	if errors.Is(err, pgx.ErrNoRows) {
		return missing("professional", a.ProfessionalID)
	}
	if err != nil {
		return fmt.Errorf("failed to check professional: %w", err)
	}

	if rejectDoubleBooking {
		var taken bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(
				SELECT 1 FROM appointments
				WHERE professional_id = $1 AND scheduled_at = $2)`,
			a.ProfessionalID, a.ScheduledAt,
		).Scan(&taken); err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if taken {
			return fmt.Errorf("professional %d at %s: %w", a.ProfessionalID, a.ScheduledAt, ErrSlotTaken)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (patient_id, professional_id, scheduled_at, type, reason, status)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at`,
		a.PatientID, a.ProfessionalID, a.ScheduledAt, a.Type, a.Reason, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if pgCode(err) == pgForeignKeyViolation {
		return fmt.Errorf("referenced row vanished: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Postgres) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	q := `SELECT id, patient_id, professional_id, scheduled_at, type, reason, status, created_at
		FROM appointments WHERE TRUE`
	var args []any

	if f.PatientID != 0 {
		args = append(args, f.PatientID)
		q += fmt.Sprintf(` AND patient_id = $%d`, len(args))
	}
	if f.ProfessionalID != 0 {
		args = append(args, f.ProfessionalID)
		q += fmt.Sprintf(` AND professional_id = $%d`, len(args))
	}
	q += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.ProfessionalID, &a.ScheduledAt,
			&a.Type, &a.Reason, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
