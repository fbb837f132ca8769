package store

import (
	"context"
	"fmt"

	"hospital-management-api/internal/model"
)

func (s *Postgres) CreatePatient(ctx context.Context, p *model.Patient) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO patients (name, cpf, birth_date, phone) VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		p.Name, p.CPF, p.BirthDate, p.Phone,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (s *Postgres) PatientByID(ctx context.Context, id int64) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, cpf, birth_date, phone, created_at
		 FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.CPF, &p.BirthDate, &p.Phone, &p.CreatedAt)
	if err != nil {
		return nil, rowNotFound(err, fmt.Sprintf("patient %d", id))
	}
	return p, nil
}

func (s *Postgres) PatientCPFTaken(ctx context.Context, cpf string) (bool, error) {
	var taken bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patients WHERE cpf = $1)`, cpf,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to look up cpf: %w", err)
	}
	return taken, nil
}

func (s *Postgres) ListPatients(ctx context.Context) ([]model.Patient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, cpf, birth_date, phone, created_at
		 FROM patients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	out := []model.Patient{}
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.CPF, &p.BirthDate, &p.Phone, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
