package store

import (
	"context"
	"fmt"

	"hospital-management-api/internal/model"
)

func (s *Postgres) CreateProfessional(ctx context.Context, p *model.Professional) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO professionals (name, specialty) VALUES ($1,$2)
		 RETURNING id, created_at`,
		p.Name, p.Specialty,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (s *Postgres) ListProfessionals(ctx context.Context) ([]model.Professional, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, specialty, created_at FROM professionals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	out := []model.Professional{}
	for rows.Next() {
		var p model.Professional
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
