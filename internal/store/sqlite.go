package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-management-api/internal/model"
)

// SQLite keeps everything in a single database file.
type SQLite struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database file at path. Foreign
// keys are enforced and write transactions take the lock up front so that
// concurrent bookings serialize.
func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	dsn := path
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	log.Info("opened sqlite database", zap.String("path", path))
	return NewSQLite(db, log), nil
}

func NewSQLite(db *gorm.DB, log *zap.Logger) *SQLite {
	return &SQLite{db: db, log: log}
}

func (s *SQLite) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&model.User{},
		&model.Patient{},
		&model.Professional{},
		&model.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

func (s *SQLite) CreateUser(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		return tx.Create(u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", u.Username, err)
	}
	return nil
}

func (s *SQLite) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %q", username))
	}
	return &u, nil
}

func (s *SQLite) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

func (s *SQLite) CreatePatient(ctx context.Context, p *model.Patient) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (s *SQLite) PatientByID(ctx context.Context, id int64) (*model.Patient, error) {
	var p model.Patient
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("patient %d", id))
	}
	return &p, nil
}

func (s *SQLite) PatientCPFTaken(ctx context.Context, cpf string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Patient{}).Where("cpf = ?", cpf).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up cpf: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) ListPatients(ctx context.Context) ([]model.Patient, error) {
	out := []model.Patient{}
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return out, nil
}

func (s *SQLite) CreateProfessional(ctx context.Context, p *model.Professional) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (s *SQLite) ListProfessionals(ctx context.Context) ([]model.Professional, error) {
	out := []model.Professional{}
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return out, nil
}

func (s *SQLite) CreateAppointment(ctx context.Context, a *model.Appointment, rejectDoubleBooking bool) error {
	a.ScheduledAt = a.ScheduledAt.UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &model.Patient{}, a.PatientID, "patient"); err != nil {
			return err
		}
		if err := exists(tx, &model.Professional{}, a.ProfessionalID, "professional"); err != nil {
			return err
		}

		if rejectDoubleBooking {
			var n int64
			err := tx.Model(&model.Appointment{}).
				Where("professional_id = ? AND scheduled_at = ?", a.ProfessionalID, a.ScheduledAt).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrSlotTaken
			}
		}

		return tx.Omit("Patient", "Professional").Create(a).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		err = fmt.Errorf("referenced row vanished: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	s.log.Debug("appointment created",
		zap.Int64("id", a.ID),
		zap.Int64("patient_id", a.PatientID),
		zap.Int64("professional_id", a.ProfessionalID),
	)
	return nil
}

func (s *SQLite) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	q := s.db.WithContext(ctx).Model(&model.Appointment{})
	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}

	out := []model.Appointment{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return out, nil
}

func exists(tx *gorm.DB, m any, id int64, entity string) error {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return missing(entity, id)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}
