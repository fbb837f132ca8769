package service

import (
	"time"

	"hospital-management-api/internal/model"
)

// DateTimeLayout is how appointment times are echoed back.
const DateTimeLayout = "2006-01-02T15:04:05"

// accepted appointment time formats; zone-less values are UTC
var dateTimeLayouts = []string{time.RFC3339, DateTimeLayout, "2006-01-02T15:04"}

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=120"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin professional patient"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserView struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

type SignupResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserView `json:"user"`
}

type CreatePatientRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	CPF       string `json:"cpf" validate:"required,max=14"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone     string `json:"phone" validate:"max=20"`
}

type GetPatientRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type PatientView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type CreateProfessionalRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Specialty string `json:"specialty" validate:"max=80"`
}

type ProfessionalView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID      int64  `json:"patient_id" validate:"required,gt=0"`
	ProfessionalID int64  `json:"professional_id" validate:"required,gt=0"`
	DateTime       string `json:"datetime" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=in_person teleconsultation"`
	Reason         string `json:"reason" validate:"max=255"`
}

// ListAppointmentsRequest filters by patient and/or professional; zero
// means no filter.
type ListAppointmentsRequest struct {
	PatientID      int64 `json:"patient_id" validate:"gte=0"`
	ProfessionalID int64 `json:"professional_id" validate:"gte=0"`
}

type AppointmentView struct {
	ID             int64                 `json:"id"`
	PatientID      int64                 `json:"patient_id"`
	ProfessionalID int64                 `json:"professional_id"`
	DateTime       string                `json:"datetime"`
	Type           model.AppointmentType `json:"type"`
	Reason         string                `json:"reason,omitempty"`
	Status         string                `json:"status"`
}

func userView(u *model.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

func patientView(p *model.Patient) PatientView {
	return PatientView{ID: p.ID, Name: p.Name, CPF: p.CPF, BirthDate: p.BirthDate, Phone: p.Phone}
}

func professionalView(p *model.Professional) ProfessionalView {
	return ProfessionalView{ID: p.ID, Name: p.Name, Specialty: p.Specialty}
}

func appointmentView(a *model.Appointment) AppointmentView {
	return AppointmentView{
		ID:             a.ID,
		PatientID:      a.PatientID,
		ProfessionalID: a.ProfessionalID,
		DateTime:       a.ScheduledAt.UTC().Format(DateTimeLayout),
		Type:           a.Type,
		Reason:         a.Reason,
		Status:         a.Status,
	}
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
