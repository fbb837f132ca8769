package model

import "time"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RolePatient      Role = "patient"
)

// AppointmentType is how the consultation happens.
type AppointmentType string

const (
	InPerson         AppointmentType = "in_person"
	Teleconsultation AppointmentType = "teleconsultation"
)

// StatusScheduled is the only status an appointment takes; there are no
// transitions.
const StatusScheduled = "scheduled"

type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:72;not null"`
	Role         Role   `gorm:"size:20;not null"`
	CreatedAt    time.Time
}

type Patient struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	CPF       string `gorm:"column:cpf;size:14;index;not null"`
	BirthDate string `gorm:"size:10"`
	Phone     string `gorm:"size:20"`
	CreatedAt time.Time
}

type Professional struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	Specialty string `gorm:"size:80"`
	CreatedAt time.Time
}

type Appointment struct {
	ID             int64           `gorm:"primaryKey"`
	PatientID      int64           `gorm:"not null;index"`
	ProfessionalID int64           `gorm:"not null;index"`
	ScheduledAt    time.Time       `gorm:"not null"`
	Type           AppointmentType `gorm:"size:20;not null"`
	Reason         string          `gorm:"size:255"`
	Status         string          `gorm:"size:20;not null"`
	CreatedAt      time.Time

	Patient      *Patient      `gorm:"foreignKey:PatientID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Professional *Professional `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// AppointmentFilter narrows an appointment listing; zero fields match all.
type AppointmentFilter struct {
	PatientID      int64
	ProfessionalID int64
}
