package entity

import "github.com/google/uuid"

// Doctor status labels. New doctors created by HR start as pending
// until an approve_doctor ticket flips them to active.
const (
	DoctorStatusPending = "pending confirmation"
	DoctorStatusActive  = "active"
)

// Doctor represents doctor-specific profile data, linked 1:1 to a User.
type Doctor struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Experience     string    `gorm:"type:varchar(255);not null" json:"experience"`
	MainModalityID int       `gorm:"not null;index" json:"main_modality_id"`
	Gender         string    `gorm:"type:varchar(32);not null" json:"gender"`
	Rate           float64   `gorm:"not null" json:"rate"`
	Status         string    `gorm:"type:varchar(255);not null;default:'pending confirmation'" json:"status"`
	Phone          string    `gorm:"type:varchar(64);not null" json:"phone"`

	// Relationships
	User                 User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MainModality         Modality        `gorm:"foreignKey:MainModalityID" json:"main_modality,omitempty"`
	AdditionalModalities []Modality      `gorm:"many2many:doctor_modalities" json:"additional_modalities,omitempty"`
	Schedule             []ScheduleEntry `gorm:"foreignKey:DoctorID" json:"schedule,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
