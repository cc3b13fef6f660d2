package entity

import (
	"time"

	"github.com/google/uuid"
)

// DayType classifies a schedule entry
type DayType string

const (
	DayTypeWorking   DayType = "WORKING_DAY"
	DayTypeEmergency DayType = "EMERGENCY"
	DayTypeVacation  DayType = "VACATION"
)

// ScheduleEntry is one calendar day of a doctor's schedule. At most one
// entry may exist per (doctor, date); writes go through upsert-by-date
// and the composite unique index backs the invariant.
type ScheduleEntry struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_doctor_date" json:"doctor_id"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_schedule_doctor_date" json:"date"`
	StartTime    string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime      string    `gorm:"type:varchar(5);not null" json:"end_time"`
	BreakMinutes int       `gorm:"not null;default:0" json:"break_minutes"`
	HoursWorked  float64   `gorm:"not null;default:0" json:"hours_worked"`
	DayType      DayType   `gorm:"type:varchar(20);not null;default:'WORKING_DAY'" json:"day_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}
