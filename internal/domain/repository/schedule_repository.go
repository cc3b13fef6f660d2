package repository

import (
	"time"

	"clinic-staffing/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	// Upsert writes the entry for its (doctor, date), replacing any
	// existing entry for that day.
	Upsert(db *gorm.DB, entry *entity.ScheduleEntry) error
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.ScheduleEntry, error)
	FindByDoctorMonth(db *gorm.DB, doctorID uuid.UUID, year, month int) ([]entity.ScheduleEntry, error)
	FindByDoctorDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.ScheduleEntry, error)
	FindByID(db *gorm.DB, id int) (*entity.ScheduleEntry, error)
	Update(db *gorm.DB, entry *entity.ScheduleEntry) error
	Delete(db *gorm.DB, id int) (int64, error)
	DeleteByDoctorDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) error
	DeleteByDoctor(db *gorm.DB, doctorID uuid.UUID) error
}
