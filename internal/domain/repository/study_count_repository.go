package repository

import (
	"clinic-staffing/internal/domain/entity"

	"gorm.io/gorm"
)

type StudyCountRepository interface {
	Create(db *gorm.DB, count *entity.StudyCount) error
	// FindByWeek returns nil without error when no observation exists.
	FindByWeek(db *gorm.DB, year, week int, studyType string) (*entity.StudyCount, error)
}
