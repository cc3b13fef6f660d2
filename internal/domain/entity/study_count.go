package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudyCount is an observed number of completed studies for one
// (year, ISO week, study type) triple. Weeks without an observation
// are forecast by the predictor instead.
type StudyCount struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Year       int       `gorm:"not null;uniqueIndex:idx_study_count_week" json:"year"`
	WeekNumber int       `gorm:"not null;uniqueIndex:idx_study_count_week" json:"week_number"`
	StudyType  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_study_count_week" json:"study_type"`
	StudyCount float64   `gorm:"not null" json:"study_count"`
}

func (StudyCount) TableName() string {
	return "study_counts"
}

func (s *StudyCount) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
