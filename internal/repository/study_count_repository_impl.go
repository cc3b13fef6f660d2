package repository

import (
	"errors"

	"clinic-staffing/internal/domain/entity"
	domainRepo "clinic-staffing/internal/domain/repository"

	"gorm.io/gorm"
)

type studyCountRepository struct{}

func NewStudyCountRepository() domainRepo.StudyCountRepository {
	return &studyCountRepository{}
}

func (r *studyCountRepository) Create(db *gorm.DB, count *entity.StudyCount) error {
	return db.Create(count).Error
}

func (r *studyCountRepository) FindByWeek(db *gorm.DB, year, week int, studyType string) (*entity.StudyCount, error) {
	var count entity.StudyCount
	err := db.Where("year = ? AND week_number = ? AND study_type = ?", year, week, studyType).
		First(&count).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &count, nil
}
