package repository

import (
	"clinic-staffing/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	ReplaceAdditionalModalities(db *gorm.DB, doctor *entity.Doctor, modalities []entity.Modality) error
	Delete(db *gorm.DB, userID uuid.UUID) error
	// CountByModality counts distinct doctors whose main or additional
	// modality carries the given name.
	CountByModality(db *gorm.DB, modalityName string) (int64, error)
}
