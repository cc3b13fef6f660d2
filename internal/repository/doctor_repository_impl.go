package repository

import (
	"errors"

	"clinic-staffing/internal/domain/entity"
	domainRepo "clinic-staffing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("User", "MainModality", "AdditionalModalities", "Schedule").Create(doctor).Error
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("User").Preload("MainModality").Preload("AdditionalModalities").
		Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Preload("User").Preload("MainModality").Preload("AdditionalModalities").
		Joins("JOIN users ON users.id = doctors.user_id").
		Order("users.full_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("User", "MainModality", "AdditionalModalities", "Schedule").Save(doctor).Error
}

func (r *doctorRepository) ReplaceAdditionalModalities(db *gorm.DB, doctor *entity.Doctor, modalities []entity.Modality) error {
	return db.Model(doctor).Association("AdditionalModalities").Replace(modalities)
}

func (r *doctorRepository) Delete(db *gorm.DB, userID uuid.UUID) error {
	return db.Where("user_id = ?", userID).Delete(&entity.Doctor{}).Error
}

func (r *doctorRepository) CountByModality(db *gorm.DB, modalityName string) (int64, error) {
	var count int64
	err := db.Model(&entity.Doctor{}).
		Joins("JOIN modalities main_modality ON main_modality.id = doctors.main_modality_id").
		Joins("LEFT JOIN doctor_modalities ON doctor_modalities.doctor_user_id = doctors.user_id").
		Joins("LEFT JOIN modalities extra_modality ON extra_modality.id = doctor_modalities.modality_id").
		Where("main_modality.name = ? OR extra_modality.name = ?", modalityName, modalityName).
		Distinct("doctors.user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
