package repository

import (
	"clinic-staffing/internal/domain/entity"
	domainRepo "clinic-staffing/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type modalityRepository struct{}

func NewModalityRepository() domainRepo.ModalityRepository {
	return &modalityRepository{}
}

// GetOrCreate inserts with ON CONFLICT DO NOTHING and re-reads, so two
// concurrent callers resolving the same new name both end up with the
// one surviving row.
func (r *modalityRepository) GetOrCreate(db *gorm.DB, name string) (*entity.Modality, error) {
	modality := entity.Modality{Name: name}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&modality).Error
	if err != nil {
		return nil, err
	}

	var found entity.Modality
	if err := db.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *modalityRepository) FindAll(db *gorm.DB) ([]entity.Modality, error) {
	var modalities []entity.Modality
	err := db.Order("name ASC").Find(&modalities).Error
	if err != nil {
		return nil, err
	}
	return modalities, nil
}
