package repository

import (
	"clinic-staffing/internal/domain/entity"

	"gorm.io/gorm"
)

type ModalityRepository interface {
	// GetOrCreate resolves a modality by name, creating the row if it
	// does not exist yet. Safe under concurrent creation of the same
	// name.
	GetOrCreate(db *gorm.DB, name string) (*entity.Modality, error)
	FindAll(db *gorm.DB) ([]entity.Modality, error)
}
