package repository

import (
	"errors"

	"clinic-staffing/internal/domain/entity"
	domainRepo "clinic-staffing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ticketRepository struct{}

func NewTicketRepository() domainRepo.TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(db *gorm.DB, ticket *entity.Ticket) error {
	return db.Omit("User").Create(ticket).Error
}

func (r *ticketRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := db.Preload("User").Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindAll(db *gorm.DB) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := db.Preload("User").Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// UpdateStatusIfPending is the compare-and-set guard against double
// consumption: the WHERE clause makes concurrent approvals race on a
// single row update, and the loser sees zero rows affected.
func (r *ticketRepository) UpdateStatusIfPending(db *gorm.DB, id uuid.UUID, status entity.TicketStatus) (int64, error) {
	result := db.Model(&entity.Ticket{}).
		Where("id = ? AND status = ?", id, entity.TicketStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *ticketRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Ticket{})
	return result.RowsAffected, result.Error
}
