package repository

import (
	"clinic-staffing/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(db *gorm.DB, ticket *entity.Ticket) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error)
	FindAll(db *gorm.DB) ([]entity.Ticket, error)
	// UpdateStatusIfPending transitions the ticket out of pending with a
	// conditional update and reports the number of rows affected; zero
	// means the ticket was already consumed.
	UpdateStatusIfPending(db *gorm.DB, id uuid.UUID, status entity.TicketStatus) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
