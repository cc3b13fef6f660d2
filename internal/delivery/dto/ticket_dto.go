package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateTicketRequest struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"omitempty"`
}

// Response DTOs

type TicketResponse struct {
	ID            uuid.UUID       `json:"id"`
	RequesterID   *uuid.UUID      `json:"requester_id,omitempty"`
	RequesterName string          `json:"requester_name,omitempty"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

type CreateTicketResponse struct {
	ID uuid.UUID `json:"id"`
}
