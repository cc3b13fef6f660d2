package converter

import (
	"encoding/json"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
)

func TicketToResponse(ticket *entity.Ticket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:          ticket.ID,
		RequesterID: ticket.UserID,
		Type:        string(ticket.Type),
		Payload:     json.RawMessage(ticket.Payload),
		Status:      string(ticket.Status),
		CreatedAt:   ticket.CreatedAt,
	}
	if ticket.User != nil {
		resp.RequesterName = ticket.User.FullName
	}
	return resp
}

func TicketsToResponses(tickets []entity.Ticket) []dto.TicketResponse {
	responses := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, *TicketToResponse(&tickets[i]))
	}
	return responses
}
