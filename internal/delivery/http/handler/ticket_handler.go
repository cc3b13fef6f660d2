package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/delivery/http/middleware"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/usecase"
	"clinic-staffing/pkg/response"
	"clinic-staffing/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TicketHandler struct {
	ticketUsecase usecase.TicketUsecase
	validator     *validator.CustomValidator
}

func NewTicketHandler(ticketUsecase usecase.TicketUsecase, validator *validator.CustomValidator) *TicketHandler {
	return &TicketHandler{
		ticketUsecase: ticketUsecase,
		validator:     validator,
	}
}

func (h *TicketHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	ticket, err := h.ticketUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrUnknownTicketType):
			response.Error(w, http.StatusBadRequest, "Unknown ticket type", nil)
		case errors.Is(err, entity.ErrInvalidPayload):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to create ticket")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Ticket created successfully", ticket)
}

func (h *TicketHandler) GetTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.ticketUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get tickets")
		return
	}

	response.Success(w, http.StatusOK, "Tickets retrieved successfully", tickets)
}

func (h *TicketHandler) ApproveTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.ticketIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.ticketUsecase.Approve(r.Context(), ticketID); err != nil {
		h.writeDecisionError(w, err, "Failed to approve ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket approved successfully", nil)
}

func (h *TicketHandler) DeclineTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.ticketIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.ticketUsecase.Decline(r.Context(), ticketID); err != nil {
		h.writeDecisionError(w, err, "Failed to decline ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket declined successfully", nil)
}

func (h *TicketHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.ticketIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.ticketUsecase.Delete(r.Context(), ticketID); err != nil {
		switch err {
		case usecase.ErrTicketNotFound:
			response.NotFound(w, "Ticket not found")
		default:
			response.InternalServerError(w, "Failed to delete ticket")
		}
		return
	}

	response.Success(w, http.StatusOK, "Ticket deleted successfully", nil)
}

func (h *TicketHandler) ticketIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	ticketID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ticket ID", nil)
		return uuid.Nil, false
	}
	return ticketID, true
}

func (h *TicketHandler) writeDecisionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrTicketNotFound):
		response.NotFound(w, "Ticket not found")
	case errors.Is(err, usecase.ErrTicketNotPending):
		response.Conflict(w, "Ticket has already been processed")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor profile not found")
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, entity.ErrInvalidPayload), errors.Is(err, usecase.ErrBadDate):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
