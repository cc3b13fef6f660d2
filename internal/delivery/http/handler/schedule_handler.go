package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/delivery/http/middleware"
	"clinic-staffing/internal/usecase"
	"clinic-staffing/pkg/response"
	"clinic-staffing/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// SaveMySchedule upserts a batch of entries for the authenticated doctor
func (h *ScheduleHandler) SaveMySchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.Save(r.Context(), userID, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to save schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule saved successfully", schedule)
}

func (h *ScheduleHandler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	schedule, err := h.scheduleUsecase.ListByDoctor(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// GetMyMonthSchedule returns one month of entries with payroll hour sums
func (h *ScheduleHandler) GetMyMonthSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	now := time.Now()
	year, month, ok := h.monthQueryParams(w, r, now.Year(), int(now.Month()))
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.MonthView(r.Context(), userID, year, month)
	if err != nil {
		response.InternalServerError(w, "Failed to get month schedule")
		return
	}

	response.Success(w, http.StatusOK, "Month schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) UpdateMyScheduleEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	entryID, ok := h.entryIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.scheduleUsecase.UpdateEntry(r.Context(), userID, entryID, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to update schedule entry")
		return
	}

	response.Success(w, http.StatusOK, "Schedule entry updated successfully", entry)
}

func (h *ScheduleHandler) DeleteMyScheduleEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	entryID, ok := h.entryIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteEntry(r.Context(), userID, entryID); err != nil {
		h.writeScheduleError(w, err, "Failed to delete schedule entry")
		return
	}

	response.Success(w, http.StatusOK, "Schedule entry deleted successfully", nil)
}

// GetDoctorSchedule lets HR and managers view any doctor's schedule
func (h *ScheduleHandler) GetDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	if raw := r.URL.Query().Get("year"); raw != "" {
		now := time.Now()
		year, month, ok := h.monthQueryParams(w, r, now.Year(), int(now.Month()))
		if !ok {
			return
		}
		schedule, err := h.scheduleUsecase.MonthView(r.Context(), doctorID, year, month)
		if err != nil {
			response.InternalServerError(w, "Failed to get schedule")
			return
		}
		response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
		return
	}

	schedule, err := h.scheduleUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// SaveDoctorSchedule lets HR bulk-create entries for any doctor
func (h *ScheduleHandler) SaveDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.doctorIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.Save(r.Context(), doctorID, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to save schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule saved successfully", schedule)
}

func (h *ScheduleHandler) UpdateDoctorScheduleEntry(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.doctorIDFromPath(w, r)
	if !ok {
		return
	}

	entryID, ok := h.namedEntryIDFromPath(w, r, "entryId")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.scheduleUsecase.UpdateEntry(r.Context(), doctorID, entryID, &req)
	if err != nil {
		h.writeScheduleError(w, err, "Failed to update schedule entry")
		return
	}

	response.Success(w, http.StatusOK, "Schedule entry updated successfully", entry)
}

func (h *ScheduleHandler) DeleteDoctorScheduleEntry(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.doctorIDFromPath(w, r)
	if !ok {
		return
	}

	entryID, ok := h.namedEntryIDFromPath(w, r, "entryId")
	if !ok {
		return
	}

	if err := h.scheduleUsecase.DeleteEntry(r.Context(), doctorID, entryID); err != nil {
		h.writeScheduleError(w, err, "Failed to delete schedule entry")
		return
	}

	response.Success(w, http.StatusOK, "Schedule entry deleted successfully", nil)
}

func (h *ScheduleHandler) doctorIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return uuid.Nil, false
	}
	return doctorID, true
}

func (h *ScheduleHandler) entryIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	return h.namedEntryIDFromPath(w, r, "id")
}

func (h *ScheduleHandler) namedEntryIDFromPath(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	vars := mux.Vars(r)
	entryID, err := strconv.Atoi(vars[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule entry ID", nil)
		return 0, false
	}
	return entryID, true
}

func (h *ScheduleHandler) monthQueryParams(w http.ResponseWriter, r *http.Request, defaultYear, defaultMonth int) (int, int, bool) {
	year, month := defaultYear, defaultMonth
	var err error

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 2000 || year > 2100 {
			response.Error(w, http.StatusBadRequest, "Invalid year", nil)
			return 0, 0, false
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			response.Error(w, http.StatusBadRequest, "Invalid month", nil)
			return 0, 0, false
		}
	}
	return year, month, true
}

func (h *ScheduleHandler) writeScheduleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor profile not found")
	case errors.Is(err, usecase.ErrScheduleEntryNotFound):
		response.NotFound(w, "Schedule entry not found")
	case errors.Is(err, usecase.ErrBadDate):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
