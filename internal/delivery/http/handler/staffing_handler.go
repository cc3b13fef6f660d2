package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/usecase"
	"clinic-staffing/pkg/response"
	"clinic-staffing/pkg/validator"
)

type StaffingHandler struct {
	staffingUsecase usecase.StaffingUsecase
	validator       *validator.CustomValidator
}

func NewStaffingHandler(staffingUsecase usecase.StaffingUsecase, validator *validator.CustomValidator) *StaffingHandler {
	return &StaffingHandler{
		staffingUsecase: staffingUsecase,
		validator:       validator,
	}
}

// AnalyzeWeek reports per-modality staffing adequacy for the week of
// ?date= (default: the current week).
func (h *StaffingHandler) AnalyzeWeek(w http.ResponseWriter, r *http.Request) {
	date, err := dateQueryParam(r, "date", time.Now())
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.staffingUsecase.AnalyzeWeek(r.Context(), date)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "Failed to build staffing report", nil)
		return
	}

	response.Success(w, http.StatusOK, "Staffing report built successfully", report)
}

func (h *StaffingHandler) RecordStudyCount(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordStudyCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.staffingUsecase.RecordStudyCount(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownStudyType):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrStudyCountExists):
			response.Conflict(w, "Study count already recorded for this week")
		default:
			response.InternalServerError(w, "Failed to record study count")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Study count recorded successfully", nil)
}

// ExportStudyCounts streams the count table for ?weeks= weeks starting
// at ?date=, as ?format= csv or xlsx.
func (h *StaffingHandler) ExportStudyCounts(w http.ResponseWriter, r *http.Request) {
	date, err := dateQueryParam(r, "date", time.Now())
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	weeks := 1
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		weeks, err = strconv.Atoi(raw)
		if err != nil || weeks < 1 || weeks > 52 {
			response.Error(w, http.StatusBadRequest, "weeks must be between 1 and 52", nil)
			return
		}
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	result, err := h.staffingUsecase.ExportStudyCounts(r.Context(), date, weeks, format)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnsupportedFormat):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error(w, http.StatusBadGateway, "Failed to export study counts", nil)
		}
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func dateQueryParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be formatted as YYYY-MM-DD", name)
	}
	return date, nil
}
