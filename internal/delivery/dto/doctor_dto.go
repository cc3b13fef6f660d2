package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email              string   `json:"email" validate:"required,email"`
	FullName           string   `json:"full_name" validate:"required,min=2"`
	Experience         string   `json:"experience" validate:"required"`
	MainModality       string   `json:"main_modality" validate:"required"`
	AdditionalModality []string `json:"additional_modality" validate:"omitempty"`
	Gender             string   `json:"gender" validate:"required"`
	Rate               float64  `json:"rate" validate:"required,gt=0"`
	Phone              string   `json:"phone" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	Experience         string    `json:"experience"`
	MainModality       string    `json:"main_modality"`
	AdditionalModality []string  `json:"additional_modality"`
	Gender             string    `json:"gender"`
	Rate               float64   `json:"rate"`
	Status             string    `json:"status"`
	Phone              string    `json:"phone"`
	Approved           bool      `json:"approved"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type ModalityResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ModalityListResponse struct {
	Modalities []ModalityResponse `json:"modalities"`
	Total      int                `json:"total"`
}
