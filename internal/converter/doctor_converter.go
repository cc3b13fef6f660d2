package converter

import (
	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
)

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	additional := make([]string, 0, len(doctor.AdditionalModalities))
	for _, m := range doctor.AdditionalModalities {
		additional = append(additional, m.Name)
	}

	return &dto.DoctorResponse{
		ID:                 doctor.UserID,
		FullName:           doctor.User.FullName,
		Email:              doctor.User.Email,
		Experience:         doctor.Experience,
		MainModality:       doctor.MainModality.Name,
		AdditionalModality: additional,
		Gender:             doctor.Gender,
		Rate:               doctor.Rate,
		Status:             doctor.Status,
		Phone:              doctor.Phone,
		Approved:           doctor.User.Approved,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		responses = append(responses, *DoctorToResponse(&doctors[i]))
	}
	return responses
}

func ModalitiesToResponses(modalities []entity.Modality) []dto.ModalityResponse {
	responses := make([]dto.ModalityResponse, 0, len(modalities))
	for _, m := range modalities {
		responses = append(responses, dto.ModalityResponse{ID: m.ID, Name: m.Name})
	}
	return responses
}
