package converter

import (
	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
)

func ScheduleEntryToResponse(entry *entity.ScheduleEntry) *dto.ScheduleEntryResponse {
	return &dto.ScheduleEntryResponse{
		ID:           entry.ID,
		Date:         entry.Date.Format("2006-01-02"),
		StartTime:    entry.StartTime,
		EndTime:      entry.EndTime,
		BreakMinutes: entry.BreakMinutes,
		HoursWorked:  entry.HoursWorked,
		DayType:      string(entry.DayType),
	}
}

func ScheduleEntriesToResponses(entries []entity.ScheduleEntry) []dto.ScheduleEntryResponse {
	responses := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *ScheduleEntryToResponse(&entries[i]))
	}
	return responses
}
