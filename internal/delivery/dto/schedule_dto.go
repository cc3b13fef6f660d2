package dto

// Request DTOs

type ScheduleEntryRequest struct {
	Date         string  `json:"date" validate:"required"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	BreakMinutes int     `json:"break_minutes" validate:"gte=0"`
	HoursWorked  float64 `json:"hours_worked" validate:"gte=0"`
	DayType      string  `json:"day_type" validate:"omitempty,oneof=WORKING_DAY EMERGENCY VACATION"`
}

type CreateScheduleRequest struct {
	Schedule []ScheduleEntryRequest `json:"schedule" validate:"required,min=1,dive"`
}

type UpdateScheduleRequest struct {
	Date         string  `json:"date" validate:"required"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	BreakMinutes int     `json:"break_minutes" validate:"gte=0"`
	HoursWorked  float64 `json:"hours_worked" validate:"gte=0"`
}

// Response DTOs

type ScheduleEntryResponse struct {
	ID           int     `json:"id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	HoursWorked  float64 `json:"hours_worked"`
	DayType      string  `json:"day_type"`
}

type ScheduleListResponse struct {
	Schedule []ScheduleEntryResponse `json:"schedule"`
	Total    int                     `json:"total"`
}

// MonthScheduleResponse adds the payroll hour sums the original month
// view reported: hours up to the 15th and for the whole month.
type MonthScheduleResponse struct {
	Schedule        []ScheduleEntryResponse `json:"schedule"`
	HalfMonthHours  float64                 `json:"half_month_hours"`
	TotalMonthHours float64                 `json:"total_month_hours"`
}
