package dto

// ModalityReport is one line of the weekly adequacy report
type ModalityReport struct {
	Modality         string  `json:"modality"`
	StudyCount       float64 `json:"study_count"`
	Forecast         bool    `json:"forecast"`
	RequiredMinutes  float64 `json:"required_minutes"`
	AvailableMinutes float64 `json:"available_minutes"`
	DoctorCount      int     `json:"doctor_count"`
	IsEnough         bool    `json:"is_enough"`
	Lack             int     `json:"lack"`
}

type StaffingReportResponse struct {
	Year    int              `json:"year"`
	Week    int              `json:"week"`
	Reports []ModalityReport `json:"reports"`
}

// RecordStudyCountRequest records the observed volume of one study type
// for one ISO week.
type RecordStudyCountRequest struct {
	Year       int     `json:"year" validate:"required,gte=2000"`
	WeekNumber int     `json:"week_number" validate:"required,gte=1,lte=53"`
	StudyType  string  `json:"study_type" validate:"required"`
	StudyCount float64 `json:"study_count" validate:"gte=0"`
}

// ExportResult carries a rendered study-count table
type ExportResult struct {
	Data        []byte `json:"-"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}
