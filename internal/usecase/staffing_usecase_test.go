package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/repository"
	"clinic-staffing/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubPredictor returns a fixed value per study type and records what
// it was asked for.
type stubPredictor struct {
	values map[string]float64
	err    error
	asked  []string
}

func (p *stubPredictor) Forecast(ctx context.Context, studyType string, points []service.WeekPoint) ([]float64, error) {
	p.asked = append(p.asked, studyType)
	if p.err != nil {
		return nil, p.err
	}
	values := make([]float64, len(points))
	for i := range points {
		values[i] = p.values[studyType]
	}
	return values, nil
}

func newTestStaffingUsecase(t *testing.T, db *gorm.DB, predictor service.Predictor) StaffingUsecase {
	t.Helper()
	return NewStaffingUsecase(
		db,
		newTestLogger(),
		nil, // no report cache in tests
		time.Minute,
		repository.NewStudyCountRepository(),
		repository.NewDoctorRepository(),
		predictor,
		time.Second,
	)
}

func seedStudyCount(t *testing.T, db *gorm.DB, year, week int, studyType string, count float64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.StudyCount{
		Year: year, WeekNumber: week, StudyType: studyType, StudyCount: count,
	}).Error)
}

// seedAllStudyCounts records an observation for every study type so the
// predictor is never consulted.
func seedAllStudyCounts(t *testing.T, db *gorm.DB, year, week int, count float64) {
	t.Helper()
	for _, st := range entity.StudyTypes {
		seedStudyCount(t, db, year, week, st.Name, count)
	}
}

func reportFor(t *testing.T, resp *dto.StaffingReportResponse, modality string) dto.ModalityReport {
	t.Helper()
	for _, r := range resp.Reports {
		if r.Modality == modality {
			return r
		}
	}
	t.Fatalf("no report for %s", modality)
	return dto.ModalityReport{}
}

func TestAnalyzeWeekObservedCounts(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	date := mustDate(t, "2024-03-04")
	year, week := date.ISOWeek()
	seedAllStudyCounts(t, db, year, week, 0)

	// Two CT doctors: one by main modality, one by additional
	createTestDoctor(t, db, "ct1@clinic.test", "CT", nil, true)
	createTestDoctor(t, db, "ct2@clinic.test", "MRI", []string{"CT"}, true)

	// 100 CT studies x 15 min = 1500 required vs 2 x 2400 available
	require.NoError(t, db.Where("study_type = ?", "CT").Delete(&entity.StudyCount{}).Error)
	seedStudyCount(t, db, year, week, "CT", 100)

	resp, err := uc.AnalyzeWeek(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, year, resp.Year)
	assert.Equal(t, week, resp.Week)
	require.Len(t, resp.Reports, len(entity.StudyTypes))

	ct := reportFor(t, resp, "CT")
	assert.False(t, ct.Forecast)
	assert.Equal(t, 100.0, ct.StudyCount)
	assert.Equal(t, 1500.0, ct.RequiredMinutes)
	assert.Equal(t, 4800.0, ct.AvailableMinutes)
	assert.Equal(t, 2, ct.DoctorCount)
	assert.True(t, ct.IsEnough)
	assert.Zero(t, ct.Lack)
}

func TestAnalyzeWeekReportsLack(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	date := mustDate(t, "2024-03-04")
	year, week := date.ISOWeek()
	seedAllStudyCounts(t, db, year, week, 0)

	// 200 MRI studies x 30 min = 6000 required, nobody on staff
	require.NoError(t, db.Where("study_type = ?", "MRI").Delete(&entity.StudyCount{}).Error)
	seedStudyCount(t, db, year, week, "MRI", 200)

	resp, err := uc.AnalyzeWeek(context.Background(), date)
	require.NoError(t, err)

	mri := reportFor(t, resp, "MRI")
	assert.False(t, mri.IsEnough)
	assert.Equal(t, 6000.0, mri.RequiredMinutes)
	assert.Zero(t, mri.AvailableMinutes)
	assert.Equal(t, 3, mri.Lack) // ceil(6000 / 2400)
}

func TestAnalyzeWeekForecastsMissingCounts(t *testing.T) {
	db := newTestDB(t)
	predictor := &stubPredictor{values: map[string]float64{"CT": 50}}
	uc := newTestStaffingUsecase(t, db, predictor)

	resp, err := uc.AnalyzeWeek(context.Background(), mustDate(t, "2024-03-04"))
	require.NoError(t, err)

	ct := reportFor(t, resp, "CT")
	assert.True(t, ct.Forecast)
	assert.Equal(t, 50.0, ct.StudyCount)

	// The study type without a model gets the fixed fallback, never a
	// predictor call
	special := reportFor(t, resp, entity.UnforecastStudyType)
	assert.True(t, special.Forecast)
	assert.Equal(t, entity.UnforecastWeeklyCount, special.StudyCount)
	assert.NotContains(t, predictor.asked, entity.UnforecastStudyType)
	assert.Len(t, predictor.asked, len(entity.StudyTypes)-1)
}

func TestAnalyzeWeekSurfacesPredictorFailure(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{err: errors.New("model service down")})

	_, err := uc.AnalyzeWeek(context.Background(), mustDate(t, "2024-03-04"))
	assert.Error(t, err)
}

func TestRecordStudyCount(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	req := &dto.RecordStudyCountRequest{
		Year: 2024, WeekNumber: 10, StudyType: "CT", StudyCount: 120,
	}
	require.NoError(t, uc.RecordStudyCount(context.Background(), req))

	// Same (year, week, type) cannot be recorded twice
	assert.ErrorIs(t, uc.RecordStudyCount(context.Background(), req), ErrStudyCountExists)

	// Unknown study types are rejected before touching the database
	assert.ErrorIs(t, uc.RecordStudyCount(context.Background(), &dto.RecordStudyCountRequest{
		Year: 2024, WeekNumber: 10, StudyType: "Ultrasound", StudyCount: 5,
	}), ErrUnknownStudyType)
}

func TestExportStudyCountsCSV(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	date := mustDate(t, "2024-03-04")
	year, week := date.ISOWeek()
	seedAllStudyCounts(t, db, year, week, 7)

	result, err := uc.ExportStudyCounts(context.Background(), date, 1, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, result.Filename, ".csv")

	records, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, "week", records[0][1])
	assert.Equal(t, entity.StudyTypes[0].Name, records[0][2])
	require.Len(t, records[1], len(entity.StudyTypes)+2)
	assert.Equal(t, "7", records[1][2])
}

func TestExportStudyCountsMultipleWeeks(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{values: map[string]float64{}})

	date := mustDate(t, "2024-03-04")
	year, week := date.ISOWeek()
	seedAllStudyCounts(t, db, year, week, 3)
	seedAllStudyCounts(t, db, year, week+1, 4)

	result, err := uc.ExportStudyCounts(context.Background(), date, 2, "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "3", records[1][2])
	assert.Equal(t, "4", records[2][2])
}

func TestExportStudyCountsXLSX(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	date := mustDate(t, "2024-03-04")
	year, week := date.ISOWeek()
	seedAllStudyCounts(t, db, year, week, 1)

	result, err := uc.ExportStudyCounts(context.Background(), date, 1, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.ContentType)
	assert.Contains(t, result.Filename, ".xlsx")
	assert.NotEmpty(t, result.Data)
}

func TestExportStudyCountsRejectsUnknownFormat(t *testing.T) {
	db := newTestDB(t)
	uc := newTestStaffingUsecase(t, db, &stubPredictor{})

	_, err := uc.ExportStudyCounts(context.Background(), mustDate(t, "2024-03-04"), 1, "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
