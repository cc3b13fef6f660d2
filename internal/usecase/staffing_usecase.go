package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/domain/repository"
	"clinic-staffing/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// DoctorWeekMinutes is the working capacity one doctor contributes to a
// week. A flat figure rather than something derived from schedules; the
// adequacy report is a planning estimate, not payroll.
const DoctorWeekMinutes = 2400.0

var (
	ErrUnknownStudyType  = errors.New("unknown study type")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrStudyCountExists  = errors.New("study count already recorded for this week")
)

type StaffingUsecase interface {
	AnalyzeWeek(ctx context.Context, startDate time.Time) (*dto.StaffingReportResponse, error)
	RecordStudyCount(ctx context.Context, req *dto.RecordStudyCountRequest) error
	ExportStudyCounts(ctx context.Context, startDate time.Time, weeks int, format string) (*dto.ExportResult, error)
}

type staffingUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	cache          *redis.Client
	cacheTTL       time.Duration
	studyCountRepo repository.StudyCountRepository
	doctorRepo     repository.DoctorRepository
	predictor      service.Predictor
	forecastWait   time.Duration
}

func NewStaffingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cache *redis.Client,
	cacheTTL time.Duration,
	studyCountRepo repository.StudyCountRepository,
	doctorRepo repository.DoctorRepository,
	predictor service.Predictor,
	forecastWait time.Duration,
) StaffingUsecase {
	return &staffingUsecase{
		db:             db,
		log:            log,
		cache:          cache,
		cacheTTL:       cacheTTL,
		studyCountRepo: studyCountRepo,
		doctorRepo:     doctorRepo,
		predictor:      predictor,
		forecastWait:   forecastWait,
	}
}

// AnalyzeWeek builds the per-modality adequacy report for the ISO week
// containing startDate. Observed counts win over forecasts; a forecast
// failure fails the whole report rather than silently reporting zeros.
func (u *staffingUsecase) AnalyzeWeek(ctx context.Context, startDate time.Time) (*dto.StaffingReportResponse, error) {
	year, week := startDate.ISOWeek()

	if cached := u.cachedReport(ctx, year, week); cached != nil {
		return cached, nil
	}

	db := u.db.WithContext(ctx)
	reports := make([]dto.ModalityReport, 0, len(entity.StudyTypes))

	for _, st := range entity.StudyTypes {
		count, forecast, err := u.weekCount(ctx, db, year, week, st.Name)
		if err != nil {
			return nil, err
		}

		doctors, err := u.doctorRepo.CountByModality(db, st.Name)
		if err != nil {
			u.log.Warnf("Failed to count doctors for %s: %+v", st.Name, err)
			return nil, err
		}

		required := count * float64(st.Minutes)
		available := float64(doctors) * DoctorWeekMinutes

		report := dto.ModalityReport{
			Modality:         st.Name,
			StudyCount:       count,
			Forecast:         forecast,
			RequiredMinutes:  required,
			AvailableMinutes: available,
			DoctorCount:      int(doctors),
			IsEnough:         available >= required,
		}
		if available < required {
			report.Lack = int(math.Ceil((required - available) / DoctorWeekMinutes))
		}
		reports = append(reports, report)
	}

	response := &dto.StaffingReportResponse{
		Year:    year,
		Week:    week,
		Reports: reports,
	}
	u.storeReport(ctx, year, week, response)
	return response, nil
}

// RecordStudyCount stores an observed weekly volume. Once recorded, the
// analyzer prefers it over the forecast for that week.
func (u *staffingUsecase) RecordStudyCount(ctx context.Context, req *dto.RecordStudyCountRequest) error {
	if !isKnownStudyType(req.StudyType) {
		return fmt.Errorf("%w: %q", ErrUnknownStudyType, req.StudyType)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	count := &entity.StudyCount{
		Year:       req.Year,
		WeekNumber: req.WeekNumber,
		StudyType:  req.StudyType,
		StudyCount: req.StudyCount,
	}
	if err := u.studyCountRepo.Create(tx, count); err != nil {
		if isDuplicateKeyError(err) {
			return ErrStudyCountExists
		}
		u.log.Warnf("Failed to record study count: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.invalidateReport(ctx, req.Year, req.WeekNumber)
	return nil
}

// ExportStudyCounts renders the week-by-modality count table, one row
// per ISO week starting at startDate, in CSV or XLSX.
func (u *staffingUsecase) ExportStudyCounts(ctx context.Context, startDate time.Time, weeks int, format string) (*dto.ExportResult, error) {
	if weeks < 1 {
		weeks = 1
	}

	db := u.db.WithContext(ctx)

	type weekRow struct {
		year   int
		week   int
		counts []float64
	}
	rows := make([]weekRow, 0, weeks)

	for i := 0; i < weeks; i++ {
		date := startDate.AddDate(0, 0, 7*i)
		year, week := date.ISOWeek()

		row := weekRow{year: year, week: week, counts: make([]float64, 0, len(entity.StudyTypes))}
		for _, st := range entity.StudyTypes {
			count, _, err := u.weekCount(ctx, db, year, week, st.Name)
			if err != nil {
				return nil, err
			}
			row.counts = append(row.counts, count)
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(entity.StudyTypes)+2)
	header = append(header, "year", "week")
	for _, st := range entity.StudyTypes {
		header = append(header, st.Name)
	}

	startYear, startWeek := startDate.ISOWeek()

	switch format {
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, row := range rows {
			record := make([]string, 0, len(header))
			record = append(record, strconv.Itoa(row.year), strconv.Itoa(row.week))
			for _, c := range row.counts {
				record = append(record, strconv.FormatFloat(c, 'f', -1, 64))
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return &dto.ExportResult{
			Data:        buf.Bytes(),
			Filename:    fmt.Sprintf("study_counts_%d_w%02d.csv", startYear, startWeek),
			ContentType: "text/csv",
		}, nil

	case "xlsx":
		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for col, title := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return nil, err
			}
		}
		for r, row := range rows {
			values := make([]interface{}, 0, len(header))
			values = append(values, row.year, row.week)
			for _, c := range row.counts {
				values = append(values, c)
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return nil, err
		}
		return &dto.ExportResult{
			Data:        buf.Bytes(),
			Filename:    fmt.Sprintf("study_counts_%d_w%02d.xlsx", startYear, startWeek),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// weekCount resolves one (week, study type) volume: the observed count
// when recorded, otherwise a forecast, otherwise the fixed fallback for
// the study type no model covers.
func (u *staffingUsecase) weekCount(ctx context.Context, db *gorm.DB, year, week int, studyType string) (float64, bool, error) {
	observed, err := u.studyCountRepo.FindByWeek(db, year, week, studyType)
	if err != nil {
		u.log.Warnf("Failed to look up study count: %+v", err)
		return 0, false, err
	}
	if observed != nil {
		return observed.StudyCount, false, nil
	}

	if studyType == entity.UnforecastStudyType {
		return entity.UnforecastWeeklyCount, true, nil
	}

	forecastCtx, cancel := context.WithTimeout(ctx, u.forecastWait)
	defer cancel()

	values, err := u.predictor.Forecast(forecastCtx, studyType, []service.WeekPoint{{Year: year, Week: week}})
	if err != nil {
		u.log.Warnf("Forecast failed for %s: %+v", studyType, err)
		return 0, false, err
	}
	return values[0], true, nil
}

func (u *staffingUsecase) cachedReport(ctx context.Context, year, week int) *dto.StaffingReportResponse {
	if u.cache == nil {
		return nil
	}
	raw, err := u.cache.Get(ctx, reportCacheKey(year, week)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			u.log.Warnf("Failed to read report cache: %+v", err)
		}
		return nil
	}
	var response dto.StaffingReportResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		u.log.Warnf("Failed to decode cached report: %+v", err)
		return nil
	}
	return &response
}

func (u *staffingUsecase) storeReport(ctx context.Context, year, week int, response *dto.StaffingReportResponse) {
	if u.cache == nil {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := u.cache.Set(ctx, reportCacheKey(year, week), raw, u.cacheTTL).Err(); err != nil {
		u.log.Warnf("Failed to cache report: %+v", err)
	}
}

func (u *staffingUsecase) invalidateReport(ctx context.Context, year, week int) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, reportCacheKey(year, week)).Err(); err != nil {
		u.log.Warnf("Failed to invalidate report cache: %+v", err)
	}
}

func reportCacheKey(year, week int) string {
	return fmt.Sprintf("staffing:report:%d:%d", year, week)
}

func isKnownStudyType(name string) bool {
	for _, st := range entity.StudyTypes {
		if st.Name == name {
			return true
		}
	}
	return false
}
