package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-staffing/internal/converter"
	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/domain/repository"
	"clinic-staffing/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleEntryNotFound = errors.New("schedule entry not found")
	ErrBadDate               = errors.New("date must be formatted as YYYY-MM-DD")
)

type ScheduleUsecase interface {
	// Save upserts a batch of entries for one doctor; one entry per
	// calendar day, later writes replace earlier ones.
	Save(ctx context.Context, doctorID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleListResponse, error)
	UpdateEntry(ctx context.Context, doctorID uuid.UUID, entryID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleEntryResponse, error)
	DeleteEntry(ctx context.Context, doctorID uuid.UUID, entryID int) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error)
	MonthView(ctx context.Context, doctorID uuid.UUID, year, month int) (*dto.MonthScheduleResponse, error)
}

type scheduleUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	scheduleRepo repository.ScheduleRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.ScheduleRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:           db,
		log:          log,
		scheduleRepo: scheduleRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *scheduleUsecase) Save(ctx context.Context, doctorID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleListResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	for _, item := range req.Schedule {
		date, err := parseDate(item.Date)
		if err != nil {
			return nil, err
		}

		dayType := entity.DayType(item.DayType)
		if dayType == "" {
			dayType = entity.DayTypeWorking
		}

		entry := &entity.ScheduleEntry{
			DoctorID:     doctorID,
			Date:         date,
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
			BreakMinutes: item.BreakMinutes,
			HoursWorked:  item.HoursWorked,
			DayType:      dayType,
		}
		if err := u.scheduleRepo.Upsert(tx, entry); err != nil {
			u.log.Warnf("Failed to upsert schedule entry: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionScheduleCreate, entity.JSON{
		"doctor_id": doctorID.String(),
		"entries":   len(req.Schedule),
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.ListByDoctor(ctx, doctorID)
}

func (u *scheduleUsecase) UpdateEntry(ctx context.Context, doctorID uuid.UUID, entryID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleEntryResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	entry, err := u.scheduleRepo.FindByID(tx, entryID)
	if err != nil {
		u.log.Warnf("Failed to find schedule entry: %+v", err)
		return nil, err
	}
	if entry == nil || entry.DoctorID != doctorID {
		return nil, ErrScheduleEntryNotFound
	}

	entry.Date = date
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.BreakMinutes = req.BreakMinutes
	entry.HoursWorked = req.HoursWorked

	if err := u.scheduleRepo.Update(tx, entry); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("an entry already exists for %s", req.Date)
		}
		u.log.Warnf("Failed to update schedule entry: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionScheduleUpdate, entity.JSON{
		"doctor_id": doctorID.String(),
		"entry_id":  entryID,
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ScheduleEntryToResponse(entry), nil
}

func (u *scheduleUsecase) DeleteEntry(ctx context.Context, doctorID uuid.UUID, entryID int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	entry, err := u.scheduleRepo.FindByID(tx, entryID)
	if err != nil {
		u.log.Warnf("Failed to find schedule entry: %+v", err)
		return err
	}
	if entry == nil || entry.DoctorID != doctorID {
		return ErrScheduleEntryNotFound
	}

	rows, err := u.scheduleRepo.Delete(tx, entryID)
	if err != nil {
		u.log.Warnf("Failed to delete schedule entry: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrScheduleEntryNotFound
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionScheduleDelete, entity.JSON{
		"doctor_id": doctorID.String(),
		"entry_id":  entryID,
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *scheduleUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error) {
	entries, err := u.scheduleRepo.FindByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list schedule: %+v", err)
		return nil, err
	}

	responses := converter.ScheduleEntriesToResponses(entries)
	return &dto.ScheduleListResponse{
		Schedule: responses,
		Total:    len(responses),
	}, nil
}

// MonthView returns one month of entries with the payroll sums: hours
// worked through the 15th and for the whole month.
func (u *scheduleUsecase) MonthView(ctx context.Context, doctorID uuid.UUID, year, month int) (*dto.MonthScheduleResponse, error) {
	entries, err := u.scheduleRepo.FindByDoctorMonth(u.db.WithContext(ctx), doctorID, year, month)
	if err != nil {
		u.log.Warnf("Failed to list month schedule: %+v", err)
		return nil, err
	}

	var halfMonth, total float64
	for _, entry := range entries {
		total += entry.HoursWorked
		if entry.Date.Day() <= 15 {
			halfMonth += entry.HoursWorked
		}
	}

	return &dto.MonthScheduleResponse{
		Schedule:        converter.ScheduleEntriesToResponses(entries),
		HalfMonthHours:  halfMonth,
		TotalMonthHours: total,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, value)
	}
	return date, nil
}
