package usecase

import (
	"context"
	"testing"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestScheduleUsecase(t *testing.T, db *gorm.DB) ScheduleUsecase {
	t.Helper()
	log := newTestLogger()
	return NewScheduleUsecase(
		db,
		log,
		repository.NewScheduleRepository(),
		repository.NewDoctorRepository(),
		newTestAuditService(log),
	)
}

func TestSaveScheduleUpsertsByDate(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)
	doctor := createTestDoctor(t, db, "sched@clinic.test", "CT", nil, true)

	_, err := uc.Save(context.Background(), doctor.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-01", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
			{Date: "2024-03-02", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
		},
	})
	require.NoError(t, err)

	// A second save for the same date replaces the first entry
	list, err := uc.Save(context.Background(), doctor.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-01", StartTime: "10:00", EndTime: "14:00", HoursWorked: 4},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)

	assert.Equal(t, "10:00", list.Schedule[0].StartTime)
	assert.Equal(t, 4.0, list.Schedule[0].HoursWorked)
	assert.Equal(t, entity.DayTypeWorking, entity.DayType(list.Schedule[0].DayType))
}

func TestSaveScheduleRejectsBadDate(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)
	doctor := createTestDoctor(t, db, "sched@clinic.test", "CT", nil, true)

	_, err := uc.Save(context.Background(), doctor.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "01.03.2024", StartTime: "08:00", EndTime: "16:00"},
		},
	})
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestSaveScheduleUnknownDoctor(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)

	_, err := uc.Save(context.Background(), uuid.New(), &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-01", StartTime: "08:00", EndTime: "16:00"},
		},
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdateEntryOwnership(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)
	owner := createTestDoctor(t, db, "owner@clinic.test", "CT", nil, true)
	other := createTestDoctor(t, db, "other@clinic.test", "MRI", nil, true)

	list, err := uc.Save(context.Background(), owner.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-01", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
		},
	})
	require.NoError(t, err)
	entryID := list.Schedule[0].ID

	update := &dto.UpdateScheduleRequest{
		Date: "2024-03-01", StartTime: "09:00", EndTime: "17:00", HoursWorked: 8,
	}

	// Another doctor cannot touch the entry
	_, err = uc.UpdateEntry(context.Background(), other.UserID, entryID, update)
	assert.ErrorIs(t, err, ErrScheduleEntryNotFound)

	updated, err := uc.UpdateEntry(context.Background(), owner.UserID, entryID, update)
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.StartTime)
}

func TestDeleteEntry(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)
	doctor := createTestDoctor(t, db, "sched@clinic.test", "CT", nil, true)

	list, err := uc.Save(context.Background(), doctor.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-01", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
		},
	})
	require.NoError(t, err)
	entryID := list.Schedule[0].ID

	require.NoError(t, uc.DeleteEntry(context.Background(), doctor.UserID, entryID))
	assert.ErrorIs(t, uc.DeleteEntry(context.Background(), doctor.UserID, entryID), ErrScheduleEntryNotFound)

	list, err = uc.ListByDoctor(context.Background(), doctor.UserID)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestMonthViewSumsHours(t *testing.T) {
	db := newTestDB(t)
	uc := newTestScheduleUsecase(t, db)
	doctor := createTestDoctor(t, db, "sched@clinic.test", "CT", nil, true)

	_, err := uc.Save(context.Background(), doctor.UserID, &dto.CreateScheduleRequest{
		Schedule: []dto.ScheduleEntryRequest{
			{Date: "2024-03-10", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
			{Date: "2024-03-20", StartTime: "08:00", EndTime: "13:00", HoursWorked: 5},
			{Date: "2024-04-01", StartTime: "08:00", EndTime: "16:00", HoursWorked: 8},
		},
	})
	require.NoError(t, err)

	view, err := uc.MonthView(context.Background(), doctor.UserID, 2024, 3)
	require.NoError(t, err)

	require.Len(t, view.Schedule, 2)
	assert.Equal(t, 8.0, view.HalfMonthHours)
	assert.Equal(t, 13.0, view.TotalMonthHours)
}
