package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTicket(t *testing.T, uc TicketUsecase, requester uuid.UUID, ticketType, payload string) uuid.UUID {
	t.Helper()
	resp, err := uc.Create(context.Background(), requester, &dto.CreateTicketRequest{
		Type:    ticketType,
		Payload: json.RawMessage(payload),
	})
	require.NoError(t, err)
	return resp.ID
}

func TestCreateTicketRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", nil, true)

	_, err := uc.Create(context.Background(), doctor.UserID, &dto.CreateTicketRequest{
		Type:    "promote_doctor",
		Payload: json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, entity.ErrUnknownTicketType)
}

func TestCreateTicketRejectsBadPayload(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", nil, true)

	cases := []struct {
		name       string
		ticketType string
		payload    string
	}{
		{"unknown field", "update_doctor", `{"rate": 1.5, "salary": 100}`},
		{"empty update", "update_doctor", `{}`},
		{"bad date", "emergency_request", `{"start_date": "03.01.2024", "end_date": "2024-03-02"}`},
		{"inverted range", "emergency_request", `{"start_date": "2024-03-05", "end_date": "2024-03-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), doctor.UserID, &dto.CreateTicketRequest{
				Type:    tc.ticketType,
				Payload: json.RawMessage(tc.payload),
			})
			assert.ErrorIs(t, err, entity.ErrInvalidPayload)
		})
	}
}

func TestCreateTicketRequiresExistingRequester(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)

	_, err := uc.Create(context.Background(), uuid.New(), &dto.CreateTicketRequest{
		Type:    "delete_doctor",
		Payload: json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApproveDoctorTicket(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "new@clinic.test", "CT", nil, false)

	ticketID := createTicket(t, uc, doctor.UserID, "approve_doctor", `{}`)

	require.NoError(t, uc.Approve(context.Background(), ticketID))

	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", doctor.UserID).Error)
	assert.True(t, user.Approved)

	var updated entity.Doctor
	require.NoError(t, db.First(&updated, "user_id = ?", doctor.UserID).Error)
	assert.Equal(t, entity.DoctorStatusActive, updated.Status)

	var ticket entity.Ticket
	require.NoError(t, db.First(&ticket, "id = ?", ticketID).Error)
	assert.Equal(t, entity.TicketStatusApproved, ticket.Status)

	// A consumed ticket cannot be approved or declined again
	assert.ErrorIs(t, uc.Approve(context.Background(), ticketID), ErrTicketNotPending)
	assert.ErrorIs(t, uc.Decline(context.Background(), ticketID), ErrTicketNotPending)
}

func TestDeclineLeavesDomainUntouched(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "new@clinic.test", "CT", nil, false)

	ticketID := createTicket(t, uc, doctor.UserID, "approve_doctor", `{}`)

	require.NoError(t, uc.Decline(context.Background(), ticketID))

	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", doctor.UserID).Error)
	assert.False(t, user.Approved)

	var updated entity.Doctor
	require.NoError(t, db.First(&updated, "user_id = ?", doctor.UserID).Error)
	assert.Equal(t, entity.DoctorStatusPending, updated.Status)

	var ticket entity.Ticket
	require.NoError(t, db.First(&ticket, "id = ?", ticketID).Error)
	assert.Equal(t, entity.TicketStatusDeclined, ticket.Status)
}

func TestApproveUpdateDoctorPartial(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", []string{"CT"}, true)

	ticketID := createTicket(t, uc, doctor.UserID, "update_doctor", `{"rate": 1.5}`)
	require.NoError(t, uc.Approve(context.Background(), ticketID))

	var updated entity.Doctor
	require.NoError(t, db.Preload("MainModality").Preload("AdditionalModalities").
		First(&updated, "user_id = ?", doctor.UserID).Error)

	assert.Equal(t, 1.5, updated.Rate)
	// Everything not named in the payload is untouched
	assert.Equal(t, "5 years", updated.Experience)
	assert.Equal(t, "MRI", updated.MainModality.Name)
	require.Len(t, updated.AdditionalModalities, 1)
	assert.Equal(t, "CT", updated.AdditionalModalities[0].Name)
}

func TestApproveUpdateDoctorReplacesAdditionalModalities(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", []string{"CT"}, true)

	ticketID := createTicket(t, uc, doctor.UserID, "update_doctor",
		`{"additional_modality": ["X-ray", "Fluorography"]}`)
	require.NoError(t, uc.Approve(context.Background(), ticketID))

	var updated entity.Doctor
	require.NoError(t, db.Preload("AdditionalModalities").First(&updated, "user_id = ?", doctor.UserID).Error)

	names := make([]string, 0, len(updated.AdditionalModalities))
	for _, m := range updated.AdditionalModalities {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"X-ray", "Fluorography"}, names)
}

func TestApproveUpdateDoctorWithoutProfileKeepsTicketPending(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)

	user := &entity.User{
		RoleID: entity.RoleIDHR, Email: "hr@clinic.test",
		Password: "hashed", FullName: "HR", Approved: true,
	}
	require.NoError(t, db.Create(user).Error)

	ticketID := createTicket(t, uc, user.ID, "update_doctor", `{"rate": 2}`)

	assert.ErrorIs(t, uc.Approve(context.Background(), ticketID), ErrDoctorNotFound)

	// The failed apply rolled back, so the ticket can be retried
	var ticket entity.Ticket
	require.NoError(t, db.First(&ticket, "id = ?", ticketID).Error)
	assert.Equal(t, entity.TicketStatusPending, ticket.Status)
}

func TestApproveDeleteDoctorRemovesEverything(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "gone@clinic.test", "CT", []string{"MRI"}, true)

	require.NoError(t, db.Create(&entity.ScheduleEntry{
		DoctorID: doctor.UserID, Date: mustDate(t, "2024-03-01"),
		StartTime: "08:00", EndTime: "17:00", HoursWorked: 8,
		DayType: entity.DayTypeWorking,
	}).Error)

	ticketID := createTicket(t, uc, doctor.UserID, "delete_doctor", `{}`)
	require.NoError(t, uc.Approve(context.Background(), ticketID))

	var doctorCount, userCount, scheduleCount int64
	db.Model(&entity.Doctor{}).Where("user_id = ?", doctor.UserID).Count(&doctorCount)
	db.Model(&entity.User{}).Where("id = ?", doctor.UserID).Count(&userCount)
	db.Model(&entity.ScheduleEntry{}).Where("doctor_id = ?", doctor.UserID).Count(&scheduleCount)
	assert.Zero(t, doctorCount)
	assert.Zero(t, userCount)
	assert.Zero(t, scheduleCount)

	var ticket entity.Ticket
	require.NoError(t, db.First(&ticket, "id = ?", ticketID).Error)
	assert.Equal(t, entity.TicketStatusApproved, ticket.Status)
}

func TestApproveEmergencyRequest(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "er@clinic.test", "CT", nil, true)

	// 2024-03-02 is a working day, 2024-03-03 is vacation, 2024-03-01 is empty
	require.NoError(t, db.Create(&entity.ScheduleEntry{
		DoctorID: doctor.UserID, Date: mustDate(t, "2024-03-02"),
		StartTime: "08:00", EndTime: "17:00", HoursWorked: 8,
		DayType: entity.DayTypeWorking,
	}).Error)
	require.NoError(t, db.Create(&entity.ScheduleEntry{
		DoctorID: doctor.UserID, Date: mustDate(t, "2024-03-03"),
		StartTime: "00:00", EndTime: "00:00", HoursWorked: 0,
		DayType: entity.DayTypeVacation,
	}).Error)

	ticketID := createTicket(t, uc, doctor.UserID, "emergency_request",
		`{"start_date": "2024-03-01", "end_date": "2024-03-03"}`)
	require.NoError(t, uc.Approve(context.Background(), ticketID))

	var entries []entity.ScheduleEntry
	require.NoError(t, db.Where("doctor_id = ?", doctor.UserID).Order("date ASC").Find(&entries).Error)
	require.Len(t, entries, 3)

	// Empty day gets an emergency entry
	assert.Equal(t, entity.DayTypeEmergency, entries[0].DayType)
	assert.Equal(t, "00:00", entries[0].StartTime)
	assert.Equal(t, "23:59", entries[0].EndTime)

	// Working day is converted, hours zeroed
	assert.Equal(t, entity.DayTypeEmergency, entries[1].DayType)
	assert.Zero(t, entries[1].HoursWorked)

	// Vacation is left alone
	assert.Equal(t, entity.DayTypeVacation, entries[2].DayType)
}

func TestApproveMissingTicket(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)

	assert.ErrorIs(t, uc.Approve(context.Background(), uuid.New()), ErrTicketNotFound)
}

func TestDeleteTicket(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", nil, true)

	ticketID := createTicket(t, uc, doctor.UserID, "delete_doctor", `{}`)

	require.NoError(t, uc.Delete(context.Background(), ticketID))
	assert.ErrorIs(t, uc.Delete(context.Background(), ticketID), ErrTicketNotFound)
}

func TestListTickets(t *testing.T) {
	db := newTestDB(t)
	uc := newTestTicketUsecase(t, db)
	doctor := createTestDoctor(t, db, "a@clinic.test", "MRI", nil, true)

	createTicket(t, uc, doctor.UserID, "update_doctor", `{"rate": 1.25}`)
	createTicket(t, uc, doctor.UserID, "emergency_request",
		`{"start_date": "2024-03-01", "end_date": "2024-03-01"}`)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	for _, ticket := range list.Tickets {
		assert.Equal(t, "pending", ticket.Status)
		assert.Equal(t, doctor.User.FullName, ticket.RequesterName)
	}
}
