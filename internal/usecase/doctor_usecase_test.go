package usecase

import (
	"context"
	"testing"

	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/repository"
	"clinic-staffing/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDoctorUsecase(t *testing.T, db *gorm.DB) DoctorUsecase {
	t.Helper()
	log := newTestLogger()
	return NewDoctorUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		repository.NewModalityRepository(),
		repository.NewTicketRepository(),
		repository.NewRoleRepository(),
		newTestAuditService(log),
		service.NewLogNotifier(log),
	)
}

func createDoctorRequest(email string) *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		Email:              email,
		FullName:           "Anna Petrova",
		Experience:         "7 years",
		MainModality:       "CT",
		AdditionalModality: []string{"MRI"},
		Gender:             "female",
		Rate:               1.0,
		Phone:              "+79990001122",
	}
}

func TestCreateDoctorFilesApprovalTicket(t *testing.T) {
	db := newTestDB(t)
	uc := newTestDoctorUsecase(t, db)

	resp, err := uc.Create(context.Background(), createDoctorRequest("new@clinic.test"), false)
	require.NoError(t, err)
	assert.False(t, resp.Approved)
	assert.Equal(t, entity.DoctorStatusPending, resp.Status)
	assert.Equal(t, "CT", resp.MainModality)
	assert.ElementsMatch(t, []string{"MRI"}, resp.AdditionalModality)

	var ticket entity.Ticket
	require.NoError(t, db.First(&ticket, "user_id = ?", resp.ID).Error)
	assert.Equal(t, entity.TicketTypeApproveDoctor, ticket.Type)
	assert.Equal(t, entity.TicketStatusPending, ticket.Status)

	var user entity.User
	require.NoError(t, db.First(&user, "id = ?", resp.ID).Error)
	assert.False(t, user.Approved)
	assert.NotEmpty(t, user.Password)
}

func TestCreateDoctorPreApproved(t *testing.T) {
	db := newTestDB(t)
	uc := newTestDoctorUsecase(t, db)

	resp, err := uc.Create(context.Background(), createDoctorRequest("boss@clinic.test"), true)
	require.NoError(t, err)
	assert.True(t, resp.Approved)
	assert.Equal(t, entity.DoctorStatusActive, resp.Status)

	// Pre-approved accounts need no ticket
	var count int64
	require.NoError(t, db.Model(&entity.Ticket{}).Where("user_id = ?", resp.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateDoctorRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	uc := newTestDoctorUsecase(t, db)

	_, err := uc.Create(context.Background(), createDoctorRequest("dup@clinic.test"), true)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), createDoctorRequest("dup@clinic.test"), true)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetDoctor(t *testing.T) {
	db := newTestDB(t)
	uc := newTestDoctorUsecase(t, db)
	doctor := createTestDoctor(t, db, "get@clinic.test", "MRI", []string{"CT"}, true)

	resp, err := uc.Get(context.Background(), doctor.UserID)
	require.NoError(t, err)
	assert.Equal(t, doctor.UserID, resp.ID)
	assert.Equal(t, "MRI", resp.MainModality)

	_, err = uc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListDoctorsAndModalities(t *testing.T) {
	db := newTestDB(t)
	uc := newTestDoctorUsecase(t, db)
	createTestDoctor(t, db, "a@clinic.test", "CT", nil, true)
	createTestDoctor(t, db, "b@clinic.test", "MRI", []string{"X-ray"}, true)

	doctors, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doctors.Total)

	modalities, err := uc.ListModalities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, modalities.Total)
}
