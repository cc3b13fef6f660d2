package usecase

import (
	"io"
	"testing"
	"time"

	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/repository"
	"clinic-staffing/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory DB
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Modality{},
		&entity.Doctor{},
		&entity.ScheduleEntry{},
		&entity.Ticket{},
		&entity.StudyCount{},
		&entity.AuditLog{},
	))

	roles := []entity.Role{
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor},
		{ID: entity.RoleIDHR, RoleName: entity.RoleHR},
		{ID: entity.RoleIDManager, RoleName: entity.RoleManager},
	}
	require.NoError(t, db.Create(&roles).Error)

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAuditService(log *logrus.Logger) service.AuditService {
	return service.NewAuditService(log, repository.NewAuditLogRepository())
}

func newTestTicketUsecase(t *testing.T, db *gorm.DB) TicketUsecase {
	t.Helper()
	log := newTestLogger()
	return NewTicketUsecase(
		db,
		log,
		repository.NewTicketRepository(),
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		repository.NewModalityRepository(),
		repository.NewScheduleRepository(),
		newTestAuditService(log),
		service.NewLogNotifier(log),
	)
}

// createTestDoctor seeds a user plus doctor profile with the given
// modalities, bypassing the ticket flow.
func createTestDoctor(t *testing.T, db *gorm.DB, email, mainModality string, extraModalities []string, approved bool) *entity.Doctor {
	t.Helper()

	modalityRepo := repository.NewModalityRepository()

	user := &entity.User{
		RoleID:   entity.RoleIDDoctor,
		Email:    email,
		Password: "hashed",
		FullName: "Dr. " + email,
		Approved: approved,
	}
	require.NoError(t, db.Create(user).Error)

	main, err := modalityRepo.GetOrCreate(db, mainModality)
	require.NoError(t, err)

	status := entity.DoctorStatusPending
	if approved {
		status = entity.DoctorStatusActive
	}

	doctor := &entity.Doctor{
		UserID:         user.ID,
		Experience:     "5 years",
		MainModalityID: main.ID,
		Gender:         "female",
		Rate:           1.0,
		Status:         status,
		Phone:          "+70000000000",
	}
	require.NoError(t, db.Omit("User", "MainModality", "AdditionalModalities", "Schedule").Create(doctor).Error)

	if len(extraModalities) > 0 {
		extras := make([]entity.Modality, 0, len(extraModalities))
		for _, name := range extraModalities {
			m, err := modalityRepo.GetOrCreate(db, name)
			require.NoError(t, err)
			extras = append(extras, *m)
		}
		require.NoError(t, db.Model(doctor).Association("AdditionalModalities").Replace(extras))
	}

	doctor.User = *user
	return doctor
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}
