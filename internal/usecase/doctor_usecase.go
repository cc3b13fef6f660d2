package usecase

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"clinic-staffing/internal/converter"
	"clinic-staffing/internal/delivery/dto"
	"clinic-staffing/internal/domain/entity"
	"clinic-staffing/internal/domain/repository"
	"clinic-staffing/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
)

type DoctorUsecase interface {
	// Create registers a doctor profile. When preApproved is false the
	// account stays unapproved and an approve_doctor ticket is filed for
	// a manager to act on.
	Create(ctx context.Context, req *dto.CreateDoctorRequest, preApproved bool) (*dto.DoctorResponse, error)
	Get(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	List(ctx context.Context) (*dto.DoctorListResponse, error)
	ListModalities(ctx context.Context) (*dto.ModalityListResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	modalityRepo repository.ModalityRepository
	ticketRepo   repository.TicketRepository
	roleRepo     repository.RoleRepository
	auditService service.AuditService
	notifier     service.Notifier
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	modalityRepo repository.ModalityRepository,
	ticketRepo repository.TicketRepository,
	roleRepo repository.RoleRepository,
	auditService service.AuditService,
	notifier service.Notifier,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		modalityRepo: modalityRepo,
		ticketRepo:   ticketRepo,
		roleRepo:     roleRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest, preApproved bool) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	role, err := u.roleRepo.FindByName(tx, entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to find doctor role: %+v", err)
		return nil, err
	}

	password, err := generatePassword(12)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		RoleID:   role.ID,
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
		Approved: preApproved,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	mainModality, err := u.modalityRepo.GetOrCreate(tx, req.MainModality)
	if err != nil {
		u.log.Warnf("Failed to resolve main modality: %+v", err)
		return nil, err
	}

	status := entity.DoctorStatusPending
	if preApproved {
		status = entity.DoctorStatusActive
	}

	doctor := &entity.Doctor{
		UserID:         user.ID,
		Experience:     req.Experience,
		MainModalityID: mainModality.ID,
		Gender:         req.Gender,
		Rate:           req.Rate,
		Status:         status,
		Phone:          req.Phone,
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	additional := make([]entity.Modality, 0, len(req.AdditionalModality))
	for _, name := range req.AdditionalModality {
		modality, err := u.modalityRepo.GetOrCreate(tx, name)
		if err != nil {
			u.log.Warnf("Failed to resolve modality: %+v", err)
			return nil, err
		}
		additional = append(additional, *modality)
	}
	if len(additional) > 0 {
		if err := u.doctorRepo.ReplaceAdditionalModalities(tx, doctor, additional); err != nil {
			u.log.Warnf("Failed to attach additional modalities: %+v", err)
			return nil, err
		}
	}

	if !preApproved {
		payload, err := json.Marshal(&entity.ApproveDoctorPayload{})
		if err != nil {
			return nil, err
		}
		ticket := &entity.Ticket{
			UserID:  &user.ID,
			Type:    entity.TicketTypeApproveDoctor,
			Payload: entity.RawJSON(payload),
			Status:  entity.TicketStatusPending,
		}
		if err := u.ticketRepo.Create(tx, ticket); err != nil {
			u.log.Warnf("Failed to create approval ticket: %+v", err)
			return nil, err
		}
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionDoctorCreate, entity.JSON{
		"doctor_id": user.ID.String(),
		"email":     req.Email,
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.sendCredentials(ctx, user, password)

	doctor.User = *user
	doctor.MainModality = *mainModality
	doctor.AdditionalModalities = additional
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Get(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) List(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	responses := converter.DoctorsToResponses(doctors)
	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}, nil
}

func (u *doctorUsecase) ListModalities(ctx context.Context) (*dto.ModalityListResponse, error) {
	modalities, err := u.modalityRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list modalities: %+v", err)
		return nil, err
	}

	responses := converter.ModalitiesToResponses(modalities)
	return &dto.ModalityListResponse{
		Modalities: responses,
		Total:      len(responses),
	}, nil
}

// sendCredentials mails the generated password after commit; the
// account exists either way, so failures are only logged.
func (u *doctorUsecase) sendCredentials(ctx context.Context, user *entity.User, password string) {
	body := fmt.Sprintf("Hello %s,\n\nan account has been created for you.\nLogin: %s\nPassword: %s\n\nPlease change the password after your first login.\n",
		user.FullName, user.Email, password)
	if err := u.notifier.Notify(ctx, user.Email, "Your clinic account", body); err != nil {
		u.log.Warnf("Failed to send credentials to %s: %+v", user.Email, err)
	}
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
