package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrTicketNotPending = errors.New("ticket is not pending")
	ErrRequesterMissing = errors.New("ticket requires a requesting user")
)

type TicketUsecase interface {
	Create(ctx context.Context, requesterID uuid.UUID, req *dto.CreateTicketRequest) (*dto.CreateTicketResponse, error)
	Approve(ctx context.Context, ticketID uuid.UUID) error
	Decline(ctx context.Context, ticketID uuid.UUID) error
	Delete(ctx context.Context, ticketID uuid.UUID) error
	List(ctx context.Context) (*dto.TicketListResponse, error)
}

type ticketUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ticketRepo   repository.TicketRepository
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	modalityRepo repository.ModalityRepository
	scheduleRepo repository.ScheduleRepository
	auditService service.AuditService
	notifier     service.Notifier
}

func NewTicketUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	modalityRepo repository.ModalityRepository,
	scheduleRepo repository.ScheduleRepository,
	auditService service.AuditService,
	notifier service.Notifier,
) TicketUsecase {
	return &ticketUsecase{
		db:           db,
		log:          log,
		ticketRepo:   ticketRepo,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		modalityRepo: modalityRepo,
		scheduleRepo: scheduleRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

// Create validates the payload against the schema of the requested
// type and files a pending ticket. Nothing in the doctor roster or the
// schedules changes until a manager approves.
func (u *ticketUsecase) Create(ctx context.Context, requesterID uuid.UUID, req *dto.CreateTicketRequest) (*dto.CreateTicketResponse, error) {
	if requesterID == uuid.Nil {
		return nil, ErrRequesterMissing
	}

	payload, err := entity.ParseTicketPayload(entity.TicketType(req.Type), req.Payload)
	if err != nil {
		return nil, err
	}

	// Canonical re-encoding so the stored document is exactly the
	// validated shape.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	requester, err := u.userRepo.FindByID(tx, requesterID)
	if err != nil {
		u.log.Warnf("Failed to find requester: %+v", err)
		return nil, err
	}
	if requester == nil {
		return nil, ErrUserNotFound
	}

	ticket := &entity.Ticket{
		UserID:  &requesterID,
		Type:    entity.TicketType(req.Type),
		Payload: entity.RawJSON(raw),
		Status:  entity.TicketStatusPending,
	}

	if err := u.ticketRepo.Create(tx, ticket); err != nil {
		u.log.Warnf("Failed to create ticket: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &requesterID, entity.AuditActionTicketCreate, entity.JSON{
		"ticket_id":   ticket.ID.String(),
		"ticket_type": req.Type,
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.CreateTicketResponse{ID: ticket.ID}, nil
}

// Approve consumes a pending ticket and applies its change. The whole
// dispatch runs inside one transaction: any failure rolls everything
// back and the ticket stays pending, so a retry is always safe.
func (u *ticketUsecase) Approve(ctx context.Context, ticketID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ticket, err := u.ticketRepo.FindByID(tx, ticketID)
	if err != nil {
		u.log.Warnf("Failed to find ticket: %+v", err)
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	if !ticket.IsPending() {
		return ErrTicketNotPending
	}

	switch ticket.Type {
	case entity.TicketTypeApproveDoctor:
		err = u.applyApproveDoctor(tx, ticket)
	case entity.TicketTypeUpdateDoctor:
		err = u.applyUpdateDoctor(tx, ticket)
	case entity.TicketTypeDeleteDoctor:
		err = u.applyDeleteDoctor(tx, ticket)
	case entity.TicketTypeEmergencyRequest:
		err = u.applyEmergencyRequest(tx, ticket)
	default:
		err = fmt.Errorf("%w: %q", entity.ErrUnknownTicketType, ticket.Type)
	}
	if err != nil {
		return err
	}

	rows, err := u.ticketRepo.UpdateStatusIfPending(tx, ticketID, entity.TicketStatusApproved)
	if err != nil {
		u.log.Warnf("Failed to update ticket status: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrTicketNotPending
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionTicketApprove, entity.JSON{
		"ticket_id":   ticket.ID.String(),
		"ticket_type": string(ticket.Type),
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notifyDecision(ctx, ticket, "approved")
	return nil
}

// Decline marks a pending ticket declined. No domain state changes.
func (u *ticketUsecase) Decline(ctx context.Context, ticketID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ticket, err := u.ticketRepo.FindByID(tx, ticketID)
	if err != nil {
		u.log.Warnf("Failed to find ticket: %+v", err)
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}
	if !ticket.IsPending() {
		return ErrTicketNotPending
	}

	rows, err := u.ticketRepo.UpdateStatusIfPending(tx, ticketID, entity.TicketStatusDeclined)
	if err != nil {
		u.log.Warnf("Failed to update ticket status: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrTicketNotPending
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionTicketDecline, entity.JSON{
		"ticket_id":   ticket.ID.String(),
		"ticket_type": string(ticket.Type),
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.notifyDecision(ctx, ticket, "declined")
	return nil
}

// Delete removes a ticket record regardless of status; administrative
// cleanup only.
func (u *ticketUsecase) Delete(ctx context.Context, ticketID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.ticketRepo.Delete(tx, ticketID)
	if err != nil {
		u.log.Warnf("Failed to delete ticket: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrTicketNotFound
	}

	if err := u.auditService.Record(tx, actorFromContext(ctx), entity.AuditActionTicketDelete, entity.JSON{
		"ticket_id": ticketID.String(),
	}); err != nil {
		u.log.Warnf("Failed to record audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *ticketUsecase) List(ctx context.Context) (*dto.TicketListResponse, error) {
	tickets, err := u.ticketRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list tickets: %+v", err)
		return nil, err
	}

	responses := converter.TicketsToResponses(tickets)
	return &dto.TicketListResponse{
		Tickets: responses,
		Total:   len(responses),
	}, nil
}

func (u *ticketUsecase) applyApproveDoctor(tx *gorm.DB, ticket *entity.Ticket) error {
	if ticket.UserID == nil {
		return ErrRequesterMissing
	}

	user, err := u.userRepo.FindByID(tx, *ticket.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Approved = true
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to approve user: %+v", err)
		return err
	}

	doctor, err := u.doctorRepo.FindByUserID(tx, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor != nil {
		doctor.Status = entity.DoctorStatusActive
		if err := u.doctorRepo.Update(tx, doctor); err != nil {
			u.log.Warnf("Failed to activate doctor: %+v", err)
			return err
		}
	}
	return nil
}

func (u *ticketUsecase) applyUpdateDoctor(tx *gorm.DB, ticket *entity.Ticket) error {
	if ticket.UserID == nil {
		return ErrRequesterMissing
	}

	payload, err := entity.ParseTicketPayload(ticket.Type, []byte(ticket.Payload))
	if err != nil {
		return err
	}
	update := payload.(*entity.UpdateDoctorPayload)

	doctor, err := u.doctorRepo.FindByUserID(tx, *ticket.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if update.Experience != nil {
		doctor.Experience = *update.Experience
	}
	if update.Gender != nil {
		doctor.Gender = *update.Gender
	}
	if update.Rate != nil {
		doctor.Rate = *update.Rate
	}
	if update.Status != nil {
		doctor.Status = *update.Status
	}
	if update.Phone != nil {
		doctor.Phone = *update.Phone
	}
	if update.MainModality != nil {
		modality, err := u.modalityRepo.GetOrCreate(tx, *update.MainModality)
		if err != nil {
			u.log.Warnf("Failed to resolve modality: %+v", err)
			return err
		}
		doctor.MainModalityID = modality.ID
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return err
	}

	// The additional set is replaced wholesale, never merged.
	if update.AdditionalModalities != nil {
		modalities := make([]entity.Modality, 0, len(*update.AdditionalModalities))
		for _, name := range *update.AdditionalModalities {
			modality, err := u.modalityRepo.GetOrCreate(tx, name)
			if err != nil {
				u.log.Warnf("Failed to resolve modality: %+v", err)
				return err
			}
			modalities = append(modalities, *modality)
		}
		if err := u.doctorRepo.ReplaceAdditionalModalities(tx, doctor, modalities); err != nil {
			u.log.Warnf("Failed to replace additional modalities: %+v", err)
			return err
		}
	}
	return nil
}

func (u *ticketUsecase) applyDeleteDoctor(tx *gorm.DB, ticket *entity.Ticket) error {
	if ticket.UserID == nil {
		return ErrRequesterMissing
	}

	doctor, err := u.doctorRepo.FindByUserID(tx, *ticket.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.scheduleRepo.DeleteByDoctor(tx, doctor.UserID); err != nil {
		u.log.Warnf("Failed to delete schedule entries: %+v", err)
		return err
	}
	if err := u.doctorRepo.ReplaceAdditionalModalities(tx, doctor, []entity.Modality{}); err != nil {
		u.log.Warnf("Failed to clear modality links: %+v", err)
		return err
	}
	if err := u.doctorRepo.Delete(tx, doctor.UserID); err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if err := u.userRepo.Delete(tx, doctor.UserID); err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}
	return nil
}

func (u *ticketUsecase) applyEmergencyRequest(tx *gorm.DB, ticket *entity.Ticket) error {
	if ticket.UserID == nil {
		return ErrRequesterMissing
	}

	payload, err := entity.ParseTicketPayload(ticket.Type, []byte(ticket.Payload))
	if err != nil {
		return err
	}
	request := payload.(*entity.EmergencyRequestPayload)

	start, end, err := request.Dates()
	if err != nil {
		return err
	}

	doctor, err := u.doctorRepo.FindByUserID(tx, *ticket.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		existing, err := u.scheduleRepo.FindByDoctorDate(tx, doctor.UserID, date)
		if err != nil {
			u.log.Warnf("Failed to look up schedule entry: %+v", err)
			return err
		}
		// Only working days are converted; vacation and prior emergency
		// entries stay as they are.
		if existing != nil && existing.DayType != entity.DayTypeWorking {
			continue
		}

		entry := &entity.ScheduleEntry{
			DoctorID:     doctor.UserID,
			Date:         date,
			StartTime:    "00:00",
			EndTime:      "23:59",
			BreakMinutes: 0,
			HoursWorked:  0,
			DayType:      entity.DayTypeEmergency,
		}
		if err := u.scheduleRepo.Upsert(tx, entry); err != nil {
			u.log.Warnf("Failed to write emergency entry: %+v", err)
			return err
		}
	}
	return nil
}

// notifyDecision mails the requester after the transaction committed.
// Delivery failure must not undo the decision, so it is only logged.
func (u *ticketUsecase) notifyDecision(ctx context.Context, ticket *entity.Ticket, decision string) {
	if ticket.User == nil || ticket.User.Email == "" {
		return
	}
	subject := fmt.Sprintf("Your %s request was %s", ticket.Type, decision)
	body := fmt.Sprintf("Hello %s,\n\nyour request %s of type %s has been %s.\n",
		ticket.User.FullName, ticket.ID, ticket.Type, decision)
	if err := u.notifier.Notify(ctx, ticket.User.Email, subject, body); err != nil {
		u.log.Warnf("Failed to notify %s: %+v", ticket.User.Email, err)
	}
}
