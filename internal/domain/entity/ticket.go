package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketType tags the payload carried by a ticket. The set is closed:
// creation and approval both reject unknown tags.
type TicketType string

const (
	TicketTypeApproveDoctor    TicketType = "approve_doctor"
	TicketTypeUpdateDoctor     TicketType = "update_doctor"
	TicketTypeDeleteDoctor     TicketType = "delete_doctor"
	TicketTypeEmergencyRequest TicketType = "emergency_request"
)

// TicketStatus is the ticket lifecycle state. Pending is the only
// non-terminal state; approved and declined are absorbing.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusApproved TicketStatus = "approved"
	TicketStatusDeclined TicketStatus = "declined"
)

var (
	ErrUnknownTicketType = errors.New("unknown ticket type")
	ErrInvalidPayload    = errors.New("invalid ticket payload")
)

// Ticket is a deferred change request against the doctor roster or
// schedules. It is consumed exactly once by approval or decline and
// never mutated after leaving pending.
type Ticket struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *uuid.UUID   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type      TicketType   `gorm:"type:varchar(50);not null;index" json:"type"`
	Payload   RawJSON      `gorm:"type:jsonb" json:"payload,omitempty"`
	Status    TicketStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`

	// Relationships. Requester is detached, not cascaded, when the
	// backing user row is deleted: approved tickets stay as history.
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsPending checks whether the ticket can still be approved or declined
func (t *Ticket) IsPending() bool {
	return t.Status == TicketStatusPending
}

// RawJSON stores an opaque JSON document in a jsonb column
type RawJSON json.RawMessage

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = RawJSON(v)
	default:
		return fmt.Errorf("failed to scan jsonb value: %v", value)
	}
	return nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// TicketPayload is implemented by the typed payload of each ticket type
type TicketPayload interface {
	Validate() error
}

// ApproveDoctorPayload carries no fields; the ticket's requester is the
// doctor being approved.
type ApproveDoctorPayload struct{}

func (ApproveDoctorPayload) Validate() error { return nil }

// DeleteDoctorPayload carries no fields; the ticket's requester is the
// doctor being deleted.
type DeleteDoctorPayload struct{}

func (DeleteDoctorPayload) Validate() error { return nil }

// UpdateDoctorPayload is a partial update: nil fields stay untouched,
// AdditionalModalities replaces the whole set when present.
type UpdateDoctorPayload struct {
	Experience           *string   `json:"experience,omitempty"`
	MainModality         *string   `json:"main_modality,omitempty"`
	Gender               *string   `json:"gender,omitempty"`
	Rate                 *float64  `json:"rate,omitempty"`
	Status               *string   `json:"status,omitempty"`
	Phone                *string   `json:"phone,omitempty"`
	AdditionalModalities *[]string `json:"additional_modality,omitempty"`
}

func (p UpdateDoctorPayload) Validate() error {
	if p.Experience == nil && p.MainModality == nil && p.Gender == nil &&
		p.Rate == nil && p.Status == nil && p.Phone == nil && p.AdditionalModalities == nil {
		return fmt.Errorf("%w: update_doctor payload has no fields", ErrInvalidPayload)
	}
	if p.MainModality != nil && *p.MainModality == "" {
		return fmt.Errorf("%w: main_modality must not be empty", ErrInvalidPayload)
	}
	return nil
}

// EmergencyRequestPayload requests emergency leave over an inclusive
// date range; end_date must not precede start_date.
type EmergencyRequestPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (p EmergencyRequestPayload) Validate() error {
	start, end, err := p.Dates()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date precedes start_date", ErrInvalidPayload)
	}
	return nil
}

// Dates parses both bounds as YYYY-MM-DD
func (p EmergencyRequestPayload) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start_date %q", ErrInvalidPayload, p.StartDate)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end_date %q", ErrInvalidPayload, p.EndDate)
	}
	return start, end, nil
}

// ParseTicketPayload decodes and validates raw JSON against the schema
// of the given ticket type. Unknown fields are rejected so a payload
// cannot silently target the wrong type.
func ParseTicketPayload(t TicketType, raw []byte) (TicketPayload, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	var payload TicketPayload
	switch t {
	case TicketTypeApproveDoctor:
		payload = &ApproveDoctorPayload{}
	case TicketTypeDeleteDoctor:
		payload = &DeleteDoctorPayload{}
	case TicketTypeUpdateDoctor:
		payload = &UpdateDoctorPayload{}
	case TicketTypeEmergencyRequest:
		payload = &EmergencyRequestPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTicketType, t)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}
