package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketPayload(t *testing.T) {
	cases := []struct {
		name       string
		ticketType TicketType
		raw        string
		wantErr    error
	}{
		{"unknown type", "promote_doctor", `{}`, ErrUnknownTicketType},
		{"approve empty", TicketTypeApproveDoctor, `{}`, nil},
		{"approve nil payload", TicketTypeApproveDoctor, ``, nil},
		{"approve unknown field", TicketTypeApproveDoctor, `{"who": "me"}`, ErrInvalidPayload},
		{"delete empty", TicketTypeDeleteDoctor, `{}`, nil},
		{"update rate only", TicketTypeUpdateDoctor, `{"rate": 1.25}`, nil},
		{"update modalities", TicketTypeUpdateDoctor, `{"additional_modality": ["CT", "MRI"]}`, nil},
		{"update no fields", TicketTypeUpdateDoctor, `{}`, ErrInvalidPayload},
		{"update empty main modality", TicketTypeUpdateDoctor, `{"main_modality": ""}`, ErrInvalidPayload},
		{"update unknown field", TicketTypeUpdateDoctor, `{"salary": 100}`, ErrInvalidPayload},
		{"emergency valid", TicketTypeEmergencyRequest, `{"start_date": "2024-03-01", "end_date": "2024-03-03"}`, nil},
		{"emergency single day", TicketTypeEmergencyRequest, `{"start_date": "2024-03-01", "end_date": "2024-03-01"}`, nil},
		{"emergency inverted", TicketTypeEmergencyRequest, `{"start_date": "2024-03-05", "end_date": "2024-03-01"}`, ErrInvalidPayload},
		{"emergency bad format", TicketTypeEmergencyRequest, `{"start_date": "01.03.2024", "end_date": "2024-03-02"}`, ErrInvalidPayload},
		{"emergency missing end", TicketTypeEmergencyRequest, `{"start_date": "2024-03-01"}`, ErrInvalidPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := ParseTicketPayload(tc.ticketType, []byte(tc.raw))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, payload)
		})
	}
}

func TestUpdateDoctorPayloadLeavesUnsetFieldsNil(t *testing.T) {
	payload, err := ParseTicketPayload(TicketTypeUpdateDoctor, []byte(`{"rate": 1.5}`))
	require.NoError(t, err)

	update, ok := payload.(*UpdateDoctorPayload)
	require.True(t, ok)
	require.NotNil(t, update.Rate)
	assert.Equal(t, 1.5, *update.Rate)
	assert.Nil(t, update.Experience)
	assert.Nil(t, update.MainModality)
	assert.Nil(t, update.AdditionalModalities)
}

func TestEmergencyRequestPayloadDates(t *testing.T) {
	payload := EmergencyRequestPayload{StartDate: "2024-03-01", EndDate: "2024-03-03"}
	start, end, err := payload.Dates()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-03-03", end.Format("2006-01-02"))
}

func TestTicketIsPending(t *testing.T) {
	assert.True(t, (&Ticket{Status: TicketStatusPending}).IsPending())
	assert.False(t, (&Ticket{Status: TicketStatusApproved}).IsPending())
	assert.False(t, (&Ticket{Status: TicketStatusDeclined}).IsPending())
}
