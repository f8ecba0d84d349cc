package dto

import (
	"time"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// AppointmentDTO is the wire shape of an appointment. Actions carries the
// only status changes a client may offer.
type AppointmentDTO struct {
	ID uint `json:"id"`

	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`

	BarberID   uint   `json:"barber_id"`
	BarberName string `json:"barber_name"`

	Service     string    `json:"service"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`

	Actions []string `json:"actions"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
}

func Appointment(ap models.Appointment) AppointmentDTO {
	actions := []string{}
	for _, s := range domain.AllowedActions(domain.Status(ap.Status)) {
		actions = append(actions, string(s))
	}

	return AppointmentDTO{
		ID:          ap.ID,
		ClientID:    ap.ClientID,
		ClientName:  ap.Client.Name,
		ClientPhone: ap.Client.Phone,
		BarberID:    ap.BarberID,
		BarberName:  ap.Barber.Name,
		Service:     ap.ServiceText,
		ScheduledAt: ap.ScheduledAt,
		Status:      ap.Status,
		Notes:       ap.Notes,
		Actions:     actions,
		ConfirmedAt: ap.ConfirmedAt,
		StartedAt:   ap.StartedAt,
		CompletedAt: ap.CompletedAt,
		CanceledAt:  ap.CanceledAt,
	}
}

func Appointments(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, Appointment(ap))
	}
	return out
}

// Model rebuilds the domain record from the wire shape so clients can run
// the same scheduling and line-item code as the server.
func (d AppointmentDTO) Model() models.Appointment {
	return models.Appointment{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Client:      models.Client{ID: d.ClientID, Name: d.ClientName, Phone: d.ClientPhone},
		BarberID:    d.BarberID,
		Barber:      models.User{ID: d.BarberID, Name: d.BarberName},
		ServiceText: d.Service,
		ScheduledAt: d.ScheduledAt,
		Status:      d.Status,
		Notes:       d.Notes,
		ConfirmedAt: d.ConfirmedAt,
		StartedAt:   d.StartedAt,
		CompletedAt: d.CompletedAt,
		CanceledAt:  d.CanceledAt,
	}
}

func Models(in []AppointmentDTO) []models.Appointment {
	out := make([]models.Appointment, 0, len(in))
	for _, d := range in {
		out = append(out, d.Model())
	}
	return out
}
