package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// LineItems is the part of the checkout reconciler the appointment use
// cases drive.
type LineItems interface {
	Rebuild(ctx context.Context, barbershopID uint, aps []models.Appointment) error
	SummaryOf(ctx context.Context, ap *models.Appointment) (lineitem.Summary, error)
	Clear(ctx context.Context, appointmentID uint) error
}
