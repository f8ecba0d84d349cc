package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to next and stamps the matching timestamp.
func Transition(ap *models.Appointment, next Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), next); err != nil {
		return err
	}

	ap.Status = string(next)

	switch next {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusDone:
		ap.CompletedAt = &now
	case StatusCanceled:
		ap.CanceledAt = &now
	}
	return nil
}
