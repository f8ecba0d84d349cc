package appointment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/metrics"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

type UpdateStatusInput struct {
	BarbershopID  uint
	UserID        uint
	AppointmentID uint
	Status        domain.Status

	// Confirm must be true to close an appointment as DONE.
	Confirm bool
}

// ConfirmationRequiredError is returned for an unconfirmed DONE request. It
// carries the summary the caller has to present first.
type ConfirmationRequiredError struct {
	Summary lineitem.Summary
}

func (e *ConfirmationRequiredError) Error() string {
	return "confirmation_required"
}

func (e *ConfirmationRequiredError) Unwrap() error {
	return httperr.ErrBusiness("confirmation_required")
}

type UpdateStatus struct {
	repo      domain.Repository
	lineItems LineItems
	audit     *audit.Dispatcher
	clock     timezone.Clock
	log       zerolog.Logger
}

func NewUpdateStatus(
	repo domain.Repository,
	lineItems LineItems,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	log zerolog.Logger,
) *UpdateStatus {
	return &UpdateStatus{
		repo:      repo,
		lineItems: lineItems,
		audit:     audit,
		clock:     clock,
		log:       log,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.BarbershopID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.CanTransition(from, in.Status); err != nil {
		return nil, err
	}

	// DONE só com o resumo confirmado
	if in.Status == domain.StatusDone && !in.Confirm {
		summary, err := uc.lineItems.SummaryOf(ctx, ap)
		if err != nil {
			return nil, err
		}
		return nil, &ConfirmationRequiredError{Summary: summary}
	}

	var summary *lineitem.Summary
	if in.Status == domain.StatusDone {
		s, err := uc.lineItems.SummaryOf(ctx, ap)
		if err != nil {
			return nil, err
		}
		summary = &s
	}

	now := timezone.NowIn(uc.clock, shop.Timezone)
	if err := domain.Transition(ap, in.Status, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	metrics.IncStatusTransition(string(from), ap.Status)

	if in.Status == domain.StatusDone {
		if err := uc.lineItems.Clear(ctx, ap.ID); err != nil {
			// o próximo Rebuild descarta itens de atendimentos fechados
			uc.log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to clear line items")
		}
	}

	meta := map[string]any{"from": string(from), "to": ap.Status}
	if summary != nil {
		meta["total"] = summary.Total
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       &in.UserID,
		Action:       "appointment_status_changed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     meta,
	})

	return ap, nil
}
