package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

type ListAppointmentsInput struct {
	BarbershopID uint
	Status       string
	BarberID     uint

	// From and To are inclusive YYYY-MM-DD days in the barbershop zone.
	From string
	To   string
}

// ListAppointments is the appointment reload: every call rebuilds the
// line items of the returned appointments from their service text.
type ListAppointments struct {
	repo      domain.Repository
	lineItems LineItems
}

func NewListAppointments(
	repo domain.Repository,
	lineItems LineItems,
) *ListAppointments {
	return &ListAppointments{
		repo:      repo,
		lineItems: lineItems,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	filter := domain.ListFilter{
		Status:   domain.Status(in.Status),
		BarberID: in.BarberID,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	if in.From != "" {
		from, err := time.ParseInLocation("2006-01-02", in.From, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		filter.From = from
	}
	if in.To != "" {
		to, err := time.ParseInLocation("2006-01-02", in.To, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	aps, err := uc.repo.ListAppointments(ctx, in.BarbershopID, filter)
	if err != nil {
		return nil, err
	}

	if err := uc.lineItems.Rebuild(ctx, in.BarbershopID, aps); err != nil {
		return nil, err
	}

	return aps, nil
}
