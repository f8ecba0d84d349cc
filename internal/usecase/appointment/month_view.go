package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

type MonthViewInput struct {
	BarbershopID uint

	// Year and Month default to the current month in the barbershop zone.
	Year  int
	Month int

	Status   string
	BarberID uint

	// Day, when set, selects a YYYY-MM-DD day inside the month.
	Day string
}

type MonthView struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewMonthView(
	repo domain.Repository,
	clock timezone.Clock,
) *MonthView {
	return &MonthView{
		repo:  repo,
		clock: clock,
	}
}

func (uc *MonthView) Execute(
	ctx context.Context,
	in MonthViewInput,
) (*dto.MonthViewDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	now := timezone.NowIn(uc.clock, shop.Timezone)

	view := schedule.NewView(now, loc)
	if in.Year != 0 || in.Month != 0 {
		if in.Year < 1 || in.Month < 1 || in.Month > 12 {
			return nil, httperr.ErrBusiness("invalid_month")
		}
		view.Cursor = schedule.Month{Year: in.Year, Month: time.Month(in.Month)}
	}

	view.Filters = schedule.Filters{
		Status:   domain.Status(in.Status),
		BarberID: in.BarberID,
	}
	if view.Filters.Status != "" && !view.Filters.Status.Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	if in.Day != "" {
		day, err := schedule.ParseKey(in.Day, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		if !view.SelectKey(day) {
			return nil, httperr.ErrBusiness("day_outside_month")
		}
	}

	start, end := view.Cursor.Range(loc)
	aps, err := uc.repo.ListAppointments(ctx, in.BarbershopID, domain.ListFilter{
		From: start,
		To:   end,
	})
	if err != nil {
		return nil, err
	}

	today := schedule.KeyOf(now, loc)
	grid := schedule.MonthGrid(aps, view.Cursor, view.Filters, loc, today, view.Selected)

	var agenda []models.Appointment
	if day, ok := view.SelectedKey(); ok {
		agenda = schedule.DayAgenda(aps, day, view.Filters, loc)
	}

	out := dto.MonthView(loc.String(), today, grid, view.Selected, agenda)
	return &out, nil
}
