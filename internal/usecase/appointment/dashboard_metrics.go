package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

type DashboardMetricsInput struct {
	BarbershopID uint
	BarberID     uint
}

// DashboardMetrics counts finished appointments and the distinct clients
// behind them for the current day, week, month and year.
type DashboardMetrics struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewDashboardMetrics(
	repo domain.Repository,
	clock timezone.Clock,
) *DashboardMetrics {
	return &DashboardMetrics{
		repo:  repo,
		clock: clock,
	}
}

func (uc *DashboardMetrics) Execute(
	ctx context.Context,
	in DashboardMetricsInput,
) (*dto.DashboardMetricsDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	periods := schedule.PeriodsAt(uc.clock.Now(), loc)
	span := periods.Span()

	aps, err := uc.repo.ListAppointments(ctx, in.BarbershopID, domain.ListFilter{
		Status:   domain.StatusDone,
		BarberID: in.BarberID,
		From:     span.Start,
		To:       span.End,
	})
	if err != nil {
		return nil, err
	}

	out := dto.DashboardMetricsDTO{Timezone: loc.String()}
	out.Appointments.Day, out.ClientsServed.Day = countIn(aps, periods.Day)
	out.Appointments.Week, out.ClientsServed.Week = countIn(aps, periods.Week)
	out.Appointments.Month, out.ClientsServed.Month = countIn(aps, periods.Month)
	out.Appointments.Year, out.ClientsServed.Year = countIn(aps, periods.Year)
	return &out, nil
}

func countIn(aps []models.Appointment, w schedule.Window) (appointments, clients int) {
	seen := map[uint]struct{}{}
	for _, ap := range aps {
		if !w.Contains(ap.ScheduledAt) {
			continue
		}
		appointments++
		seen[ap.ClientID] = struct{}{}
	}
	return appointments, len(seen)
}
