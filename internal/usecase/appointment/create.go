package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	UserID       uint

	ClientID   uint
	BarberID   uint
	ServiceIDs []uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	lineItems LineItems
	audit     *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	lineItems LineItems,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		lineItems: lineItems,
		audit:     audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(shop.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 3️⃣ Serviços (ao menos um, todos ativos)
	// --------------------------------------------------
	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("service_required")
	}

	active, err := uc.repo.ListServices(ctx, in.BarbershopID, true)
	if err != nil {
		return nil, err
	}

	ids := lineitem.New(0)
	for _, id := range in.ServiceIDs {
		if !hasService(active, id) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		ids.AttachService(id)
	}

	// --------------------------------------------------
	// 4️⃣ Cliente e barbeiro
	// --------------------------------------------------
	client, err := uc.repo.GetClient(ctx, in.BarbershopID, in.ClientID)
	if err != nil {
		return nil, err
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarbershopID, in.BarberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Criação do agendamento (status centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID: in.BarbershopID,
		BarberID:     barber.ID,
		ClientID:     client.ID,
		ServiceText:  lineitem.JoinServiceNames(ids.Services, active),
		ScheduledAt:  start.UTC(),
		Status:       string(domain.InitialStatus()),
		Notes:        in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	ap.Client = *client
	ap.Barber = *barber

	// --------------------------------------------------
	// 6️⃣ Itens derivados do texto
	// --------------------------------------------------
	if err := uc.lineItems.Rebuild(ctx, in.BarbershopID, []models.Appointment{*ap}); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       &in.UserID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     map[string]any{"service": ap.ServiceText},
	})

	return ap, nil
}

func hasService(catalog []models.Service, id uint) bool {
	for _, s := range catalog {
		if s.ID == id {
			return true
		}
	}
	return false
}
