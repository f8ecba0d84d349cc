// Package desk is the operator-side workspace: the appointments of the
// visible month, the catalogs, locally tracked line items and the calendar
// view over them.
package desk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-desk/internal/apiclient"
	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/infra/linestore"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

var (
	// ErrStale is returned by a Reload whose result was superseded by a
	// newer Reload. Nothing was applied.
	ErrStale = errors.New("desk: reload superseded")

	// ErrBusy rejects a second status submission for an appointment while
	// the first is still in flight.
	ErrBusy = errors.New("desk: submission in flight")

	// ErrNotConfirmed is returned when the operator declines the DONE
	// summary.
	ErrNotConfirmed = errors.New("desk: completion not confirmed")

	ErrUnknownAppointment = errors.New("desk: appointment not loaded")
)

// API is the slice of apiclient.Client the workspace needs.
type API interface {
	Appointments(ctx context.Context, p apiclient.ListParams) ([]dto.AppointmentDTO, error)
	Services(ctx context.Context) ([]models.Service, error)
	SellableItems(ctx context.Context) ([]models.InventoryItem, error)
	UpdateStatus(ctx context.Context, id uint, status string, confirm bool) (*dto.AppointmentDTO, error)
}

// ConfirmFunc shows the completion summary and reports whether the
// operator accepted it.
type ConfirmFunc func(lineitem.Summary) bool

type Workspace struct {
	api   API
	clock timezone.Clock
	loc   *time.Location
	log   zerolog.Logger

	items lineitem.Store

	gen atomic.Uint64

	mu           sync.RWMutex
	view         *schedule.View
	appointments []models.Appointment
	services     []models.Service
	inventory    []models.InventoryItem
	inflight     map[uint]struct{}
}

func New(api API, loc *time.Location, clock timezone.Clock, log zerolog.Logger) *Workspace {
	if clock == nil {
		clock = timezone.System()
	}
	return &Workspace{
		api:      api,
		clock:    clock,
		loc:      loc,
		log:      log.With().Str("component", "desk").Logger(),
		items:    linestore.NewMemoryStore(),
		view:     schedule.NewView(clock.Now(), loc),
		inflight: map[uint]struct{}{},
	}
}

// ======================================================
// LOAD
// ======================================================

// Reload fetches the cursor month's appointments and both catalogs, then
// re-derives every appointment's services from its text. Only the latest
// Reload applies its result; earlier ones in flight return ErrStale. The
// selected day is never touched.
func (w *Workspace) Reload(ctx context.Context) error {
	gen := w.gen.Add(1)

	w.mu.RLock()
	month := w.view.Cursor
	w.mu.RUnlock()

	from, to := fetchRange(month, w.loc)
	list, err := w.api.Appointments(ctx, apiclient.ListParams{
		From: from.String(),
		To:   to.String(),
	})
	if err != nil {
		return err
	}
	services, err := w.api.Services(ctx)
	if err != nil {
		return err
	}
	inventory, err := w.api.SellableItems(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gen.Load() != gen {
		return ErrStale
	}

	w.appointments = dto.Models(list)
	w.services = services
	w.inventory = inventory

	return w.rebuild(ctx)
}

// rangePadDays widens the fetched range. The server reads from/to in the
// barbershop's timezone, which may differ from loc by up to 26 hours.
const rangePadDays = 2

func fetchRange(m schedule.Month, loc *time.Location) (schedule.DateKey, schedule.DateKey) {
	days := m.Days(loc)
	from := days[0].Time(loc).AddDate(0, 0, -rangePadDays)
	to := days[len(days)-1].Time(loc).AddDate(0, 0, rangePadDays)
	return schedule.KeyOf(from, loc), schedule.KeyOf(to, loc)
}

func (w *Workspace) rebuild(ctx context.Context) error {
	active := lineitem.ActiveServices(w.services)

	for _, ap := range w.appointments {
		if domain.Status(ap.Status).Terminal() {
			if err := w.items.Delete(ctx, ap.ID); err != nil {
				return err
			}
			continue
		}

		ids, unmatched := lineitem.DeriveServicesFromText(ap.ServiceText, active)
		if len(unmatched) > 0 {
			w.log.Warn().
				Uint("appointment_id", ap.ID).
				Strs("fragments", unmatched).
				Msg("service text names unknown services")
		}

		if _, err := w.items.Update(ctx, ap.ID, func(a *lineitem.Attachments) error {
			a.ReplaceServices(ids)
			a.Seeded = true
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// ======================================================
// VIEW
// ======================================================

func (w *Workspace) NavigateMonth(dir schedule.Direction) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.NavigateMonth(dir)
}

// GoTo moves the cursor straight to m. The selection is kept.
func (w *Workspace) GoTo(m schedule.Month) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.Cursor = m
}

func (w *Workspace) Location() *time.Location {
	return w.loc
}

// SelectDay selects day when it belongs to the visible month.
func (w *Workspace) SelectDay(day schedule.DateKey) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view.SelectKey(day)
}

func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.ClearSelection()
}

func (w *Workspace) SetFilters(f schedule.Filters) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.Filters = f
}

func (w *Workspace) Cursor() schedule.Month {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.view.Cursor
}

func (w *Workspace) Selected() (schedule.DateKey, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.view.SelectedKey()
}

// Grid is the month grid under the current filters.
func (w *Workspace) Grid() schedule.Grid {
	w.mu.RLock()
	defer w.mu.RUnlock()

	today := schedule.KeyOf(w.clock.Now(), w.loc)
	return schedule.MonthGrid(w.appointments, w.view.Cursor, w.view.Filters, w.loc, today, w.view.Selected)
}

// Agenda returns the selected day's appointments. ok is false when no day
// is selected; an empty slice with ok set is the empty state.
func (w *Workspace) Agenda() (aps []models.Appointment, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	day, ok := w.view.SelectedKey()
	if !ok {
		return nil, false
	}
	return schedule.DayAgenda(w.appointments, day, w.view.Filters, w.loc), true
}

func (w *Workspace) Appointment(id uint) (models.Appointment, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.find(id)
}

func (w *Workspace) find(id uint) (models.Appointment, bool) {
	for _, ap := range w.appointments {
		if ap.ID == id {
			return ap, true
		}
	}
	return models.Appointment{}, false
}

// Actions lists the status changes the operator may be offered.
func (w *Workspace) Actions(id uint) []domain.Status {
	ap, ok := w.Appointment(id)
	if !ok {
		return nil
	}
	return domain.AllowedActions(domain.Status(ap.Status))
}
