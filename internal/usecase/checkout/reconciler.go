package checkout

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/metrics"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// ======================================================
// OPTIONS
// ======================================================

type Options struct {
	// PersistAttachedServices writes attach/detach on existing
	// appointments back into the appointment's service text.
	PersistAttachedServices bool

	// WarnUnmatched logs service text fragments that match no catalog entry.
	WarnUnmatched bool
}

// ======================================================
// OUTPUT
// ======================================================

// Checkout is the line-item state of one appointment as clients see it.
type Checkout struct {
	AppointmentID uint            `json:"appointment_id"`
	Services      []uint          `json:"services"`
	Products      map[uint]int    `json:"products"`
	Items         []lineitem.Item `json:"items"`
	Total         float64         `json:"total"`
	Unmatched     []string        `json:"unmatched,omitempty"`
}

// ======================================================
// RECONCILER
// ======================================================

// Reconciler keeps per-appointment attachments in a lineitem.Store in step
// with the appointments' service text.
type Reconciler struct {
	repo  domain.Repository
	store lineitem.Store
	audit *audit.Dispatcher
	log   zerolog.Logger
	opts  Options
}

func NewReconciler(
	repo domain.Repository,
	store lineitem.Store,
	audit *audit.Dispatcher,
	log zerolog.Logger,
	opts Options,
) *Reconciler {
	return &Reconciler{
		repo:  repo,
		store: store,
		audit: audit,
		log:   log.With().Str("component", "reconciler").Logger(),
		opts:  opts,
	}
}

type catalogs struct {
	services  []models.Service
	inventory []models.InventoryItem
}

func (c catalogs) active() []models.Service {
	return lineitem.ActiveServices(c.services)
}

func (c catalogs) service(id uint) (models.Service, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

func (c catalogs) product(id uint) (models.InventoryItem, bool) {
	for _, p := range c.inventory {
		if p.ID == id {
			return p, true
		}
	}
	return models.InventoryItem{}, false
}

func (r *Reconciler) loadCatalogs(ctx context.Context, barbershopID uint) (catalogs, error) {
	services, err := r.repo.ListServices(ctx, barbershopID, false)
	if err != nil {
		return catalogs{}, err
	}
	inventory, err := r.repo.ListSellableItems(ctx, barbershopID)
	if err != nil {
		return catalogs{}, err
	}
	return catalogs{services: services, inventory: inventory}, nil
}

// ------------------------------------------------------
// Rebuild
// ------------------------------------------------------

// Rebuild resets the service part of every appointment's attachments to
// what its service text names. Product quantities are kept. Closed
// appointments lose their attachments.
func (r *Reconciler) Rebuild(
	ctx context.Context,
	barbershopID uint,
	aps []models.Appointment,
) error {

	if len(aps) == 0 {
		return nil
	}

	services, err := r.repo.ListServices(ctx, barbershopID, true)
	if err != nil {
		return err
	}

	for _, ap := range aps {
		if _, err := r.rebuildOne(ctx, ap, services); err != nil {
			return err
		}
	}

	metrics.IncLineItemOp("rebuild")
	return nil
}

func (r *Reconciler) rebuildOne(
	ctx context.Context,
	ap models.Appointment,
	active []models.Service,
) ([]string, error) {

	if domain.Status(ap.Status).Terminal() {
		return nil, r.store.Delete(ctx, ap.ID)
	}

	ids, unmatched := lineitem.DeriveServicesFromText(ap.ServiceText, active)
	r.reportUnmatched(ap, unmatched)

	_, err := r.store.Update(ctx, ap.ID, func(a *lineitem.Attachments) error {
		a.ReplaceServices(ids)
		a.Seeded = true
		return nil
	})
	return unmatched, err
}

// seed derives the booked services of an open appointment the first time its
// attachments are touched, so reads never depend on a prior Rebuild.
func (r *Reconciler) seed(a *lineitem.Attachments, ap *models.Appointment, cat catalogs) {
	if domain.Status(ap.Status).Terminal() {
		return
	}
	ids, _ := lineitem.DeriveServicesFromText(ap.ServiceText, cat.active())
	if a.Seed(ids) {
		metrics.IncLineItemOp("seed")
	}
}

// attachments reads the stored attachments, seeding them for open
// appointments that have no entry yet.
func (r *Reconciler) attachments(
	ctx context.Context,
	ap *models.Appointment,
	cat catalogs,
) (*lineitem.Attachments, error) {

	if domain.Status(ap.Status).Terminal() {
		return r.store.Get(ctx, ap.ID)
	}

	a, err := r.store.Get(ctx, ap.ID)
	if err != nil || a.Seeded {
		return a, err
	}
	return r.store.Update(ctx, ap.ID, func(a *lineitem.Attachments) error {
		r.seed(a, ap, cat)
		return nil
	})
}

func (r *Reconciler) reportUnmatched(ap models.Appointment, unmatched []string) {
	if len(unmatched) == 0 {
		return
	}
	metrics.AddUnmatchedFragments(len(unmatched))

	if r.opts.WarnUnmatched {
		r.log.Warn().
			Uint("appointment_id", ap.ID).
			Uint("barbershop_id", ap.BarbershopID).
			Strs("fragments", unmatched).
			Msg("service text fragments without catalog match")
	}
}

// ------------------------------------------------------
// Reads
// ------------------------------------------------------

func (r *Reconciler) Get(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*Checkout, error) {

	ap, err := r.repo.GetAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		return nil, err
	}
	cat, err := r.loadCatalogs(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	a, err := r.attachments(ctx, ap, cat)
	if err != nil {
		return nil, err
	}

	out := r.checkout(a, cat)
	_, out.Unmatched = lineitem.DeriveServicesFromText(ap.ServiceText, cat.active())
	return out, nil
}

// Summary builds the confirmation shown before an appointment is closed.
func (r *Reconciler) Summary(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (lineitem.Summary, error) {

	ap, err := r.repo.GetAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		return lineitem.Summary{}, err
	}
	return r.SummaryOf(ctx, ap)
}

func (r *Reconciler) SummaryOf(ctx context.Context, ap *models.Appointment) (lineitem.Summary, error) {
	cat, err := r.loadCatalogs(ctx, ap.BarbershopID)
	if err != nil {
		return lineitem.Summary{}, err
	}
	a, err := r.attachments(ctx, ap, cat)
	if err != nil {
		return lineitem.Summary{}, err
	}
	return lineitem.BuildSummary(*ap, a, cat.services, cat.inventory), nil
}

// ------------------------------------------------------
// Services
// ------------------------------------------------------

func (r *Reconciler) AttachService(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	appointmentID uint,
	serviceID uint,
) (*Checkout, error) {
	return r.mutateServices(ctx, barbershopID, userID, appointmentID, serviceID, true)
}

func (r *Reconciler) DetachService(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	appointmentID uint,
	serviceID uint,
) (*Checkout, error) {
	return r.mutateServices(ctx, barbershopID, userID, appointmentID, serviceID, false)
}

func (r *Reconciler) mutateServices(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	appointmentID uint,
	serviceID uint,
	attach bool,
) (*Checkout, error) {

	ap, cat, err := r.openAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		return nil, err
	}

	svc, ok := cat.service(serviceID)
	if attach && (!ok || !svc.Active) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	changed := false
	a, err := r.store.Update(ctx, ap.ID, func(a *lineitem.Attachments) error {
		r.seed(a, ap, cat)
		if attach {
			changed = a.AttachService(serviceID)
		} else {
			changed = a.DetachService(serviceID)
		}
		if changed && r.opts.PersistAttachedServices && len(a.Services) == 0 {
			return httperr.ErrBusiness("service_required")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	op := "detach_service"
	if attach {
		op = "attach_service"
	}
	metrics.IncLineItemOp(op)

	if changed && r.opts.PersistAttachedServices {
		if err := r.persistServiceText(ctx, ap, a, cat); err != nil {
			return nil, err
		}
	}

	if changed {
		r.audit.Dispatch(audit.Event{
			BarbershopID: barbershopID,
			UserID:       &userID,
			Action:       "appointment_" + op,
			Entity:       "appointment",
			EntityID:     &ap.ID,
			Metadata:     map[string]any{"service_id": serviceID},
		})
	}

	return r.checkout(a, cat), nil
}

// persistServiceText rewrites the appointment's service text from the
// attached services. Fragments that never matched the catalog are kept at
// the end so no booked text is lost.
func (r *Reconciler) persistServiceText(
	ctx context.Context,
	ap *models.Appointment,
	a *lineitem.Attachments,
	cat catalogs,
) error {

	_, unmatched := lineitem.DeriveServicesFromText(ap.ServiceText, cat.active())

	parts := []string{}
	if names := lineitem.JoinServiceNames(a.Services, cat.services); names != "" {
		parts = append(parts, names)
	}
	parts = append(parts, unmatched...)

	ap.ServiceText = strings.Join(parts, lineitem.ServiceSeparator)
	return r.repo.UpdateAppointment(ctx, ap)
}

// ------------------------------------------------------
// Products
// ------------------------------------------------------

// SetProductQuantity stores qty for a sellable product. Negative quantities
// are floored at zero and zero removes the product.
func (r *Reconciler) SetProductQuantity(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
	productID uint,
	qty int,
) (*Checkout, error) {

	return r.mutateProduct(ctx, barbershopID, appointmentID, productID, "set_product_quantity",
		func(a *lineitem.Attachments, _ models.InventoryItem) {
			a.SetProductQuantity(productID, qty)
		})
}

// IncrementProduct adds one unit. Products out of stock are left untouched.
func (r *Reconciler) IncrementProduct(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
	productID uint,
) (*Checkout, error) {

	return r.mutateProduct(ctx, barbershopID, appointmentID, productID, "increment_product",
		func(a *lineitem.Attachments, item models.InventoryItem) {
			a.IncrementProduct(item)
		})
}

// DecrementProduct removes one unit, never going below zero.
func (r *Reconciler) DecrementProduct(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
	productID uint,
) (*Checkout, error) {

	return r.mutateProduct(ctx, barbershopID, appointmentID, productID, "decrement_product",
		func(a *lineitem.Attachments, _ models.InventoryItem) {
			a.DecrementProduct(productID)
		})
}

func (r *Reconciler) mutateProduct(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
	productID uint,
	op string,
	apply func(*lineitem.Attachments, models.InventoryItem),
) (*Checkout, error) {

	ap, cat, err := r.openAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		return nil, err
	}

	item, ok := cat.product(productID)
	if !ok {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	a, err := r.store.Update(ctx, ap.ID, func(a *lineitem.Attachments) error {
		r.seed(a, ap, cat)
		apply(a, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncLineItemOp(op)
	return r.checkout(a, cat), nil
}

// ------------------------------------------------------
// Clear
// ------------------------------------------------------

// Clear drops every attachment of the appointment.
func (r *Reconciler) Clear(ctx context.Context, appointmentID uint) error {
	if err := r.store.Delete(ctx, appointmentID); err != nil {
		return err
	}
	metrics.IncLineItemOp("clear")
	return nil
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

func (r *Reconciler) openAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, catalogs, error) {

	ap, err := r.repo.GetAppointment(ctx, barbershopID, appointmentID)
	if err != nil {
		return nil, catalogs{}, err
	}
	if domain.Status(ap.Status).Terminal() {
		return nil, catalogs{}, httperr.ErrBusiness("appointment_closed")
	}

	cat, err := r.loadCatalogs(ctx, barbershopID)
	if err != nil {
		return nil, catalogs{}, err
	}
	return ap, cat, nil
}

func (r *Reconciler) checkout(a *lineitem.Attachments, cat catalogs) *Checkout {
	return &Checkout{
		AppointmentID: a.AppointmentID,
		Services:      append([]uint{}, a.Services...),
		Products:      a.Clone().Products,
		Items:         lineitem.Items(a, cat.services, cat.inventory),
		Total:         lineitem.ComputeAdditionalTotal(a, cat.services, cat.inventory),
	}
}
