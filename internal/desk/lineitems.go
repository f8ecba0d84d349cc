package desk

import (
	"context"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// Line items attached here stay in this workspace; only a status change
// reaches the API.

func (w *Workspace) AttachService(ctx context.Context, id, serviceID uint) error {
	return w.mutate(ctx, id, func(a *lineitem.Attachments, _ []models.InventoryItem) {
		a.AttachService(serviceID)
	})
}

func (w *Workspace) DetachService(ctx context.Context, id, serviceID uint) error {
	return w.mutate(ctx, id, func(a *lineitem.Attachments, _ []models.InventoryItem) {
		a.DetachService(serviceID)
	})
}

func (w *Workspace) SetProductQuantity(ctx context.Context, id, productID uint, qty int) error {
	return w.mutate(ctx, id, func(a *lineitem.Attachments, _ []models.InventoryItem) {
		a.SetProductQuantity(productID, qty)
	})
}

// IncrementProduct is a no-op for products the workspace does not know or
// that are out of stock.
func (w *Workspace) IncrementProduct(ctx context.Context, id, productID uint) error {
	return w.mutate(ctx, id, func(a *lineitem.Attachments, inventory []models.InventoryItem) {
		for _, it := range inventory {
			if it.ID == productID {
				a.IncrementProduct(it)
				return
			}
		}
	})
}

func (w *Workspace) DecrementProduct(ctx context.Context, id, productID uint) error {
	return w.mutate(ctx, id, func(a *lineitem.Attachments, _ []models.InventoryItem) {
		a.DecrementProduct(productID)
	})
}

func (w *Workspace) mutate(
	ctx context.Context,
	id uint,
	fn func(*lineitem.Attachments, []models.InventoryItem),
) error {
	w.mu.RLock()
	ap, ok := w.find(id)
	inventory := w.inventory
	w.mu.RUnlock()

	if !ok {
		return ErrUnknownAppointment
	}
	if domain.Status(ap.Status).Terminal() {
		return nil
	}

	_, err := w.items.Update(ctx, id, func(a *lineitem.Attachments) error {
		fn(a, inventory)
		return nil
	})
	return err
}

// Items lists the appointment's line items in display order.
func (w *Workspace) Items(ctx context.Context, id uint) ([]lineitem.Item, error) {
	a, err := w.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return lineitem.Items(a, w.services, w.inventory), nil
}

func (w *Workspace) Total(ctx context.Context, id uint) (float64, error) {
	a, err := w.items.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return lineitem.ComputeAdditionalTotal(a, w.services, w.inventory), nil
}

func (w *Workspace) Summary(ctx context.Context, id uint) (lineitem.Summary, error) {
	a, err := w.items.Get(ctx, id)
	if err != nil {
		return lineitem.Summary{}, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	ap, ok := w.find(id)
	if !ok {
		return lineitem.Summary{}, ErrUnknownAppointment
	}
	return lineitem.BuildSummary(ap, a, w.services, w.inventory), nil
}
