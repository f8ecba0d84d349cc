package desk

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// Transition submits a status change. DONE first shows the summary through
// confirm and only proceeds when it returns true; on success the
// appointment's line items are dropped and the month is reloaded. A second
// call for the same appointment while one is in flight fails with ErrBusy.
func (w *Workspace) Transition(ctx context.Context, id uint, next domain.Status, confirm ConfirmFunc) (*models.Appointment, error) {
	ap, ok := w.Appointment(id)
	if !ok {
		return nil, ErrUnknownAppointment
	}
	if err := domain.CanTransition(domain.Status(ap.Status), next); err != nil {
		return nil, err
	}

	if !w.acquire(id) {
		return nil, ErrBusy
	}
	defer w.release(id)

	if next == domain.StatusDone {
		summary, err := w.Summary(ctx, id)
		if err != nil {
			return nil, err
		}
		if confirm == nil || !confirm(summary) {
			return nil, ErrNotConfirmed
		}
	}

	out, err := w.api.UpdateStatus(ctx, id, string(next), next == domain.StatusDone)
	if err != nil {
		return nil, err
	}

	updated := out.Model()
	if domain.Status(updated.Status).Terminal() {
		if err := w.items.Delete(ctx, id); err != nil {
			return nil, err
		}
	}

	w.mu.Lock()
	for i := range w.appointments {
		if w.appointments[i].ID == id {
			w.appointments[i] = updated
		}
	}
	w.mu.Unlock()

	w.log.Info().
		Uint("appointment_id", id).
		Str("from", ap.Status).
		Str("to", updated.Status).
		Msg("status changed")

	// the change is already applied locally, a failed reload only leaves
	// other appointments as they were
	if err := w.Reload(ctx); err != nil && !errors.Is(err, ErrStale) {
		w.log.Warn().Err(err).Uint("appointment_id", id).Msg("reload after status change failed")
	}

	return &updated, nil
}

func (w *Workspace) acquire(id uint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, busy := w.inflight[id]; busy {
		return false
	}
	w.inflight[id] = struct{}{}
	return true
}

func (w *Workspace) release(id uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, id)
}
