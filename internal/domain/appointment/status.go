package appointment

import "github.com/BruksfildServices01/barber-desk/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCanceled   Status = "CANCELED"
)

// transitions is the forward-only lifecycle. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusInProgress},
	StatusInProgress: {StatusDone},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// ===============================
// Validations
// ===============================

// AllowedActions lists the statuses reachable from current, in display order.
// It is the only action set clients are given.
func AllowedActions(current Status) []Status {
	next := transitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition valida a transição de status
func CanTransition(current, next Status) error {
	if !next.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	for _, s := range transitions[current] {
		if s == next {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

func InitialStatus() Status {
	return StatusPending
}
