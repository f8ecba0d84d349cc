package lineitem

import "context"

// Store keeps Attachments between requests. Get on an unknown appointment
// returns an empty set, never an error.
type Store interface {
	Get(ctx context.Context, appointmentID uint) (*Attachments, error)

	// Update applies fn atomically to the stored attachments and returns the
	// result. Returning an error from fn leaves the stored value untouched.
	Update(ctx context.Context, appointmentID uint, fn func(*Attachments) error) (*Attachments, error)

	Delete(ctx context.Context, appointmentID uint) error
}
