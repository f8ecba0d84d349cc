package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// ListFilter narrows appointment listings. Zero values mean "any".
type ListFilter struct {
	Status   Status
	BarberID uint
	From     time.Time
	To       time.Time
}

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	// -------- People --------
	GetClient(
		ctx context.Context,
		barbershopID uint,
		clientID uint,
	) (*models.Client, error)

	GetBarber(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
	) (*models.User, error)

	// -------- Catalogs --------
	ListServices(
		ctx context.Context,
		barbershopID uint,
		activeOnly bool,
	) ([]models.Service, error)

	ListSellableItems(
		ctx context.Context,
		barbershopID uint,
	) ([]models.InventoryItem, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		barbershopID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointments(
		ctx context.Context,
		barbershopID uint,
		filter ListFilter,
	) ([]models.Appointment, error)
}
