package lineitem

import "github.com/BruksfildServices01/barber-desk/internal/models"

// Attachments are the services and products attached to one appointment on
// top of its booked service. A product present in Products always has a
// quantity greater than zero.
type Attachments struct {
	AppointmentID uint         `json:"appointment_id"`
	Services      []uint       `json:"services"`
	Products      map[uint]int `json:"products"`

	// Seeded is set once Services have been derived from the appointment's
	// service text. A seeded entry is kept even with nothing attached.
	Seeded bool `json:"seeded,omitempty"`
}

func New(appointmentID uint) *Attachments {
	return &Attachments{
		AppointmentID: appointmentID,
		Services:      []uint{},
		Products:      map[uint]int{},
	}
}

func (a *Attachments) HasService(serviceID uint) bool {
	for _, id := range a.Services {
		if id == serviceID {
			return true
		}
	}
	return false
}

// AttachService adds serviceID unless it is already attached.
func (a *Attachments) AttachService(serviceID uint) bool {
	if a.HasService(serviceID) {
		return false
	}
	a.Services = append(a.Services, serviceID)
	return true
}

// DetachService removes serviceID if attached.
func (a *Attachments) DetachService(serviceID uint) bool {
	for i, id := range a.Services {
		if id == serviceID {
			a.Services = append(a.Services[:i:i], a.Services[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceServices swaps the service set, collapsing duplicates.
func (a *Attachments) ReplaceServices(ids []uint) {
	a.Services = make([]uint, 0, len(ids))
	for _, id := range ids {
		a.AttachService(id)
	}
}

func (a *Attachments) ProductQuantity(productID uint) int {
	return a.Products[productID]
}

// SetProductQuantity stores qty for productID. Negative values floor at
// zero and zero removes the entry.
func (a *Attachments) SetProductQuantity(productID uint, qty int) {
	if a.Products == nil {
		a.Products = map[uint]int{}
	}
	if qty <= 0 {
		delete(a.Products, productID)
		return
	}
	a.Products[productID] = qty
}

// IncrementProduct adds one unit of item. Items out of stock are refused.
func (a *Attachments) IncrementProduct(item models.InventoryItem) bool {
	if item.Quantity == 0 {
		return false
	}
	a.SetProductQuantity(item.ID, a.ProductQuantity(item.ID)+1)
	return true
}

// DecrementProduct removes one unit; a no-op when nothing is attached.
func (a *Attachments) DecrementProduct(productID uint) bool {
	current := a.ProductQuantity(productID)
	if current == 0 {
		return false
	}
	a.SetProductQuantity(productID, current-1)
	return true
}

func (a *Attachments) Clear() {
	a.Services = []uint{}
	a.Products = map[uint]int{}
}

func (a *Attachments) Empty() bool {
	return len(a.Services) == 0 && len(a.Products) == 0
}

// Disposable reports whether a store may drop the entry.
func (a *Attachments) Disposable() bool {
	return !a.Seeded && a.Empty()
}

// Seed merges ids into the service set the first time the attachments are
// derived from service text. Later calls are no-ops.
func (a *Attachments) Seed(ids []uint) bool {
	if a.Seeded {
		return false
	}
	for _, id := range ids {
		a.AttachService(id)
	}
	a.Seeded = true
	return true
}

// Clone returns a deep copy.
func (a *Attachments) Clone() *Attachments {
	out := New(a.AppointmentID)
	out.Seeded = a.Seeded
	out.Services = append(out.Services, a.Services...)
	for id, qty := range a.Products {
		out.Products[id] = qty
	}
	return out
}
