package lineitem

import (
	"math"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

type Kind string

const (
	KindService Kind = "service"
	KindProduct Kind = "product"
)

type Item struct {
	Kind      Kind    `json:"kind"`
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// Items lists the attached services in catalog order followed by the
// sellable products with a non-zero attached quantity in inventory order.
// Services always carry quantity 1.
func Items(a *Attachments, services []models.Service, inventory []models.InventoryItem) []Item {
	items := []Item{}
	if a == nil {
		return items
	}

	for _, s := range services {
		if !a.HasService(s.ID) {
			continue
		}
		items = append(items, Item{
			Kind:      KindService,
			ID:        s.ID,
			Name:      s.Name,
			UnitPrice: s.Price,
			Quantity:  1,
			Subtotal:  s.Price,
		})
	}

	for _, p := range inventory {
		qty := a.ProductQuantity(p.ID)
		if !p.Sellable || qty <= 0 {
			continue
		}
		price := unitPrice(p)
		items = append(items, Item{
			Kind:      KindProduct,
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: price,
			Quantity:  qty,
			Subtotal:  fromCents(toCents(price) * int64(qty)),
		})
	}

	return items
}

// ComputeAdditionalTotal sums the price of every attached service found in
// services plus unit price × quantity of every attached product found in
// inventory with a known price. Ids missing from the catalogs add nothing.
// Sums run in cents so the result is exact for two-decimal prices.
func ComputeAdditionalTotal(a *Attachments, services []models.Service, inventory []models.InventoryItem) float64 {
	if a == nil {
		return 0
	}

	var cents int64

	byID := indexServices(services)
	for _, id := range a.Services {
		if s, ok := byID[id]; ok && s.Price > 0 {
			cents += toCents(s.Price)
		}
	}

	for _, p := range inventory {
		qty := a.ProductQuantity(p.ID)
		if qty <= 0 || p.UnitPrice == nil || *p.UnitPrice <= 0 {
			continue
		}
		cents += toCents(*p.UnitPrice) * int64(qty)
	}

	return fromCents(cents)
}

func unitPrice(p models.InventoryItem) float64 {
	if p.UnitPrice == nil {
		return 0
	}
	return *p.UnitPrice
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
