package inventory

import (
	"math"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// Level is how close an item is to running out.
type Level string

const (
	LevelOK      Level = "ok"
	LevelLow     Level = "baixo"
	LevelVeryLow Level = "muito_baixo"
	LevelEmpty   Level = "zerado"
)

// Notification flags an item at or below its minimum quantity.
type Notification struct {
	Item             models.InventoryItem `json:"item"`
	Level            Level                `json:"nivel_critico"`
	PercentRemaining float64              `json:"percentual_restante"`
}

// PercentRemaining is quantity over minimum quantity, as a percentage with
// two decimals. Items without a minimum report 100 while in stock.
func PercentRemaining(item models.InventoryItem) float64 {
	if item.Quantity <= 0 {
		return 0
	}
	if item.MinQuantity <= 0 {
		return 100
	}
	p := float64(item.Quantity) / float64(item.MinQuantity) * 100
	return math.Round(p*100) / 100
}

func LevelOf(item models.InventoryItem) Level {
	if item.Quantity <= 0 {
		return LevelEmpty
	}
	if item.MinQuantity <= 0 {
		return LevelOK
	}

	switch p := PercentRemaining(item); {
	case p <= 50:
		return LevelVeryLow
	case p <= 100:
		return LevelLow
	}
	return LevelOK
}

// Notifications lists every item not at LevelOK, keeping input order.
func Notifications(items []models.InventoryItem) []Notification {
	out := []Notification{}
	for _, it := range items {
		lvl := LevelOf(it)
		if lvl == LevelOK {
			continue
		}
		out = append(out, Notification{
			Item:             it,
			Level:            lvl,
			PercentRemaining: PercentRemaining(it),
		})
	}
	return out
}

// Remove takes qty units out of item. It refuses to go below zero.
func Remove(item *models.InventoryItem, qty int) bool {
	if qty <= 0 || qty > item.Quantity {
		return false
	}
	item.Quantity -= qty
	return true
}

// Add puts qty units into item.
func Add(item *models.InventoryItem, qty int) bool {
	if qty <= 0 {
		return false
	}
	item.Quantity += qty
	return true
}

// Sellable reports whether item can be attached at checkout.
func Sellable(item models.InventoryItem) bool {
	return item.Sellable && item.Quantity > 0
}
