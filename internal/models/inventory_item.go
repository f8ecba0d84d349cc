package models

import "time"

// InventoryItem is a stock entry. Only sellable items with stock left can be
// attached to an appointment at checkout.
type InventoryItem struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`

	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Unit        string `gorm:"size:20;default:'unidade'" json:"unit"`

	UnitPrice *float64   `json:"unit_price"`
	Supplier  string     `gorm:"size:100" json:"supplier"`
	ExpiresAt *time.Time `json:"expires_at"`
	Sellable  bool       `gorm:"default:false" json:"sellable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
