package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BruksfildServices01/barber-desk/internal/models"
)

type Barber struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Services lists the whole catalog, inactive entries included.
func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.do(ctx, http.MethodGet, "/api/me/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SellableItems lists the inventory that can be attached at checkout.
func (c *Client) SellableItems(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/me/inventory/sellable", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Barbers(ctx context.Context) ([]Barber, error) {
	var out []Barber
	if err := c.do(ctx, http.MethodGet, "/api/me/barbers", url.Values{}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
