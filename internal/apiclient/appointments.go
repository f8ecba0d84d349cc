package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/usecase/checkout"
)

type ListParams struct {
	Status   string
	BarberID uint
	From     string // YYYY-MM-DD
	To       string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.BarberID != 0 {
		q.Set("barber_id", strconv.FormatUint(uint64(p.BarberID), 10))
	}
	if p.From != "" {
		q.Set("from", p.From)
	}
	if p.To != "" {
		q.Set("to", p.To)
	}
	return q
}

type MonthParams struct {
	Year     int
	Month    int
	Day      string
	Status   string
	BarberID uint
}

type CreateAppointmentParams struct {
	ClientID   uint   `json:"client_id"`
	BarberID   uint   `json:"barber_id"`
	ServiceIDs []uint `json:"service_ids"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes,omitempty"`
}

func (c *Client) Appointments(ctx context.Context, p ListParams) ([]dto.AppointmentDTO, error) {
	var out []dto.AppointmentDTO
	if err := c.do(ctx, http.MethodGet, "/api/me/appointments", p.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Month(ctx context.Context, p MonthParams) (*dto.MonthViewDTO, error) {
	q := url.Values{}
	if p.Year != 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}
	if p.Month != 0 {
		q.Set("month", strconv.Itoa(p.Month))
	}
	if p.Day != "" {
		q.Set("day", p.Day)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.BarberID != 0 {
		q.Set("barber_id", strconv.FormatUint(uint64(p.BarberID), 10))
	}

	var out dto.MonthViewDTO
	if err := c.do(ctx, http.MethodGet, "/api/me/appointments/month", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, p CreateAppointmentParams) (*dto.AppointmentDTO, error) {
	var out dto.AppointmentDTO
	if err := c.do(ctx, http.MethodPost, "/api/me/appointments", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus submits a transition. A DONE without confirm fails with an
// *APIError whose Code is confirmation_required and whose Summary is set.
func (c *Client) UpdateStatus(ctx context.Context, id uint, status string, confirm bool) (*dto.AppointmentDTO, error) {
	body := map[string]any{"status": status, "confirm": confirm}

	var out dto.AppointmentDTO
	if err := c.do(ctx, http.MethodPatch, appointmentPath(id, "/status"), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// CHECKOUT
// ======================================================

func (c *Client) Checkout(ctx context.Context, id uint) (*checkout.Checkout, error) {
	return c.checkout(ctx, http.MethodGet, appointmentPath(id, "/checkout"), nil)
}

func (c *Client) Summary(ctx context.Context, id uint) (*lineitem.Summary, error) {
	var out lineitem.Summary
	if err := c.do(ctx, http.MethodGet, appointmentPath(id, "/summary"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AttachService(ctx context.Context, id, serviceID uint) (*checkout.Checkout, error) {
	return c.checkout(ctx, http.MethodPost, appointmentPath(id, fmt.Sprintf("/services/%d", serviceID)), nil)
}

func (c *Client) DetachService(ctx context.Context, id, serviceID uint) (*checkout.Checkout, error) {
	return c.checkout(ctx, http.MethodDelete, appointmentPath(id, fmt.Sprintf("/services/%d", serviceID)), nil)
}

// SetProductQuantity never sends a negative quantity.
func (c *Client) SetProductQuantity(ctx context.Context, id, productID uint, qty int) (*checkout.Checkout, error) {
	if qty < 0 {
		qty = 0
	}
	body := map[string]int{"quantity": qty}
	return c.checkout(ctx, http.MethodPut, appointmentPath(id, fmt.Sprintf("/products/%d", productID)), body)
}

func (c *Client) IncrementProduct(ctx context.Context, id, productID uint) (*checkout.Checkout, error) {
	return c.checkout(ctx, http.MethodPost, appointmentPath(id, fmt.Sprintf("/products/%d/increment", productID)), nil)
}

func (c *Client) DecrementProduct(ctx context.Context, id, productID uint) (*checkout.Checkout, error) {
	return c.checkout(ctx, http.MethodPost, appointmentPath(id, fmt.Sprintf("/products/%d/decrement", productID)), nil)
}

func (c *Client) checkout(ctx context.Context, method, path string, body any) (*checkout.Checkout, error) {
	var out checkout.Checkout
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func appointmentPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/me/appointments/%d%s", id, suffix)
}
