package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/httpresp"
	"github.com/BruksfildServices01/barber-desk/internal/usecase/checkout"
)

type CheckoutHandler struct {
	rec *checkout.Reconciler
}

func NewCheckoutHandler(rec *checkout.Reconciler) *CheckoutHandler {
	return &CheckoutHandler{rec: rec}
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /me/appointments/:id/checkout
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.rec.Get(c.Request.Context(), shopID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_get_checkout")
		return
	}
	httpresp.OK(c, out)
}

// GET /me/appointments/:id/summary
func (h *CheckoutHandler) Summary(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	out, err := h.rec.Summary(c.Request.Context(), shopID(c), id)
	if err != nil {
		respondError(c, err, "failed_to_build_summary")
		return
	}
	httpresp.OK(c, out)
}

// POST /me/appointments/:id/services/:serviceId
func (h *CheckoutHandler) AttachService(c *gin.Context) {
	h.service(c, true)
}

// DELETE /me/appointments/:id/services/:serviceId
func (h *CheckoutHandler) DetachService(c *gin.Context) {
	h.service(c, false)
}

func (h *CheckoutHandler) service(c *gin.Context, attach bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := uintParam(c, "serviceId")
	if !ok {
		return
	}

	var (
		out *checkout.Checkout
		err error
	)
	if attach {
		out, err = h.rec.AttachService(c.Request.Context(), shopID(c), userID(c), id, serviceID)
	} else {
		out, err = h.rec.DetachService(c.Request.Context(), shopID(c), userID(c), id, serviceID)
	}
	if err != nil {
		respondError(c, err, "failed_to_update_services")
		return
	}
	httpresp.OK(c, out)
}

// PUT /me/appointments/:id/products/:productId
func (h *CheckoutHandler) SetProductQuantity(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "productId")
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	out, err := h.rec.SetProductQuantity(c.Request.Context(), shopID(c), id, productID, *req.Quantity)
	if err != nil {
		respondError(c, err, "failed_to_update_products")
		return
	}
	httpresp.OK(c, out)
}

// POST /me/appointments/:id/products/:productId/increment
func (h *CheckoutHandler) IncrementProduct(c *gin.Context) {
	h.step(c, true)
}

// POST /me/appointments/:id/products/:productId/decrement
func (h *CheckoutHandler) DecrementProduct(c *gin.Context) {
	h.step(c, false)
}

func (h *CheckoutHandler) step(c *gin.Context, up bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	productID, ok := uintParam(c, "productId")
	if !ok {
		return
	}

	var (
		out *checkout.Checkout
		err error
	)
	if up {
		out, err = h.rec.IncrementProduct(c.Request.Context(), shopID(c), id, productID)
	} else {
		out, err = h.rec.DecrementProduct(c.Request.Context(), shopID(c), id, productID)
	}
	if err != nil {
		respondError(c, err, "failed_to_update_products")
		return
	}
	httpresp.OK(c, out)
}
