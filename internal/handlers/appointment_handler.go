package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-desk/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/httperr"
	"github.com/BruksfildServices01/barber-desk/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-desk/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	list         *ucAppointment.ListAppointments
	updateStatus *ucAppointment.UpdateStatus
	monthView    *ucAppointment.MonthView
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	list *ucAppointment.ListAppointments,
	updateStatus *ucAppointment.UpdateStatus,
	monthView *ucAppointment.MonthView,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		list:         list,
		updateStatus: updateStatus,
		monthView:    monthView,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID   uint   `json:"client_id" binding:"required"`
	BarberID   uint   `json:"barber_id" binding:"required"`
	ServiceIDs []uint `json:"service_ids"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:mm
	Notes      string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Confirm bool   `json:"confirm"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarbershopID: shopID(c),
		UserID:       userID(c),
		ClientID:     req.ClientID,
		BarberID:     req.BarberID,
		ServiceIDs:   req.ServiceIDs,
		Date:         strings.TrimSpace(req.Date),
		Time:         strings.TrimSpace(req.Time),
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, dto.Appointment(*ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}

	aps, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		BarbershopID: shopID(c),
		Status:       strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		BarberID:     barberID,
		From:         c.Query("from"),
		To:           c.Query("to"),
	})
	if err != nil {
		respondError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.OK(c, dto.Appointments(aps))
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		BarbershopID:  shopID(c),
		UserID:        userID(c),
		AppointmentID: id,
		Status:        domain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		Confirm:       req.Confirm,
	})
	if err != nil {
		respondError(c, err, "failed_to_update_status")
		return
	}

	httpresp.OK(c, dto.Appointment(*ap))
}

// ======================================================
// MONTH VIEW
// ======================================================

func (h *AppointmentHandler) Month(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	month, ok := intQuery(c, "month")
	if !ok {
		return
	}
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}

	out, err := h.monthView.Execute(c.Request.Context(), ucAppointment.MonthViewInput{
		BarbershopID: shopID(c),
		Year:         year,
		Month:        month,
		Status:       strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		BarberID:     barberID,
		Day:          c.Query("day"),
	})
	if err != nil {
		respondError(c, err, "failed_to_build_month_view")
		return
	}

	httpresp.OK(c, out)
}
