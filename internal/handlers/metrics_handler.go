package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-desk/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/barber-desk/internal/usecase/appointment"
)

type MetricsHandler struct {
	dashboard *ucAppointment.DashboardMetrics
}

func NewMetricsHandler(dashboard *ucAppointment.DashboardMetrics) *MetricsHandler {
	return &MetricsHandler{dashboard: dashboard}
}

// Get returns the dashboard counters, optionally for one barber.
func (h *MetricsHandler) Get(c *gin.Context) {
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}

	out, err := h.dashboard.Execute(c.Request.Context(), ucAppointment.DashboardMetricsInput{
		BarbershopID: shopID(c),
		BarberID:     barberID,
	})
	if err != nil {
		respondError(c, err, "failed_to_build_metrics")
		return
	}

	httpresp.OK(c, out)
}
