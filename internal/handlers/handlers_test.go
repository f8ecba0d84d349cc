package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-desk/internal/config"
	"github.com/BruksfildServices01/barber-desk/internal/dto"
	"github.com/BruksfildServices01/barber-desk/internal/infra/linestore"
	"github.com/BruksfildServices01/barber-desk/internal/infra/repository"
	"github.com/BruksfildServices01/barber-desk/internal/middleware"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/testutil"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-desk/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/usecase/checkout"
)

type harness struct {
	t      *testing.T
	db     *gorm.DB
	fx     testutil.Fixture
	cfg    *config.Config
	router *gin.Engine
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	cfg := &config.Config{JWTSecret: "test-secret"}
	clock := timezone.Fixed(time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC))

	repo := repository.NewAppointmentGormRepository(db)
	rec := checkout.NewReconciler(repo, linestore.NewMemoryStore(), nil, zerolog.Nop(), checkout.Options{})

	appointments := NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(repo, rec, nil),
		ucAppointment.NewListAppointments(repo, rec),
		ucAppointment.NewUpdateStatus(repo, rec, nil, clock, zerolog.Nop()),
		ucAppointment.NewMonthView(repo, clock),
	)
	checkouts := NewCheckoutHandler(rec)
	metrics := NewMetricsHandler(ucAppointment.NewDashboardMetrics(repo, clock))
	services := NewServiceHandler(db)
	inventory := NewInventoryHandler(db, nil)
	barbers := NewBarberHandler(db)
	shops := NewBarbershopHandler(db)
	clients := NewClientHandler(db)

	auth := NewAuthHandler(db, cfg)
	auth.emailDomainOK = func(string) bool { return true }

	r := gin.New()
	r.POST("/api/auth/register", auth.Register)
	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/refresh", auth.Refresh)

	me := r.Group("/api/me", middleware.AuthMiddleware(cfg))
	{
		me.GET("/barbershop", shops.GetMeBarbershop)
		me.PATCH("/barbershop", shops.UpdateMeBarbershop)
		me.GET("/barbers", barbers.List)
		me.POST("/barbers", barbers.Create)
		me.PATCH("/barbers/:id", barbers.Update)
		me.DELETE("/barbers/:id", barbers.Delete)
		me.GET("/metrics", metrics.Get)
		me.GET("/clients", clients.List)
		me.POST("/clients", clients.Create)

		me.GET("/services", services.List)
		me.POST("/services", services.Create)
		me.DELETE("/services/:id", services.Delete)

		me.GET("/inventory/sellable", inventory.Sellable)
		me.GET("/inventory/notifications", inventory.Notifications)
		me.POST("/inventory/:id/add", inventory.Add)
		me.POST("/inventory/:id/remove", inventory.Remove)

		me.POST("/appointments", appointments.Create)
		me.GET("/appointments", appointments.List)
		me.GET("/appointments/month", appointments.Month)
		me.PATCH("/appointments/:id/status", appointments.UpdateStatus)

		me.GET("/appointments/:id/checkout", checkouts.Get)
		me.GET("/appointments/:id/summary", checkouts.Summary)
		me.POST("/appointments/:id/services/:serviceId", checkouts.AttachService)
		me.DELETE("/appointments/:id/services/:serviceId", checkouts.DetachService)
		me.PUT("/appointments/:id/products/:productId", checkouts.SetProductQuantity)
		me.POST("/appointments/:id/products/:productId/increment", checkouts.IncrementProduct)
		me.POST("/appointments/:id/products/:productId/decrement", checkouts.DecrementProduct)
	}

	token, err := middleware.IssueToken(cfg, &fx.Admin, middleware.TokenAccess, time.Now())
	require.NoError(t, err)

	return &harness{t: t, db: db, fx: fx, cfg: cfg, router: r, token: token}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (h *harness) createAppointment(serviceIDs ...uint) map[string]any {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/me/appointments", gin.H{
		"client_id":   h.fx.Client.ID,
		"barber_id":   h.fx.Barbers[0].ID,
		"service_ids": serviceIDs,
		"date":        "2024-03-15",
		"time":        "14:00",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](h.t, w)
}

// ======================================================
// AUTH
// ======================================================

func TestAuthRegisterLoginRefresh(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	register := gin.H{
		"barbershop_name": "Corte Fino",
		"barbershop_slug": "Corte-Fino",
		"name":            "Ana",
		"email":           "Ana@CorteFino.test",
		"password":        "segredo1",
	}

	w := h.do(http.MethodPost, "/api/auth/register", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	session := decode[SessionResponse](t, w)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "ana@cortefino.test", session.User.Email)
	assert.Equal(t, []string{models.RoleBarbershopAdmin}, session.User.Roles)
	require.NotNil(t, session.Barbershop)
	assert.Equal(t, "corte-fino", session.Barbershop.Slug)
	assert.Equal(t, timezone.DefaultTimezone, session.Barbershop.Timezone)

	w = h.do(http.MethodPost, "/api/auth/register", register)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slug_already_exists", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ana@cortefino.test", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPost, "/api/auth/login", gin.H{"email": "ana@cortefino.test", "password": "segredo1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": session.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := decode[SessionResponse](t, w)
	assert.Equal(t, session.User.ID, refreshed.User.ID)

	w = h.do(http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": session.Token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_refresh_token", decode[errorBody](t, w).Code)
}

func TestAuthRegisterRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	base := func() gin.H {
		return gin.H{
			"barbershop_name": "Corte Fino",
			"barbershop_slug": "corte-fino",
			"name":            "Ana",
			"email":           "ana@cortefino.test",
			"password":        "segredo1",
		}
	}

	tests := []struct {
		name  string
		patch func(gin.H)
		code  string
	}{
		{"bad slug", func(b gin.H) { b["barbershop_slug"] = "corte fino!" }, "invalid_slug"},
		{"bad timezone", func(b gin.H) { b["barbershop_timezone"] = "Mars/Olympus" }, "invalid_timezone"},
		{"short password", func(b gin.H) { b["password"] = "123" }, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base()
			tt.patch(body)
			w := h.do(http.MethodPost, "/api/auth/register", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
		})
	}
}

func TestSecuredRoutesNeedToken(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	w := h.do(http.MethodGet, "/api/me/appointments", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ======================================================
// APPOINTMENTS
// ======================================================

func TestAppointmentLifecycleRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	corte, barba, pomada := h.fx.Services[0], h.fx.Services[1], h.fx.Items[0]

	ap := h.createAppointment(corte.ID, barba.ID)
	assert.Equal(t, "Corte + Barba", ap["service"])
	assert.Equal(t, "PENDING", ap["status"])
	assert.ElementsMatch(t, []any{"CONFIRMED", "CANCELED"}, ap["actions"])

	id := uint(ap["id"].(float64))
	base := fmt.Sprintf("/api/me/appointments/%d", id)

	w := h.do(http.MethodPatch, base+"/status", gin.H{"status": "DONE"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode[errorBody](t, w).Code)

	for _, s := range []string{"confirmed", "IN_PROGRESS"} {
		w = h.do(http.MethodPatch, base+"/status", gin.H{"status": s})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = h.do(http.MethodPut, fmt.Sprintf("%s/products/%d", base, pomada.ID), gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 80.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodPatch, base+"/status", gin.H{"status": "DONE"})
	require.Equal(t, http.StatusConflict, w.Code)

	var pending struct {
		Code    string `json:"error_code"`
		Summary struct {
			Total float64 `json:"total"`
			Text  string  `json:"text"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Equal(t, "confirmation_required", pending.Code)
	assert.Equal(t, 80.0, pending.Summary.Total)
	assert.Contains(t, pending.Summary.Text, "Cliente: João")

	w = h.do(http.MethodPatch, base+"/status", gin.H{"status": "DONE", "confirm": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[map[string]any](t, w)
	assert.Equal(t, "DONE", done["status"])
	assert.Empty(t, done["actions"])

	w = h.do(http.MethodPost, fmt.Sprintf("%s/products/%d/increment", base, pomada.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "appointment_closed", decode[errorBody](t, w).Code)
}

func TestCreateAppointmentValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		body   gin.H
		status int
		code   string
	}{
		{
			"no services",
			gin.H{"client_id": h.fx.Client.ID, "barber_id": h.fx.Barbers[0].ID, "date": "2024-03-15", "time": "14:00"},
			http.StatusBadRequest, "service_required",
		},
		{
			"bad time",
			gin.H{"client_id": h.fx.Client.ID, "barber_id": h.fx.Barbers[0].ID, "service_ids": []uint{h.fx.Services[0].ID}, "date": "2024-03-15", "time": "25:99"},
			http.StatusBadRequest, "invalid_date_or_time",
		},
		{
			"unknown barber",
			gin.H{"client_id": h.fx.Client.ID, "barber_id": 999, "service_ids": []uint{h.fx.Services[0].ID}, "date": "2024-03-15", "time": "14:00"},
			http.StatusNotFound, "barber_not_found",
		},
		{
			"unknown service",
			gin.H{"client_id": h.fx.Client.ID, "barber_id": h.fx.Barbers[0].ID, "service_ids": []uint{999}, "date": "2024-03-15", "time": "14:00"},
			http.StatusNotFound, "service_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/api/me/appointments", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
		})
	}
}

func TestListAppointmentsFilters(t *testing.T) {
	h := newHarness(t)
	h.createAppointment(h.fx.Services[0].ID)

	w := h.do(http.MethodGet, "/api/me/appointments?from=2024-03-15&to=2024-03-15&status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = h.do(http.MethodGet, fmt.Sprintf("/api/me/appointments?barber_id=%d", h.fx.Barbers[1].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = h.do(http.MethodGet, "/api/me/appointments?status=LATE", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_status", decode[errorBody](t, w).Code)

	w = h.do(http.MethodGet, "/api/me/appointments?barber_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_barber_id", decode[errorBody](t, w).Code)
}

func TestMonthView(t *testing.T) {
	h := newHarness(t)
	h.createAppointment(h.fx.Services[0].ID)

	w := h.do(http.MethodGet, "/api/me/appointments/month?year=2024&month=3&day=2024-03-15", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view struct {
		Timezone      string `json:"timezone"`
		LeadingBlanks int    `json:"leading_blanks"`
		Today         string `json:"today"`
		Cells         []struct {
			Day   string `json:"day"`
			Count int    `json:"count"`
			Today bool   `json:"today"`
		} `json:"cells"`
		Selected *string          `json:"selected"`
		Agenda   []map[string]any `json:"agenda"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, "America/Sao_Paulo", view.Timezone)
	assert.Equal(t, 5, view.LeadingBlanks)
	assert.Equal(t, "2024-03-10", view.Today)
	require.Len(t, view.Cells, 31)
	assert.Equal(t, 1, view.Cells[14].Count)
	assert.True(t, view.Cells[9].Today)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "2024-03-15", *view.Selected)
	assert.Len(t, view.Agenda, 1)

	w = h.do(http.MethodGet, "/api/me/appointments/month?year=2024&month=3&day=2024-04-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "day_outside_month", decode[errorBody](t, w).Code)

	w = h.do(http.MethodGet, "/api/me/appointments/month?year=2024&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_month", decode[errorBody](t, w).Code)
}

// ======================================================
// CHECKOUT
// ======================================================

func TestCheckoutEndpoints(t *testing.T) {
	h := newHarness(t)
	corte, barba, pomada, shampoo := h.fx.Services[0], h.fx.Services[1], h.fx.Items[0], h.fx.Items[1]

	ap := h.createAppointment(corte.ID)
	base := fmt.Sprintf("/api/me/appointments/%d", uint(ap["id"].(float64)))

	w := h.do(http.MethodGet, base+"/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 30.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodPost, fmt.Sprintf("%s/services/%d", base, barba.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodDelete, fmt.Sprintf("%s/services/%d", base, barba.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodPost, fmt.Sprintf("%s/products/%d/increment", base, pomada.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodPost, fmt.Sprintf("%s/products/%d/decrement", base, pomada.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	co := decode[checkout.Checkout](t, w)
	assert.Equal(t, 30.0, co.Total)
	assert.Empty(t, co.Products)

	w = h.do(http.MethodPost, fmt.Sprintf("%s/products/%d/increment", base, shampoo.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[checkout.Checkout](t, w).Products)

	w = h.do(http.MethodPut, fmt.Sprintf("%s/products/%d", base, pomada.ID), gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 75.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodPut, fmt.Sprintf("%s/products/%d", base, pomada.ID), gin.H{"quantity": -1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[checkout.Checkout](t, w).Products)

	w = h.do(http.MethodPut, fmt.Sprintf("%s/products/%d", base, pomada.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPost, fmt.Sprintf("%s/services/%d", base, 999), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service_not_found", decode[errorBody](t, w).Code)

	w = h.do(http.MethodGet, "/api/me/appointments/999/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", decode[errorBody](t, w).Code)

	w = h.do(http.MethodGet, "/api/me/appointments/abc/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decode[errorBody](t, w).Code)
}

// ======================================================
// CATALOG
// ======================================================

func TestServiceCatalog(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/me/services", gin.H{"name": "Corte + Barba", "duration_min": 40, "price": 45})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_service_name", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPost, "/api/me/services", gin.H{"name": "Pigmentação", "duration_min": 40, "price": 45})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Service](t, w)
	assert.True(t, created.Active)

	w = h.do(http.MethodDelete, fmt.Sprintf("/api/me/services/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[models.Service](t, w).Active)

	w = h.do(http.MethodGet, "/api/me/services?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Service](t, w), 3)

	w = h.do(http.MethodGet, "/api/me/services?query=barb", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Service](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Barba", list[0].Name)
}

func TestInventoryStockMovements(t *testing.T) {
	h := newHarness(t)
	pomada, shampoo := h.fx.Items[0], h.fx.Items[1]

	w := h.do(http.MethodGet, "/api/me/inventory/sellable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sellable := decode[[]models.InventoryItem](t, w)
	require.Len(t, sellable, 1)
	assert.Equal(t, "Pomada", sellable[0].Name)

	w = h.do(http.MethodPost, fmt.Sprintf("/api/me/inventory/%d/remove", pomada.ID), gin.H{"quantity": 6})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPost, fmt.Sprintf("/api/me/inventory/%d/remove", pomada.ID), gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[models.InventoryItem](t, w).Quantity)

	w = h.do(http.MethodPost, fmt.Sprintf("/api/me/inventory/%d/add", shampoo.ID), gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/me/inventory/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notes struct {
		Data []struct {
			Item  models.InventoryItem `json:"item"`
			Level string               `json:"nivel_critico"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Equal(t, 2, notes.Total)
	assert.Equal(t, "Shampoo", notes.Data[0].Item.Name)
	assert.Equal(t, "zerado", notes.Data[0].Level)
	assert.Equal(t, "Pomada", notes.Data[1].Item.Name)
	assert.Equal(t, "muito_baixo", notes.Data[1].Level)

	w = h.do(http.MethodPost, "/api/me/inventory/999/add", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "item_not_found", decode[errorBody](t, w).Code)
}

// ======================================================
// SHOP / TEAM
// ======================================================

func TestBarbershopSettings(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPatch, "/api/me/barbershop", gin.H{"timezone": "Nowhere/Else"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_timezone", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPatch, "/api/me/barbershop", gin.H{"timezone": "America/Manaus", "phone": " 1133334444 "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	shop := decode[models.Barbershop](t, w)
	assert.Equal(t, "America/Manaus", shop.Timezone)
	assert.Equal(t, "1133334444", shop.Phone)
	assert.Equal(t, "Navalha de Ouro", shop.Name)
}

func TestBarbersAndClients(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/me/barbers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]BarberResponse](t, w), 2)

	w = h.do(http.MethodPost, "/api/me/barbers", gin.H{"name": "Bruno", "email": "Bruno@navalha.test", "password": "navalha1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "bruno@navalha.test", decode[BarberResponse](t, w).Email)

	w = h.do(http.MethodPost, "/api/me/barbers", gin.H{"name": "Bruno", "email": "bruno@navalha.test", "password": "navalha1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodGet, "/api/me/barbers", nil)
	assert.Len(t, decode[[]BarberResponse](t, w), 3)

	w = h.do(http.MethodPost, "/api/me/clients", gin.H{"name": "Outro Nome", "phone": h.fx.Client.Phone})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, w.Code, w.Body.String())
	assert.Equal(t, "João", decode[models.Client](t, w).Name)
}

func TestBarberUpdateAndDeactivate(t *testing.T) {
	h := newHarness(t)
	rafael, tiago := h.fx.Barbers[0], h.fx.Barbers[1]
	path := fmt.Sprintf("/api/me/barbers/%d", rafael.ID)

	w := h.do(http.MethodPatch, path, gin.H{"name": " Rafa ", "phone": "11911112222"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[BarberResponse](t, w)
	assert.Equal(t, "Rafa", got.Name)
	assert.Equal(t, "11911112222", got.Phone)
	assert.Equal(t, rafael.Email, got.Email)

	w = h.do(http.MethodPatch, path, gin.H{"email": tiago.Email})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPatch, path, gin.H{"password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPatch, path, gin.H{"name": "  "})
	assert.Equal(t, "invalid_name", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/me/barbers/%d", h.fx.Admin.ID), gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "barber_not_found", decode[errorBody](t, w).Code)

	w = h.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[BarberResponse](t, w).Active)

	var stored models.User
	require.NoError(t, h.db.First(&stored, rafael.ID).Error)
	assert.False(t, stored.Active)

	w = h.do(http.MethodGet, "/api/me/barbers", nil)
	list := decode[[]BarberResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, tiago.ID, list[0].ID)

	w = h.do(http.MethodPost, "/api/me/appointments", gin.H{
		"client_id":   h.fx.Client.ID,
		"barber_id":   rafael.ID,
		"service_ids": []uint{h.fx.Services[0].ID},
		"date":        "2024-03-15",
		"time":        "14:00",
	})
	assert.Equal(t, "barber_not_found", decode[errorBody](t, w).Code)

	w = h.do(http.MethodPatch, path, gin.H{"active": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[BarberResponse](t, w).Active)
}

func TestDashboardMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	sp := timezone.Location("America/Sao_Paulo")

	h.fx.Appointment(t, h.db, "Corte", time.Date(2024, 3, 10, 9, 0, 0, 0, sp).UTC(), "DONE")
	h.fx.Appointment(t, h.db, "Barba", time.Date(2024, 3, 4, 9, 0, 0, 0, sp).UTC(), "DONE")
	h.fx.Appointment(t, h.db, "Corte", time.Date(2024, 3, 10, 16, 0, 0, 0, sp).UTC(), "PENDING")

	w := h.do(http.MethodGet, "/api/me/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode[dto.DashboardMetricsDTO](t, w)

	assert.Equal(t, "America/Sao_Paulo", out.Timezone)
	assert.Equal(t, dto.PeriodCountsDTO{Day: 1, Week: 1, Month: 2, Year: 2}, out.Appointments)
	assert.Equal(t, dto.PeriodCountsDTO{Day: 1, Week: 1, Month: 1, Year: 1}, out.ClientsServed)

	w = h.do(http.MethodGet, "/api/me/metrics?barber_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutWithoutPriorListingShowsBookedServices(t *testing.T) {
	h := newHarness(t)
	ap := h.fx.Appointment(t, h.db, "Corte + Barba", time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC), "IN_PROGRESS")

	w := h.do(http.MethodGet, fmt.Sprintf("/api/me/appointments/%d/checkout", ap.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50.0, decode[checkout.Checkout](t, w).Total)

	w = h.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/status", ap.ID), gin.H{"status": "DONE"})
	require.Equal(t, http.StatusConflict, w.Code)
	pending := decode[struct {
		Code    string `json:"error_code"`
		Summary struct {
			Total float64 `json:"total"`
		} `json:"summary"`
	}](t, w)
	assert.Equal(t, "confirmation_required", pending.Code)
	assert.Equal(t, 50.0, pending.Summary.Total)
}
