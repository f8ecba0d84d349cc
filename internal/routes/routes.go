package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	"github.com/BruksfildServices01/barber-desk/internal/config"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-desk/internal/infra/repository"
	"github.com/BruksfildServices01/barber-desk/internal/middleware"
	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-desk/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-desk/internal/usecase/checkout"
)

// Deps carries the process-wide singletons the API is built from.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    zerolog.Logger
	Store  lineitem.Store
	Audit  *audit.Dispatcher
	Clock  timezone.Clock
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db, cfg := deps.DB, deps.Config

	clock := deps.Clock
	if clock == nil {
		clock = timezone.System()
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	reconciler := checkout.NewReconciler(
		appointmentRepo,
		deps.Store,
		deps.Audit,
		deps.Log,
		checkout.Options{
			PersistAttachedServices: cfg.PersistAttachedServices,
			WarnUnmatched:           cfg.WarnUnmatchedServices,
		},
	)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		reconciler,
		deps.Audit,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(
		appointmentRepo,
		reconciler,
	)

	updateStatusUC := ucAppointment.NewUpdateStatus(
		appointmentRepo,
		reconciler,
		deps.Audit,
		clock,
		deps.Log,
	)

	monthViewUC := ucAppointment.NewMonthView(
		appointmentRepo,
		clock,
	)

	dashboardMetricsUC := ucAppointment.NewDashboardMetrics(
		appointmentRepo,
		clock,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)
	barberHandler := handlers.NewBarberHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	inventoryHandler := handlers.NewInventoryHandler(db, deps.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		listAppointmentsUC,
		updateStatusUC,
		monthViewUC,
	)
	checkoutHandler := handlers.NewCheckoutHandler(reconciler)
	metricsHandler := handlers.NewMetricsHandler(dashboardMetricsUC)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(
			middleware.AuthMiddleware(cfg),
			middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
			middleware.RequireRole(models.RoleBarbershopAdmin, models.RoleAdmin),
		)
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
			secured.PATCH("/me/barbershop", barbershopHandler.UpdateMeBarbershop)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)

			secured.GET("/me/barbers", barberHandler.List)
			secured.POST("/me/barbers", barberHandler.Create)
			secured.PATCH("/me/barbers/:id", barberHandler.Update)
			secured.DELETE("/me/barbers/:id", barberHandler.Delete)

			secured.GET("/me/metrics", metricsHandler.Get)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			secured.GET("/me/inventory", inventoryHandler.List)
			secured.GET("/me/inventory/sellable", inventoryHandler.Sellable)
			secured.GET("/me/inventory/notifications", inventoryHandler.Notifications)
			secured.POST("/me/inventory", inventoryHandler.Create)
			secured.PATCH("/me/inventory/:id", inventoryHandler.Update)
			secured.DELETE("/me/inventory/:id", inventoryHandler.Delete)
			secured.POST("/me/inventory/:id/add", inventoryHandler.Add)
			secured.POST("/me/inventory/:id/remove", inventoryHandler.Remove)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.GET("/me/appointments/month", appointmentHandler.Month)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.UpdateStatus)

			// ------------------------------
			// CHECKOUT
			// ------------------------------
			secured.GET("/me/appointments/:id/checkout", checkoutHandler.Get)
			secured.GET("/me/appointments/:id/summary", checkoutHandler.Summary)
			secured.POST("/me/appointments/:id/services/:serviceId", checkoutHandler.AttachService)
			secured.DELETE("/me/appointments/:id/services/:serviceId", checkoutHandler.DetachService)
			secured.PUT("/me/appointments/:id/products/:productId", checkoutHandler.SetProductQuantity)
			secured.POST("/me/appointments/:id/products/:productId/increment", checkoutHandler.IncrementProduct)
			secured.POST("/me/appointments/:id/products/:productId/decrement", checkoutHandler.DecrementProduct)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
