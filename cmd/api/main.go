package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-desk/internal/audit"
	"github.com/BruksfildServices01/barber-desk/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-desk/internal/db"
	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
	"github.com/BruksfildServices01/barber-desk/internal/infra/linestore"
	"github.com/BruksfildServices01/barber-desk/internal/logging"
	"github.com/BruksfildServices01/barber-desk/internal/metrics"
	"github.com/BruksfildServices01/barber-desk/internal/middleware"
	"github.com/BruksfildServices01/barber-desk/internal/routes"
	"github.com/BruksfildServices01/barber-desk/internal/timezone"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg)

	db := dbpkg.NewDB(cfg, log)
	metrics.Register()

	store := lineItemStore(cfg, log)

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	defer dispatcher.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    log,
		Store:  store,
		Audit:  dispatcher,
		Clock:  timezone.System(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}

// lineItemStore picks Redis when configured and falls back to memory when
// the address is empty or unreachable at boot.
func lineItemStore(cfg *config.Config, log zerolog.Logger) lineitem.Store {
	if !cfg.UseRedis() {
		log.Info().Msg("line items kept in memory")
		return linestore.NewMemoryStore()
	}

	client := linestore.NewRedisClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := linestore.Ping(ctx, client); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, line items kept in memory")
		_ = client.Close()
		return linestore.NewMemoryStore()
	}

	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.LineItemTTL).Msg("line items kept in redis")
	return linestore.NewRedisStore(client, cfg.LineItemTTL)
}
