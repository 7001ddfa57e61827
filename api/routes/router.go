package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hireloop-io/hireloop-backend/api/controllers"
	"github.com/hireloop-io/hireloop-backend/api/middleware"
	"github.com/hireloop-io/hireloop-backend/internal/catalog"
	"github.com/hireloop-io/hireloop-backend/internal/headhunting"
	"github.com/hireloop-io/hireloop-backend/internal/refunds"
	"github.com/hireloop-io/hireloop-backend/internal/reporting"
	"github.com/hireloop-io/hireloop-backend/pkg/config"
	"github.com/hireloop-io/hireloop-backend/pkg/db"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	"github.com/hireloop-io/hireloop-backend/pkg/logger"
	"github.com/hireloop-io/hireloop-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	headhuntingService headhunting.Service,
	refundService refunds.Service,
	reportingService reporting.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// a typed nil *redis.Client must not reach interface parameters
	var cachePinger redis.Pinger
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		cachePinger = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/catalog", controllers.CatalogList(catalogService, logg))

		r.Get("/headhunting", controllers.HeadhuntingList(headhuntingService, logg))
		r.Post("/headhunting", controllers.HeadhuntingCreate(headhuntingService, logg))

		r.Post("/refunds", controllers.RefundRequest(refundService, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/usage", controllers.ReportUsage(reportingService, logg))
			r.Get("/payments", controllers.ReportPayments(reportingService, logg))
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.ActorRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/{productID}", controllers.CatalogGetProduct(catalogService, logg))
			r.Patch("/{productID}", controllers.CatalogUpdateTier(catalogService, logg))
		})

		r.Get("/refunds", controllers.RefundList(refundService, logg))
		r.Get("/refunds/{refundID}", controllers.RefundGet(refundService, logg))
		r.Post("/refunds/{refundID}/status", controllers.RefundUpdateStatus(refundService, logg))
	})

	return r
}
