package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kaiwenhsu/posify-backend/api/controllers"
	"github.com/kaiwenhsu/posify-backend/api/middleware"
	"github.com/kaiwenhsu/posify-backend/internal/promotions"
	"github.com/kaiwenhsu/posify-backend/internal/quotes"
	"github.com/kaiwenhsu/posify-backend/pkg/config"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Cache      controllers.Pinger
	Promotions promotions.Service
	Quotes     quotes.Service
	Registry   prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.DB, p.Cache, p.Logger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	// Quote previews are called by every register terminal, no auth required.
	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.Post("/preview", controllers.PreviewQuote(p.Quotes, p.Logger))
	})

	r.Route("/api/v1/promotions", func(r chi.Router) {
		r.Use(middleware.Auth(p.Config.JWT, p.Logger))

		r.Get("/", controllers.ListPromotions(p.Promotions, p.Logger))
		r.Get("/{promotionID}", controllers.GetPromotion(p.Promotions, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePromotionManager(p.Logger))
			r.Post("/", controllers.CreatePromotion(p.Promotions, p.Logger))
			r.Patch("/{promotionID}", controllers.UpdatePromotion(p.Promotions, p.Logger))
			r.Delete("/{promotionID}", controllers.ArchivePromotion(p.Promotions, p.Logger))
		})
	})

	return r
}
