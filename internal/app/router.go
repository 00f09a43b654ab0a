package app

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/kevindiazor/ThePUL/internal/errors"
	customMiddleware "github.com/kevindiazor/ThePUL/internal/middleware"
	handlers "github.com/kevindiazor/ThePUL/internal/transport/http"
	ws "github.com/kevindiazor/ThePUL/internal/websocket"
)

// setupRouter configures the HTTP routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apierrors.NewErrorMiddleware(errorHandler, a.Logger).Handler)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Progress feed, kept outside the header and compression middleware
	r.Handle("/ws", ws.NewHandler(a.WebSocketHub, nil, a.Logger))

	// Prometheus scrape endpoint
	r.Handle("/metrics", handlers.MetricsHandler(a.OTelProviders))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.SecurityHeaders)

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/healthz", healthHandler.HealthCheck)
		r.Get("/healthz/ready", healthHandler.ReadinessCheck)

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.Compress(5))

			seasonHandler := handlers.NewSeasonHandler(a.SeasonService, errorHandler, a.Logger)
			seasonHandler.Register(r)

			r.Mount("/operations", handlers.NewOperationsHandler(a.Manager.GetBroadcaster(), errorHandler).Routes())

			limiter := customMiddleware.NewRateLimiter(a.Config.Server.RefreshPerMin, 1, errorHandler, a.Logger)
			r.With(limiter.Handler).Post("/refresh", seasonHandler.Refresh)
		})
	})

	a.Router = r
}
