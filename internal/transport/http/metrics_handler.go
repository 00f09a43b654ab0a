package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kevindiazor/ThePUL/internal/infrastructure"
)

// MetricsHandler returns the Prometheus scrape handler. It prefers the
// registry the OpenTelemetry exporter writes to and falls back to the
// default Prometheus registry.
func MetricsHandler(providers *infrastructure.OTelProviders) http.Handler {
	if providers != nil && providers.PrometheusHTTP != nil {
		return providers.PrometheusHTTP
	}
	return promhttp.Handler()
}
