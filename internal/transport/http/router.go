// Package httptransport wires the public HTTP surface. Handlers stay thin;
// lifecycle decisions live in the domain services.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applicationhandler "intake/internal/application/handler"
	cataloghandler "intake/internal/catalog/handler"
	documenthandler "intake/internal/document/handler"
	"intake/internal/platform/metrics"
	"intake/internal/platform/middleware"
)

// Handlers collects every domain handler the router mounts.
type Handlers struct {
	Applications *applicationhandler.Handler
	Documents    *documenthandler.Handler
	Catalog      *cataloghandler.Handler
}

// NewRouter builds the chi router with the shared middleware chain.
func NewRouter(h Handlers, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(m))

	r.Route("/api", func(api chi.Router) {
		h.Applications.Register(api)
		h.Documents.Register(api)
		h.Catalog.Register(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
