package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPDeps is what every service router needs besides its own routes.
// A nil Registry disables both request metrics and /metrics.
type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

// NewServiceRouter mounts routes behind request id, recovery, logging and
// metrics middleware, and exposes /metrics when enabled.
func NewServiceRouter(deps HTTPDeps, routes http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(Recoverer)
	r.Use(Logging(deps.Log))

	if deps.Registry != nil {
		r.Use(NewMetrics(deps.Registry).Middleware(deps.Service))

		if deps.MetricsEnabled {
			r.With(MetricsAuth(deps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Mount("/", routes)
	return r
}
