package server

import (
	"net/http"

	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /compute-embeddings", handler.HandleComputeEmbeddings)
	mux.HandleFunc("GET /models", handler.HandleModels)
	mux.HandleFunc("GET /health", handler.HandleHealth)

	mux.HandleFunc("POST /api/compare", handler.HandleCreateComparison)
	mux.HandleFunc("GET /api/compare", handler.HandleListComparisons)
	mux.HandleFunc("DELETE /api/compare/{id}", handler.HandleDeleteComparison)
}

type RouterOptions struct {
	// ServeMetrics mounts GET /metrics on the router.
	ServeMetrics bool
	// RateLimit is the allowed requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter wires routes and middleware into one handler.
func NewRouter(
	handler *Handler,
	m *metrics.Metrics,
	log *logger.Logger,
	opts RouterOptions,
) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, handler)
	if opts.ServeMetrics {
		mux.Handle("GET /metrics", m.Handler())
	}

	var h http.Handler = mux
	if opts.RateLimit > 0 {
		h = rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1)), h)
	}
	h = cors(h)
	h = observe(m, log, h)
	return otelhttp.NewHandler(h, "textsim")
}
