package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"openrepowiki/internal/handlers"
	"openrepowiki/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QueueService      service.QueueService
	RepositoryService service.RepositoryService
	SearchService     service.SearchService
	DB                handlers.DBPinger
	VectorStore       handlers.Pinger // nil when the search index is disabled
	Gatherer          prometheus.Gatherer
	AllowedOrigins    []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	queueHandler := handlers.NewQueueHandler(deps.QueueService)
	repositoryHandler := handlers.NewRepositoryHandler(deps.RepositoryService)
	searchHandler := handlers.NewSearchHandler(deps.SearchService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/queue", queueHandler)
		r.Method(http.MethodPost, "/queue", queueHandler)
		r.Get("/repositories", repositoryHandler.List)
		r.Get("/repositories/{owner}/{repo}", repositoryHandler.Get)
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	return r
}
