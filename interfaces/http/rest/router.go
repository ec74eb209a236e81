// Package rest wires the REST interface: routing, middleware and handler
// construction.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sarscov2kg/application/services"
	"sarscov2kg/infrastructure/config"
	"sarscov2kg/infrastructure/corpus"
	"sarscov2kg/interfaces/http/rest/handlers"
	"sarscov2kg/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router.
type Router struct {
	registry *services.GraphRegistry
	backend  *corpus.Backend
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	registry *services.GraphRegistry,
	backend *corpus.Backend,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		registry: registry,
		backend:  backend,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics())
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and observability
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		graphHandler := handlers.NewGraphHandler(rt.registry, rt.cfg.MaxPathDepth, rt.logger)
		traceHandler := handlers.NewTraceHandler(rt.registry, rt.logger)
		analysisHandler := handlers.NewAnalysisHandler(rt.registry, rt.logger)

		r.Route("/graphs", func(r chi.Router) {
			r.Post("/", graphHandler.CreateGraph)
			r.Get("/", graphHandler.ListGraphs)

			r.Route("/{graphID}", func(r chi.Router) {
				r.Get("/", graphHandler.GetGraph)
				r.Get("/statistics", graphHandler.GetStatistics)
				r.Get("/coverage", analysisHandler.GetMetrics)

				r.Post("/base-nodes", graphHandler.AddBaseNode)
				r.Post("/nodes", graphHandler.AddIntentNode)
				r.Get("/nodes", graphHandler.ListNodes)
				r.Post("/edges", graphHandler.AddEdge)
				r.Get("/edges", graphHandler.ListEdges)

				r.Post("/hypothesis-paths", graphHandler.AddHypothesisPath)
				r.Get("/paths", graphHandler.FindPaths)

				r.Route("/traces", func(r chi.Router) {
					r.Post("/", traceHandler.CreateTrace)
					r.Get("/", traceHandler.ListTraces)
					r.Post("/{sessionID}/steps", traceHandler.AddStep)
					r.Get("/{sessionID}/summary", traceHandler.GetTraceSummary)
				})

				r.Put("/curves/{intent}", traceHandler.PutCurve)
				r.Get("/curves/{intent}", traceHandler.GetCurve)

				r.Post("/governance/check", analysisHandler.GovernanceCheck)
			})
		})

		retrievalHandler := handlers.NewRetrievalHandler(rt.backend, rt.logger)
		r.Post("/retrieval/search", retrievalHandler.Search)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
