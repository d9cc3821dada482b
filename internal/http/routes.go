package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "maliyye/internal/log"
	"maliyye/internal/middleware/security"
	"maliyye/internal/middleware/trace"
)

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger, s.metrics)

	r.Use(middleware.Recoverer)
	r.Use(tracer.Middleware)
	r.Use(applog.Middleware(opts.Logger))
	r.Use(applog.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}))
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/kpi", s.handleKPI)
		r.Get("/summary", s.handleSummary)
		r.Get("/trends", s.handleTrends)

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", s.handleLedger)
			r.Get("/yearly", s.handleYearlyTotals)
			r.Put("/{year}/{month}", s.handleUpsertMonth)
		})

		r.Put("/expense-categories", s.handleReplaceCategories)

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", s.handleAddPayment)
			r.Get("/due", s.handleDuePayments)
			r.Delete("/{index}", s.handleRemovePayment)
		})

		r.Post("/simulate", s.handleSimulate)
		r.Post("/import", s.handleImport)
		r.Post("/reset", s.handleReset)
	})

	return r
}
