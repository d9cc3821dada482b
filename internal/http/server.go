// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"maliyye/internal/cache"
	"maliyye/internal/core"
	applog "maliyye/internal/log"
	"maliyye/internal/metrics"
	"maliyye/internal/middleware/ratelimit"
	"maliyye/internal/middleware/security"
	"maliyye/internal/services"
)

// Options tunes the server's middleware and view caches
type Options struct {
	RateLimitPerMinute int
	RateLimitBurst     int
	CacheTTL           time.Duration
	CacheSize          int
	AllowedOrigins     []string
	TrustedProxies     []string
	Logger             *applog.Logger
	Now                func() time.Time
}

func DefaultOptions() Options {
	return Options{
		RateLimitPerMinute: 120,
		RateLimitBurst:     20,
		CacheTTL:           5 * time.Minute,
		CacheSize:          128,
		AllowedOrigins:     []string{"*"},
	}
}

type Server struct {
	http.Server
	svc      *services.LedgerService
	metrics  *metrics.Metrics
	log      *applog.StructuredLogger
	validate *validator.Validate
	detector *security.Detector
	limiter  *ratelimit.Limiter
	now      func() time.Time

	caches       *cache.Manager
	kpiCache     *cache.ViewCache[core.KPI]
	summaryCache *cache.ViewCache[core.Summary]
	yearlyCache  *cache.ViewCache[[]core.YearTotal]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.LedgerService, m *metrics.Metrics, opts Options) *Server {
	def := DefaultOptions()
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = def.AllowedOrigins
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		svc:      svc,
		metrics:  m,
		log:      applog.NewStructuredLogger(opts.Logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		detector: security.NewDetector(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			Burst:             opts.RateLimitBurst,
		}),
		now:          opts.Now,
		caches:       cache.NewManager(),
		kpiCache:     cache.NewViewCache[core.KPI]("kpi", opts.CacheSize, opts.CacheTTL, m),
		summaryCache: cache.NewViewCache[core.Summary]("summary", opts.CacheSize, opts.CacheTTL, m),
		yearlyCache:  cache.NewViewCache[[]core.YearTotal]("yearly", opts.CacheSize, opts.CacheTTL, m),
	}

	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			opts.Logger.Warn("Ignoring trusted proxy", "cidr", cidr, "error", err)
		}
	}

	s.caches.Register(s.kpiCache)
	s.caches.Register(s.summaryCache)
	s.caches.Register(s.yearlyCache)
	s.caches.StartCleanup(opts.CacheTTL)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the background routines and then the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Close releases background routines without serving; used by tests
func (s *Server) Close() {
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
	})
}
