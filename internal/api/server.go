// SPDX-License-Identifier: MIT

// Package api serves the HTTP gateway: cached census table lookups,
// snapshot refresh control and the health probes.
package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pooja61096/uscensus/internal/cache"
	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/health"
	"github.com/pooja61096/uscensus/internal/jobs"
	"github.com/pooja61096/uscensus/internal/store"
)

// Options wires the server to its collaborators.
type Options struct {
	Client  *census.Client
	Cache   cache.Cache
	Store   *store.SnapshotStore
	Targets *config.TargetHolder
	Health  *health.Manager

	DataDir  string
	CacheTTL time.Duration

	// RateLimit is the per-client request budget per minute; zero
	// disables the limiter.
	RateLimit int

	// RefreshConcurrency bounds parallel upstream fetches during a
	// refresh run.
	RefreshConcurrency int

	Version string
}

// Server is the HTTP gateway. Construct it with New and mount Router.
type Server struct {
	client  *census.Client
	cache   cache.Cache
	store   *store.SnapshotStore
	targets *config.TargetHolder
	health  *health.Manager

	dataDir     string
	cacheTTL    time.Duration
	rateLimit   int
	concurrency int
	version     string

	refreshing atomic.Bool

	mu         sync.RWMutex
	lastStatus jobs.Status
}

func New(opts Options) *Server {
	c := opts.Cache
	if c == nil {
		c = cache.NewNoOpCache()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Server{
		client:      opts.Client,
		cache:       c,
		store:       opts.Store,
		targets:     opts.Targets,
		health:      opts.Health,
		dataDir:     opts.DataDir,
		cacheTTL:    ttl,
		rateLimit:   opts.RateLimit,
		concurrency: opts.RefreshConcurrency,
		version:     opts.Version,
	}
}

// Router builds the chi router with the full middleware stack and all
// routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	if s.rateLimit > 0 {
		r.Use(rateLimit("api", s.rateLimit, time.Minute))
	}

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/acs/detailed", s.dataset(census.DatasetACSDetailed, "year", "group", "span"))
		r.Get("/acs/subject", s.dataset(census.DatasetACSSubject, "year", "group"))
		r.Get("/acs/comparison", s.dataset(census.DatasetACSComparison, "year", "group"))
		r.Get("/acs/population", s.dataset(census.DatasetACSPopulation, "year", "group", "popgroup"))
		r.Get("/acs/supplemental", s.dataset(census.DatasetACSSupplemental, "year", "state"))

		r.Get("/ase/companies", s.dataset(census.DatasetASECompanies, "year", "state", "micro"))
		r.Get("/ase/businesses", s.dataset(census.DatasetASEBusinesses, "year", "state", "micro"))

		r.Get("/asm/area", s.dataset(census.DatasetASMArea, "year", "sector"))
		r.Get("/asm/series", s.dataset(census.DatasetASMSeries, "year", "sector", "cross", "state"))

		r.Get("/nonemployer", s.dataset(census.DatasetNonemployer, "year", "sector", "state"))
		r.Get("/cbp", s.dataset(census.DatasetCBP, "year", "sector", "state"))

		r.Get("/econ/{subset}", s.handleEcon)
		r.Get("/health-insurance", s.dataset(census.DatasetHealthInsurance, "year", "state", "county"))

		r.Get("/status", s.handleStatus)
		r.With(rateLimit("refresh", refreshLimit, time.Minute)).Post("/refresh", s.handleRefresh)
	})

	return r
}

// refreshLimit caps refresh requests per client and minute. Refreshes
// fan out to the upstream API, so the budget is deliberately small.
const refreshLimit = 6
