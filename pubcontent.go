// Package pubcontent declares the "blog" content collection of a static-site
// blog and validates entry front matter against its schema.
//
// The core is ValidateBlogEntry, a pure function over a raw front matter
// record. Around it the package offers a front matter loader, a collection
// check that produces a Report, a SQLite index of checked entries, and a
// read-only report server that re-checks the collection when files change.
package pubcontent

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// App wires together the index, cache, metrics and report server.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Store   *Store
	Cache   *EntryCache
	Metrics *Metrics

	limiter *Limiter
	syncMu  sync.Mutex // serializes Sync
	mu      sync.RWMutex
	report  *Report
}

// New creates an App with the given configuration. Defaults are applied to
// unset fields.
func New(cfg Config) *App {
	cfg.SetDefaults()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &App{
		Config:  cfg,
		Echo:    e,
		Metrics: NewMetrics(),
		limiter: NewLimiter(cfg.ValidateRateLimit, time.Minute),
	}
}

// Open validates the configuration and opens the entry index.
func (a *App) Open() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pubcontent: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewEntryCache(store, a.Config.CacheTTL)
	return nil
}

// Sync checks the collection, replaces the index with the result and drops
// cached reads. The report is returned even when it contains failures.
// Concurrent calls run one at a time.
func (a *App) Sync() (*Report, error) {
	if a.Store == nil {
		return nil, errors.New("pubcontent: sync before Open")
	}
	a.syncMu.Lock()
	defer a.syncMu.Unlock()

	report, err := CheckCollection(a.Config.ContentDir, a.Config.CheckOptions(a.Metrics)...)
	if err != nil {
		return nil, err
	}
	if err := a.Store.ReplaceCollection(report); err != nil {
		return nil, fmt.Errorf("pubcontent: index %s: %w", report.Collection, err)
	}
	a.Cache.Invalidate()

	a.mu.Lock()
	a.report = report
	a.mu.Unlock()
	return report, nil
}

// LastReport returns the report from the most recent Sync, or nil.
func (a *App) LastReport() *Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report
}

// Handler sets up middleware and routes and returns the HTTP handler.
// Call it once.
func (a *App) Handler() http.Handler {
	a.setupMiddleware()
	a.setupRoutes()
	return a.Echo
}

// Start opens the index, runs an initial sync, starts watching the content
// directory and serves the report API until the server stops.
func (a *App) Start() error {
	if err := a.Open(); err != nil {
		return err
	}
	if _, err := a.Sync(); err != nil {
		return err
	}
	stopWatch, err := a.Watch()
	if err != nil {
		return fmt.Errorf("pubcontent: watch: %w", err)
	}
	defer stopWatch()

	a.Handler()
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	e.GET("/report", a.handleReport)

	api := e.Group("/api/collections")
	api.GET("", a.handleCollections)
	api.GET("/:name/entries", a.handleEntries)
	api.GET("/:name/entries/*", a.handleEntry)
	api.GET("/:name/tags", a.handleTags)
	api.GET("/:name/failures", a.handleFailures)
	api.POST("/:name/validate", a.handleValidate, a.limiter.Middleware)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	a.limiter.Stop()
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
