// Package app wires the IndieChat server runtime: config, logging, metrics,
// conversation persistence, the proxy endpoints, and the event gateway.
//
// It is intentionally small and deterministic to keep behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"indiechat/cmd/internal/chat"
	"indiechat/cmd/internal/events"
	"indiechat/cmd/internal/kv"
	"indiechat/cmd/internal/proxy"
)

// App is the IndieChat server runtime: it owns HTTP wiring and the stores
// behind it.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	store   chat.Store
	gateway *events.Gateway
	chats   *chat.Handler
	proxy   *proxy.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	store, dbPool, dbEnabled, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	gateway := events.NewGateway(log, events.NewHub(log), cfg.WSAllowedOrigins)
	svc := chat.NewService(log, store)

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		store:     store,
		gateway:   gateway,
		chats:     chat.NewHandler(log, store, svc, gateway.Hub()),
		proxy: proxy.NewHandler(log, proxy.Config{
			UpstreamURL: cfg.UpstreamURL,
			Secret:      cfg.UpstreamSecret,
			Timeout:     cfg.UpstreamTimeout,
		}),
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.chats, a.proxy, a.gateway)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(WithMetrics(mux), a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between Postgres-backed persistence and the kv-backed
// store (file-backed with a data dir, in-memory without).
func newStore(ctx context.Context, cfg Config, log Logger) (chat.Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		if cfg.DataDir == "" {
			log.Info("db.disabled.inmemory_store")
			return chat.NewKVStore(log, kv.NewMemStore()), nil, false, nil
		}

		backend, err := kv.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, false, err
		}
		log.Info("db.disabled.file_store", "dir", cfg.DataDir)
		return chat.NewKVStore(log, backend), nil, false, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, err
	}

	// Ownership model: app owns the pool lifecycle.
	store, err := chat.NewPostgresStore(log, pool, chat.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, nil, false, err
	}

	log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema)
	return store, pool, true, nil
}
