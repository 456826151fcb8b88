// Package app wires the Notehub server runtime: config, logging, metrics,
// database pool, migrations, and the HTTP surface.
//
// It is intentionally small and deterministic to keep startup behavior
// predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"notehub/cmd/identity"
	authapi "notehub/cmd/internal/auth/api"
	"notehub/cmd/internal/auth/session"
	"notehub/cmd/internal/notes"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the Notehub server runtime.
type App struct {
	cfg Config
	log Logger

	metrics *Metrics

	dbPool    *pgxpool.Pool
	dbEnabled bool

	auth  *authapi.Handler
	notes *notes.Handler
}

// New constructs a fully wired App instance from config and logger.
//
// Without a configured database the app still serves /healthz, /readyz and
// /metrics; the API surface requires Postgres and stays unregistered.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		metrics: NewMetrics(),
	}

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled")
		return a, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.dbPool = pool
	a.dbEnabled = true
	log.Info("db.enabled")

	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		pool.Close()
		return nil, err
	}
	sessStore, err := session.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	sessions := session.NewService(sessCfg, sessStore)

	authOpts := []authapi.HandlerOption{
		authapi.WithAuditor(authapi.NewPostgresAuditor(log, pool, "notehub")),
	}
	if smtp := authapi.LoadSMTPConfigFromEnv(); smtp.Host != "" {
		mailer, err := authapi.NewSMTPMailer(smtp)
		if err != nil {
			pool.Close()
			return nil, err
		}
		authOpts = append(authOpts, authapi.WithMailer(mailer))
		log.Info("mailer.smtp.enabled", "host", smtp.Host)
	} else {
		log.Info("mailer.noop")
	}

	authCfg := authapi.LoadConfigFromEnv()
	auth, err := authapi.NewHandler(log, authCfg, users, sessions, authOpts...)
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.auth = auth

	notesStore, err := notes.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	notesHandler, err := notes.NewHandler(log, notesStore, authapi.UserIDFromRequest)
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.notes = notesHandler

	return a, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error. The pool is closed last, after the server has drained.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.metrics, a.dbPool, a.dbEnabled, a.auth, a.notes)

	handler := WithRequestLogging(a.metrics.WithMetrics(mux), a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
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
