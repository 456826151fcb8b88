package app

import (
	"net/http"
	"time"

	authapi "notehub/cmd/internal/auth/api"
	"notehub/cmd/internal/notes"

	"github.com/jackc/pgx/v5/pgxpool"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	cfg Config,
	metrics *Metrics,
	dbPool *pgxpool.Pool,
	dbEnabled bool,
	auth *authapi.Handler,
	notesHandler *notes.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireDB && !dbEnabled {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}

		if dbEnabled && dbPool != nil {
			if err := PingDB(r.Context(), dbPool, 2*time.Second); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				log.Info("readyz.db.not_ready", "err", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}

	if auth != nil {
		auth.Register(mux)
	}

	// Notes sit entirely behind the authentication gate.
	if auth != nil && notesHandler != nil {
		notesMux := http.NewServeMux()
		notesHandler.Register(notesMux)
		protected := auth.RequireAuth(notesMux)
		mux.Handle("/notes", protected)
		mux.Handle("/notes/", protected)
	}
}
