package authapi

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Auditor records auth events. Recording is best-effort: failures are logged
// and never surfaced to the request.
type Auditor interface {
	Record(ctx context.Context, event string, userID, sessionID, detail string)
}

// NoopAuditor drops events.
type NoopAuditor struct{}

func (NoopAuditor) Record(context.Context, string, string, string, string) {}

// PostgresAuditor appends events to the audit_log table.
type PostgresAuditor struct {
	log    *slog.Logger
	pool   *pgxpool.Pool
	schema string
}

// NewPostgresAuditor constructs an auditor writing to schema.audit_log.
func NewPostgresAuditor(log *slog.Logger, pool *pgxpool.Pool, schema string) *PostgresAuditor {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(schema) == "" {
		schema = "notehub"
	}
	return &PostgresAuditor{log: log, pool: pool, schema: schema}
}

func (a *PostgresAuditor) Record(ctx context.Context, event string, userID, sessionID, detail string) {
	if a == nil || a.pool == nil {
		return
	}
	event = strings.TrimSpace(event)
	if event == "" {
		return
	}

	table := pgx.Identifier{a.schema, "audit_log"}.Sanitize()
	_, err := a.pool.Exec(ctx, `
		INSERT INTO `+table+` (event, user_id, session_id, detail, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, event, nilIfEmpty(userID), nilIfEmpty(sessionID), detail)
	if err != nil {
		a.log.Error("auth.audit.insert.fail", "err", err, "event", event)
	}
}

func nilIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
