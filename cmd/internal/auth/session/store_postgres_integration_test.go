package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"notehub/cmd/identity/ids"
)

// Integration tests are enabled when NOTEHUB_DATABASE_URL is set.

func mustPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("NOTEHUB_DATABASE_URL")
	if dbURL == "" {
		t.Skip("NOTEHUB_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	return pool
}

// seedUser inserts a throwaway user so session rows satisfy the FK.
func seedUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	now := time.Now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	email := "sess-" + id + "@example.com"

	_, err = pool.Exec(ctx,
		`INSERT INTO notehub.users (id, email, email_norm, username, avatar, created_at, updated_at)
		 VALUES ($1, $2, $2, $3, '', $4, $4)`,
		id, email, "sess-"+id, now,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM notehub.sessions WHERE user_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM notehub.users WHERE id = $1`, id)
	})
	return id
}

func TestPostgresSessionLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPool(ctx, t)
	defer pool.Close()

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	userID := seedUser(ctx, t, pool)
	svc := NewService(DefaultConfig(), store)
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	row, err := svc.ValidateAccess(ctx, issued.AccessToken, now.Add(time.Second))
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if row.UserID != userID {
		t.Fatalf("wrong user: %q", row.UserID)
	}

	rotated, err := svc.Rotate(ctx, now.Add(time.Minute), issued.SessionID, issued.RefreshToken)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if _, err := svc.ValidateAccess(ctx, issued.AccessToken, now.Add(time.Minute)); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("old access token after rotation: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.ValidateAccess(ctx, rotated.AccessToken, now.Add(time.Minute)); err != nil {
		t.Fatalf("rotated access token: %v", err)
	}

	if err := svc.DeleteAllForUser(ctx, userID); err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	if _, err := svc.ValidateAccess(ctx, rotated.AccessToken, now.Add(time.Minute)); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("after revocation: expected ErrSessionNotFound, got %v", err)
	}
}

func TestPostgresReplaceRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPool(ctx, t)
	defer pool.Close()

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	userID := seedUser(ctx, t, pool)
	svc := NewService(DefaultConfig(), store)
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Rotate(ctx, now, issued.SessionID, issued.RefreshToken); err != nil {
		t.Fatalf("first rotation: %v", err)
	}

	// A replayed refresh must be rejected outright.
	if _, err := svc.Rotate(ctx, now, issued.SessionID, issued.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("replayed rotation: expected ErrSessionNotFound, got %v", err)
	}
}
