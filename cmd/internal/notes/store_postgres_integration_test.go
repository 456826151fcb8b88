package notes

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

func seedUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	now := time.Now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	email := "notes-" + id + "@example.com"

	_, err = pool.Exec(ctx,
		`INSERT INTO notehub.users (id, email, email_norm, username, avatar, created_at, updated_at)
		 VALUES ($1, $2, $2, $3, '', $4, $4)`,
		id, email, "notes-"+id, now,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM notehub.notes WHERE user_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM notehub.users WHERE id = $1`, id)
	})
	return id
}

func TestPostgresNotesCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPool(ctx, t)
	defer pool.Close()

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	userID := seedUser(ctx, t, pool)
	otherID := seedUser(ctx, t, pool)
	now := time.Now().UTC()

	created, err := store.Create(ctx, CreateInput{
		UserID:  userID,
		Title:   "Buy milk",
		Content: "two liters, whole",
		Tag:     TagShopping,
		Now:     now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Buy milk" || got.Tag != TagShopping {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	// Another user cannot see, update, or delete it.
	if _, err := store.Get(ctx, otherID, created.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("cross-tenant Get: %v", err)
	}
	title := "mine"
	if _, err := store.Update(ctx, otherID, created.ID, UpdateInput{Title: &title, Now: now}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("cross-tenant Update: %v", err)
	}
	if _, err := store.Delete(ctx, otherID, created.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("cross-tenant Delete: %v", err)
	}

	updated, err := store.Update(ctx, userID, created.ID, UpdateInput{Title: &title, Now: now.Add(time.Second)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "mine" || updated.Content != created.Content {
		t.Fatalf("partial update mismatch: %+v", updated)
	}

	deleted, err := store.Delete(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != created.ID {
		t.Fatalf("deleted wrong note: %+v", deleted)
	}
	if _, err := store.Get(ctx, userID, created.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("Get after delete: %v", err)
	}
}

func TestPostgresNotesSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPool(ctx, t)
	defer pool.Close()

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	userID := seedUser(ctx, t, pool)
	now := time.Now().UTC()

	seed := []CreateInput{
		{UserID: userID, Title: "Grocery run", Content: "milk and bread", Tag: TagShopping, Now: now},
		{UserID: userID, Title: "Quarterly planning", Content: "budget review with milk analogies", Tag: TagWork, Now: now},
		{UserID: userID, Title: "Dentist", Content: "ask about whitening", Tag: TagHealth, Now: now},
	}
	for _, in := range seed {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("seed Create: %v", err)
		}
	}

	res, err := store.List(ctx, userID, ListQuery{Search: "milk"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.TotalNotes != 2 {
		t.Fatalf("search totalNotes = %d, want 2", res.TotalNotes)
	}

	res, err = store.List(ctx, userID, ListQuery{Tag: TagWork, Search: "milk"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.TotalNotes != 1 || res.Notes[0].Title != "Quarterly planning" {
		t.Fatalf("combined filter mismatch: %+v", res)
	}

	// Stemming: "plan" matches "planning" through the english config.
	res, err = store.List(ctx, userID, ListQuery{Search: "plan"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.TotalNotes != 1 {
		t.Fatalf("stemmed search totalNotes = %d, want 1", res.TotalNotes)
	}
}
