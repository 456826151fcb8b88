package notes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notehub/cmd/identity/ids"
)

// Pagination bounds. Requests outside the window are clamped, not rejected.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MinPerPage     = 5
	MaxPerPage     = 20
)

// Normalize clamps paging values into their allowed windows.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	switch {
	case q.PerPage == 0:
		q.PerPage = DefaultPerPage
	case q.PerPage < MinPerPage:
		q.PerPage = MinPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Full-text search runs against the stored generated search_vector column
// (title weighted A, content weighted B) through its GIN index.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema used by the notes store (default "notehub").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("notes: empty schema")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "notehub",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("notes: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "notes"}.Sanitize()
}

// Create inserts a new note and returns it.
func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	tag := in.Tag
	if tag == "" {
		tag = DefaultTag
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Note{}, err
	}

	n := Note{
		ID:        id,
		UserID:    in.UserID,
		Title:     in.Title,
		Content:   in.Content,
		Tag:       tag,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (id, user_id, title, content, tag, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		n.ID, n.UserID, n.Title, n.Content, string(n.Tag), now,
	)
	if err != nil {
		return Note{}, fmt.Errorf("notes: create: %w", err)
	}
	return n, nil
}

// Get loads one of the user's notes.
func (s *PostgresStore) Get(ctx context.Context, userID, noteID string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	var n Note
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, tag, created_at, updated_at
		   FROM `+s.table()+`
		  WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tag, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNoteNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// List returns one page of the user's notes plus totals.
func (s *PostgresStore) List(ctx context.Context, userID string, q ListQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, err
	}

	q = q.Normalize()

	where := []string{"user_id = $1"}
	args := []any{userID}

	if q.Tag != "" {
		args = append(args, string(q.Tag))
		where = append(where, "tag = $"+strconv.Itoa(len(args)))
	}
	if q.Search != "" {
		args = append(args, q.Search)
		where = append(where, "search_vector @@ plainto_tsquery('english', $"+strconv.Itoa(len(args))+")")
	}

	cond := strings.Join(where, " AND ")

	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM `+s.table()+` WHERE `+cond,
		args...,
	).Scan(&total)
	if err != nil {
		return ListResult{}, fmt.Errorf("notes: count: %w", err)
	}

	limitArgs := append(args, q.PerPage, (q.Page-1)*q.PerPage)
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, content, tag, created_at, updated_at
		   FROM `+s.table()+`
		  WHERE `+cond+`
		  ORDER BY id
		  LIMIT $`+strconv.Itoa(len(args)+1)+` OFFSET $`+strconv.Itoa(len(args)+2),
		limitArgs...,
	)
	if err != nil {
		return ListResult{}, fmt.Errorf("notes: list: %w", err)
	}
	defer rows.Close()

	items := make([]Note, 0, q.PerPage)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tag, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return ListResult{}, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalNotes: total,
		TotalPages: totalPages(total, q.PerPage),
		Notes:      items,
	}, nil
}

// Update applies a partial update and returns the new state of the note.
func (s *PostgresStore) Update(ctx context.Context, userID, noteID string, in UpdateInput) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}

	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Content != nil {
		add("content", *in.Content)
	}
	if in.Tag != nil {
		add("tag", string(*in.Tag))
	}
	if len(set) == 0 {
		return s.Get(ctx, userID, noteID)
	}
	add("updated_at", now)

	args = append(args, noteID, userID)
	var n Note
	err := s.pool.QueryRow(ctx,
		`UPDATE `+s.table()+`
		    SET `+strings.Join(set, ", ")+`
		  WHERE id = $`+strconv.Itoa(len(args)-1)+` AND user_id = $`+strconv.Itoa(len(args))+`
		  RETURNING id, user_id, title, content, tag, created_at, updated_at`,
		args...,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tag, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNoteNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// Delete removes the note and returns it as it was.
func (s *PostgresStore) Delete(ctx context.Context, userID, noteID string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	var n Note
	err := s.pool.QueryRow(ctx,
		`DELETE FROM `+s.table()+`
		  WHERE id = $1 AND user_id = $2
		  RETURNING id, user_id, title, content, tag, created_at, updated_at`,
		noteID, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tag, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, ErrNoteNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// totalPages is ceil(total/perPage); zero notes means zero pages.
func totalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
