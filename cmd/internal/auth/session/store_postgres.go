package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Digests are stored as hex text and matched exactly, so lookups use the
// plain unique indexes on access_token_hash and (id, refresh_token_hash).
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema used by the session store (default "notehub").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("session: empty schema")
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
		return nil, fmt.Errorf("session: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "sessions"}.Sanitize()
}

// Create inserts a new session row.
func (s *PostgresStore) Create(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (
		     id, user_id, access_token_hash, refresh_token_hash,
		     access_expires_at, refresh_expires_at, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID,
		row.UserID,
		row.AccessTokenHash,
		row.RefreshTokenHash,
		row.AccessExpiresAt,
		row.RefreshExpiresAt,
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	return nil
}

// GetByAccessHash returns the session whose access digest matches exactly.
func (s *PostgresStore) GetByAccessHash(ctx context.Context, accessHash string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}

	var row Row
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, access_token_hash, refresh_token_hash,
		        access_expires_at, refresh_expires_at, created_at
		   FROM `+s.table()+`
		  WHERE access_token_hash = $1`,
		accessHash,
	).Scan(
		&row.ID,
		&row.UserID,
		&row.AccessTokenHash,
		&row.RefreshTokenHash,
		&row.AccessExpiresAt,
		&row.RefreshExpiresAt,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrSessionNotFound
		}
		return Row{}, err
	}
	return row, nil
}

// GetByIDAndRefreshHash returns the session with the given ID whose refresh
// digest matches exactly.
func (s *PostgresStore) GetByIDAndRefreshHash(ctx context.Context, id, refreshHash string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}

	var row Row
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, access_token_hash, refresh_token_hash,
		        access_expires_at, refresh_expires_at, created_at
		   FROM `+s.table()+`
		  WHERE id = $1 AND refresh_token_hash = $2`,
		id, refreshHash,
	).Scan(
		&row.ID,
		&row.UserID,
		&row.AccessTokenHash,
		&row.RefreshTokenHash,
		&row.AccessExpiresAt,
		&row.RefreshExpiresAt,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrSessionNotFound
		}
		return Row{}, err
	}
	return row, nil
}

// Replace atomically swaps oldID for next within a single transaction.
//
// Concurrent rotations of the same session race on the DELETE: exactly one
// wins, the loser observes zero rows deleted and gets ErrSessionNotFound.
func (s *PostgresStore) Replace(ctx context.Context, oldID string, next Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE id = $1`,
		oldID,
	)
	if err != nil {
		return fmt.Errorf("session: replace: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO `+s.table()+` (
		     id, user_id, access_token_hash, refresh_token_hash,
		     access_expires_at, refresh_expires_at, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		next.ID,
		next.UserID,
		next.AccessTokenHash,
		next.RefreshTokenHash,
		next.AccessExpiresAt,
		next.RefreshExpiresAt,
		next.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("session: replace: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteByID removes a single session; missing rows are not an error.
func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// DeleteByUserID removes every session belonging to a user.
func (s *PostgresStore) DeleteByUserID(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("session: delete by user: %w", err)
	}
	return nil
}
