package session

import (
	"context"
	"time"
)

// Row is a persisted session record.
//
// Tokens are never stored; only their digests are. A row pairs one access
// digest with one refresh digest, so rotating either means replacing the row.
type Row struct {
	ID               string
	UserID           string
	AccessTokenHash  string
	RefreshTokenHash string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
}

// Store persists sessions.
//
// Lookups are exact-match on digests. Implementations must return
// ErrSessionNotFound when no row matches.
type Store interface {
	// Create inserts a new session row.
	Create(ctx context.Context, row Row) error

	// GetByAccessHash returns the session whose access digest matches exactly.
	GetByAccessHash(ctx context.Context, accessHash string) (Row, error)

	// GetByIDAndRefreshHash returns the session with the given ID whose
	// refresh digest matches exactly.
	GetByIDAndRefreshHash(ctx context.Context, id, refreshHash string) (Row, error)

	// Replace atomically deletes the session oldID and inserts next.
	// Returns ErrSessionNotFound if oldID no longer exists, in which case
	// next must not be inserted.
	Replace(ctx context.Context, oldID string, next Row) error

	// DeleteByID removes a single session. Deleting a missing session is not
	// an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByUserID removes every session belonging to a user.
	DeleteByUserID(ctx context.Context, userID string) error
}
