package session

import (
	"context"
	"fmt"
	"time"

	"notehub/cmd/identity/ids"
	securitytoken "notehub/cmd/security/token"
)

// Issued is the result of creating or rotating a session.
//
// The plain tokens appear here and nowhere else; callers deliver them to the
// client and must not retain them.
type Issued struct {
	SessionID    string
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// Service implements the session lifecycle: issue, validate, rotate, revoke.
type Service struct {
	cfg   Config
	store Store
}

// NewService constructs a session service backed by the given store.
func NewService(cfg Config, store Store) *Service {
	return &Service{cfg: cfg, store: store}
}

// Issue creates a new session for userID and returns the minted token pair.
func (s *Service) Issue(ctx context.Context, now time.Time, userID string) (Issued, error) {
	id, err := ids.NewULID(now)
	if err != nil {
		return Issued{}, fmt.Errorf("session: issue: %w", err)
	}

	access, err := mintToken(s.cfg.TokenBytes)
	if err != nil {
		return Issued{}, err
	}
	refresh, err := mintToken(s.cfg.TokenBytes)
	if err != nil {
		return Issued{}, err
	}

	row := Row{
		ID:               id,
		UserID:           userID,
		AccessTokenHash:  access.hash,
		RefreshTokenHash: refresh.hash,
		AccessExpiresAt:  now.Add(s.cfg.AccessTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt:        now,
	}
	if err := s.store.Create(ctx, row); err != nil {
		return Issued{}, fmt.Errorf("session: issue: %w", err)
	}

	return Issued{
		SessionID:    row.ID,
		AccessToken:  access.plain,
		AccessExp:    row.AccessExpiresAt,
		RefreshToken: refresh.plain,
		RefreshExp:   row.RefreshExpiresAt,
	}, nil
}

// ValidateAccess resolves an access token to its session row.
//
// Returns ErrSessionNotFound when no session matches the token, and
// ErrAccessExpired when a session matches but its access window has closed.
func (s *Service) ValidateAccess(ctx context.Context, token string, now time.Time) (Row, error) {
	hash := securitytoken.HashSessionTokenHex(token)

	row, err := s.store.GetByAccessHash(ctx, hash)
	if err != nil {
		return Row{}, err
	}
	if !row.AccessExpiresAt.After(now) {
		return Row{}, ErrAccessExpired
	}
	return row, nil
}

// Rotate exchanges a valid refresh token for a fresh session.
//
// Both tokens rotate: the old row is replaced, so the prior access and
// refresh tokens are dead the moment Rotate succeeds. An expired refresh
// token fails with ErrRefreshExpired and leaves the row untouched, letting
// the client observe a consistent error rather than a vanished session.
func (s *Service) Rotate(ctx context.Context, now time.Time, sessionID, refreshToken string) (Issued, error) {
	hash := securitytoken.HashSessionTokenHex(refreshToken)

	row, err := s.store.GetByIDAndRefreshHash(ctx, sessionID, hash)
	if err != nil {
		return Issued{}, err
	}
	if !row.RefreshExpiresAt.After(now) {
		return Issued{}, ErrRefreshExpired
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Issued{}, fmt.Errorf("session: rotate: %w", err)
	}
	access, err := mintToken(s.cfg.TokenBytes)
	if err != nil {
		return Issued{}, err
	}
	refresh, err := mintToken(s.cfg.TokenBytes)
	if err != nil {
		return Issued{}, err
	}

	next := Row{
		ID:               id,
		UserID:           row.UserID,
		AccessTokenHash:  access.hash,
		RefreshTokenHash: refresh.hash,
		AccessExpiresAt:  now.Add(s.cfg.AccessTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt:        now,
	}
	if err := s.store.Replace(ctx, row.ID, next); err != nil {
		return Issued{}, err
	}

	return Issued{
		SessionID:    next.ID,
		AccessToken:  access.plain,
		AccessExp:    next.AccessExpiresAt,
		RefreshToken: refresh.plain,
		RefreshExp:   next.RefreshExpiresAt,
	}, nil
}

// DeleteByID revokes a single session. Missing sessions are ignored.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// DeleteAllForUser revokes every session the user holds. Used on login (one
// active session per user) and after a password reset.
func (s *Service) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.store.DeleteByUserID(ctx, userID)
}
