package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store used by unit tests.
type memStore struct {
	mu   sync.Mutex
	rows map[string]Row
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]Row)}
}

func (m *memStore) Create(_ context.Context, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[row.ID] = row
	return nil
}

func (m *memStore) GetByAccessHash(_ context.Context, accessHash string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.AccessTokenHash == accessHash {
			return r, nil
		}
	}
	return Row{}, ErrSessionNotFound
}

func (m *memStore) GetByIDAndRefreshHash(_ context.Context, id, refreshHash string) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || r.RefreshTokenHash != refreshHash {
		return Row{}, ErrSessionNotFound
	}
	return r, nil
}

func (m *memStore) Replace(_ context.Context, oldID string, next Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[oldID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.rows, oldID)
	m.rows[next.ID] = next
	return nil
}

func (m *memStore) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memStore) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	st := newMemStore()
	return NewService(DefaultConfig(), st), st
}

func TestIssueAndValidateAccess(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.SessionID == "" || issued.AccessToken == "" || issued.RefreshToken == "" {
		t.Fatalf("issued tokens incomplete: %+v", issued)
	}
	if issued.AccessToken == issued.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if st.count() != 1 {
		t.Fatalf("expected 1 stored session, got %d", st.count())
	}

	row, err := svc.ValidateAccess(ctx, issued.AccessToken, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if row.UserID != "user-1" {
		t.Fatalf("wrong user: %q", row.UserID)
	}
	if row.ID != issued.SessionID {
		t.Fatalf("wrong session: %q != %q", row.ID, issued.SessionID)
	}
}

func TestValidateAccessStoresOnlyDigests(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	st.mu.Lock()
	row := st.rows[issued.SessionID]
	st.mu.Unlock()

	if row.AccessTokenHash == issued.AccessToken {
		t.Fatal("access token stored in plain form")
	}
	if row.RefreshTokenHash == issued.RefreshToken {
		t.Fatal("refresh token stored in plain form")
	}
}

func TestValidateAccessUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ValidateAccess(context.Background(), "definitely-not-a-token", time.Now().UTC())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestValidateAccessExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Exactly at expiry counts as expired.
	if _, err := svc.ValidateAccess(ctx, issued.AccessToken, issued.AccessExp); !errors.Is(err, ErrAccessExpired) {
		t.Fatalf("at expiry: expected ErrAccessExpired, got %v", err)
	}
	if _, err := svc.ValidateAccess(ctx, issued.AccessToken, issued.AccessExp.Add(time.Hour)); !errors.Is(err, ErrAccessExpired) {
		t.Fatalf("past expiry: expected ErrAccessExpired, got %v", err)
	}
}

func TestRotateReplacesSession(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	later := now.Add(10 * time.Minute)
	second, err := svc.Rotate(ctx, later, first.SessionID, first.RefreshToken)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if second.SessionID == first.SessionID {
		t.Fatal("rotation must create a new session id")
	}
	if second.AccessToken == first.AccessToken || second.RefreshToken == first.RefreshToken {
		t.Fatal("rotation must mint fresh tokens")
	}
	if st.count() != 1 {
		t.Fatalf("expected 1 session after rotation, got %d", st.count())
	}

	// Old tokens are dead.
	if _, err := svc.ValidateAccess(ctx, first.AccessToken, later); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("old access token: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Rotate(ctx, later, first.SessionID, first.RefreshToken); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("old refresh token: expected ErrSessionNotFound, got %v", err)
	}

	// New tokens work.
	if _, err := svc.ValidateAccess(ctx, second.AccessToken, later.Add(time.Minute)); err != nil {
		t.Fatalf("new access token: %v", err)
	}
}

func TestRotateExpiredRefresh(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = svc.Rotate(ctx, issued.RefreshExp, issued.SessionID, issued.RefreshToken)
	if !errors.Is(err, ErrRefreshExpired) {
		t.Fatalf("expected ErrRefreshExpired, got %v", err)
	}

	// A failed rotation must not mutate the store.
	if st.count() != 1 {
		t.Fatalf("expected session untouched, got %d rows", st.count())
	}
}

func TestRotateWrongRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = svc.Rotate(ctx, now, issued.SessionID, "forged-refresh-token")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteAllForUser(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Issue(ctx, now, "user-2"); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := svc.DeleteAllForUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	if st.count() != 1 {
		t.Fatalf("expected only user-2's session to remain, got %d rows", st.count())
	}
	if _, err := svc.ValidateAccess(ctx, a.AccessToken, now); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revocation, got %v", err)
	}
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteByID(ctx, "no-such-session"); err != nil {
		t.Fatalf("deleting a missing session should not fail: %v", err)
	}
}
