package authapi

import (
	"context"
	"errors"
	"net/http"

	"notehub/cmd/identity"
	"notehub/cmd/internal/auth/session"
)

type ctxKey int

const ctxUserKey ctxKey = iota

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (identity.User, bool) {
	u, ok := ctx.Value(ctxUserKey).(identity.User)
	return u, ok
}

// UserIDFromRequest resolves the authenticated user's id; it matches the
// notes handler's resolver signature.
func UserIDFromRequest(r *http.Request) (string, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		return "", false
	}
	return u.ID, true
}

// RequireAuth is the authentication gate. Checks run strictly in order and
// short-circuit on the first failure:
//
//  1. accessToken cookie missing
//  2. no session matches the token
//  3. session matched but the access window has closed
//  4. owning user no longer resolvable
//
// On success the resolved user is attached to the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := cookieValue(r, CookieAccessToken)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing access token")
			return
		}

		row, err := h.sessions.ValidateAccess(r.Context(), token, h.now())
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			writeError(w, http.StatusUnauthorized, "Session not found")
			return
		case errors.Is(err, session.ErrAccessExpired):
			writeError(w, http.StatusUnauthorized, "Access token expired")
			return
		case err != nil:
			h.log.Error("auth.gate.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}

		user, err := h.users.GetUserByID(r.Context(), row.UserID)
		if err != nil {
			if identity.IsNotFound(err) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			h.log.Error("auth.gate.user.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
