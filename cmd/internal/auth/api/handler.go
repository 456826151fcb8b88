package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notehub/cmd/identity"
	"notehub/cmd/internal/auth/session"
)

// Handler wires the HTTP auth endpoints to the credential and session stores.
type Handler struct {
	log *slog.Logger
	cfg Config

	users    identity.Store
	sessions *session.Service

	mailer Mailer
	audit  Auditor

	// dummyHash absorbs the verification cost on logins for unknown emails so
	// response timing does not reveal whether the account exists.
	dummyHash string

	now func() time.Time
}

// HandlerOption configures optional auth handler dependencies.
type HandlerOption func(*Handler)

// WithMailer overrides the default no-op mailer.
func WithMailer(m Mailer) HandlerOption {
	return func(h *Handler) {
		if h == nil || m == nil {
			return
		}
		h.mailer = m
	}
}

// WithAuditor overrides the default no-op auditor.
func WithAuditor(a Auditor) HandlerOption {
	return func(h *Handler) {
		if h == nil || a == nil {
			return
		}
		h.audit = a
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, sessions *session.Service, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if users == nil {
		return nil, errors.New("authapi: nil credential store")
	}
	if sessions == nil {
		return nil, errors.New("authapi: nil session service")
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		mailer:   NoopMailer{},
		audit:    NoopAuditor{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
	mux.HandleFunc("POST /auth/refresh", h.handleRefresh)
	mux.HandleFunc("POST /auth/request-reset-email", h.handleRequestResetEmail)
	mux.HandleFunc("POST /auth/reset-password", h.handleResetPassword)
	mux.Handle("GET /users/me", h.RequireAuth(http.HandlerFunc(h.handleMe)))
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	now := h.now()
	res, err := h.users.CreateUser(r.Context(), identity.CreateUserInput{
		Email:    email,
		Username: req.Username,
		Password: req.Password,
		Now:      now,
	})
	if err != nil {
		if identity.IsConflict(err) {
			writeError(w, http.StatusConflict, "Email is already in use")
			return
		}
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Password does not meet requirements")
			return
		}
		h.log.Error("auth.register.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	issued, err := h.sessions.Issue(r.Context(), now, res.User.ID)
	if err != nil {
		h.log.Error("auth.register.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.setSessionCookies(w, issued)
	h.audit.Record(r.Context(), "auth.register", res.User.ID, issued.SessionID, "")
	h.log.Info("auth.register", "user_id", res.User.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(res.User))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.users.GetUserAuthByEmail(r.Context(), req.Email)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			// Burn comparable time even though no account matched.
			if h.dummyHash != "" {
				_, _ = identity.VerifyPassword(req.Password, h.dummyHash)
			}
			h.audit.Record(r.Context(), "auth.login.failed", "", "", "unknown email")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("auth.login.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	match, err := identity.VerifyPassword(req.Password, auth.PasswordHash)
	if err != nil || !match {
		h.audit.Record(r.Context(), "auth.login.failed", auth.User.ID, "", "password mismatch")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Single active session per user: drop everything, then issue.
	if err := h.sessions.DeleteAllForUser(r.Context(), auth.User.ID); err != nil {
		h.log.Error("auth.login.revoke.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	issued, err := h.sessions.Issue(r.Context(), h.now(), auth.User.ID)
	if err != nil {
		h.log.Error("auth.login.session.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.setSessionCookies(w, issued)
	h.audit.Record(r.Context(), "auth.login", auth.User.ID, issued.SessionID, "")
	h.log.Info("auth.login", "user_id", auth.User.ID)
	writeJSON(w, http.StatusOK, toUserResponse(auth.User))
}

// handleLogout always succeeds: the session delete is best-effort and the
// cookies are cleared regardless.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := cookieValue(r, CookieSessionID); ok {
		if err := h.sessions.DeleteByID(r.Context(), sessionID); err != nil {
			h.log.Error("auth.logout.delete.fail", "err", err)
		} else {
			h.audit.Record(r.Context(), "auth.logout", "", sessionID, "")
		}
	}

	h.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sessionID, okID := cookieValue(r, CookieSessionID)
	refreshToken, okRT := cookieValue(r, CookieRefreshToken)
	if !okID || !okRT {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}

	issued, err := h.sessions.Rotate(r.Context(), h.now(), sessionID, refreshToken)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	case errors.Is(err, session.ErrRefreshExpired):
		writeError(w, http.StatusUnauthorized, "Refresh token expired")
		return
	case err != nil:
		h.log.Error("auth.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.setSessionCookies(w, issued)
	h.audit.Record(r.Context(), "auth.refresh", "", issued.SessionID, "")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Session refreshed"})
}

// resetRequestedMessage is returned for known and unknown emails alike.
const resetRequestedMessage = "If that email is registered, a reset link has been sent"

func (h *Handler) handleRequestResetEmail(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// No signing secret means the flow is disabled: answer generically
	// without touching the store, so known and unknown emails stay
	// indistinguishable.
	if len(h.cfg.ResetSecret) == 0 {
		h.log.Warn("auth.reset.disabled", "reason", "no reset secret configured")
		writeJSON(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			writeJSON(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
			return
		}
		h.log.Error("auth.reset.request.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	token, err := newResetToken(h.cfg.ResetSecret, user.ID, user.EmailNorm, h.now(), h.cfg.ResetTokenTTL)
	if err != nil {
		h.log.Error("auth.reset.token.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	link := h.cfg.AppBaseURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := h.mailer.SendPasswordReset(r.Context(), user.Email, link); err != nil {
		h.log.Error("auth.reset.email.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to send the email, please try again later.")
		return
	}

	h.audit.Record(r.Context(), "auth.reset.requested", user.ID, "", "")
	writeJSON(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	userID, email, err := parseResetToken(h.cfg.ResetSecret, req.Token, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Token is expired or invalid.")
		return
	}

	// Re-resolve by both id and email: a token minted before an email change
	// must not reset the account it no longer describes.
	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil || identity.NormalizeEmail(user.Email) != email {
		if err != nil && !identity.IsNotFound(err) {
			h.log.Error("auth.reset.lookup.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	newHash, err := identity.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Password does not meet requirements")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, newHash, h.now()); err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("auth.reset.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	// Force re-authentication everywhere.
	if err := h.sessions.DeleteAllForUser(r.Context(), user.ID); err != nil {
		h.log.Error("auth.reset.revoke.fail", "err", err)
	}

	h.audit.Record(r.Context(), "auth.reset.completed", user.ID, "", "")
	h.log.Info("auth.reset", "user_id", user.ID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been successfully reset."})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
