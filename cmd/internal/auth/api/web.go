package authapi

import (
	"net/http"
	"strings"
	"time"

	"notehub/cmd/internal/auth/session"
)

// Cookie names form the session transport contract with clients.
const (
	CookieSessionID    = "sessionId"
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// setSessionCookies transmits a freshly issued session to the client.
// The session id and refresh token live as long as the refresh window;
// the access token cookie dies with the access window.
func (h *Handler) setSessionCookies(w http.ResponseWriter, issued session.Issued) {
	h.setCookie(w, CookieSessionID, issued.SessionID, issued.RefreshExp)
	h.setCookie(w, CookieAccessToken, issued.AccessToken, issued.AccessExp)
	h.setCookie(w, CookieRefreshToken, issued.RefreshToken, issued.RefreshExp)
}

// clearSessionCookies expires all three auth cookies unconditionally.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	h.expireCookie(w, CookieSessionID)
	h.expireCookie(w, CookieAccessToken)
	h.expireCookie(w, CookieRefreshToken)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	if h == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *Handler) expireCookie(w http.ResponseWriter, name string) {
	if h == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.CookieSameSite,
	})
}

// cookieValue returns the trimmed value of a request cookie, if present.
func cookieValue(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}
