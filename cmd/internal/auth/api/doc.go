// Package authapi is the HTTP authentication surface: register, login,
// logout, refresh, the password-reset flows, and the authentication gate
// that protects the rest of the API.
//
// Transport is cookie-based: sessionId, accessToken and refreshToken are set
// as HttpOnly cookies and cleared on logout. Reset tokens are short-lived
// signed JWTs delivered by email; they are the only non-opaque token in the
// system and never grant access by themselves.
package authapi
