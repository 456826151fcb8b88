// Package session implements Notehub's session model.
//
// A session binds a user to an access/refresh token pair with independent
// lifetimes. Both tokens are opaque random strings; the server persists only
// their hex digests (HMAC-SHA256 when NOTEHUB_TOKEN_HMAC_KEY is set,
// otherwise SHA-256) and looks sessions up by exact digest match.
//
// Refresh rotates the whole session: the old row is deleted and a fresh row
// with two new tokens replaces it, so no token is ever reused. Password reset
// deletes every session a user holds.
//
// Transport (cookies) is intentionally out of scope here.
package session
