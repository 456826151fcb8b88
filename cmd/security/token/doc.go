// Package token provides opaque token generation and hashing for Notehub.
//
// Access and refresh tokens are random strings with no decodable structure.
// The server persists only hex digests (HMAC-SHA256 when NOTEHUB_TOKEN_HMAC_KEY
// is set; otherwise SHA-256) and looks sessions up by exact digest match.
package token
