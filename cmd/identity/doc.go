// Package identity implements Notehub's credential store.
//
// It owns the User record (email, password hash, display name, avatar),
// enforces email uniqueness, and keeps the password hash out of every
// externally visible projection: only UserAuth carries the hash, and it
// never crosses the HTTP boundary.
package identity
