package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization for the uniqueness
// key. The address is stored as given; only the normalized form is unique.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailLocalPart returns the part of an email address before the '@'.
// Used to default the username at registration when none is provided.
func EmailLocalPart(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
