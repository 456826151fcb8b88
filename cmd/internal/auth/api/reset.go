package authapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrResetTokenInvalid collapses every reset-token failure (bad signature,
// malformed, expired) so callers cannot tell which check failed.
var ErrResetTokenInvalid = errors.New("reset token invalid")

type resetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// newResetToken mints a signed token binding the user id and email for ttl.
func newResetToken(secret []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("authapi: empty reset secret")
	}

	claims := resetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseResetToken verifies signature and expiry against the supplied clock
// and returns the bound user id and email. Any failure maps to
// ErrResetTokenInvalid.
func parseResetToken(secret []byte, token string, now time.Time) (userID, email string, err error) {
	if len(secret) == 0 || token == "" {
		return "", "", ErrResetTokenInvalid
	}

	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return "", "", ErrResetTokenInvalid
	}
	if claims.Subject == "" || claims.Email == "" {
		return "", "", ErrResetTokenInvalid
	}
	return claims.Subject, claims.Email, nil
}
