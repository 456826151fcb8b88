package session

import (
	"fmt"

	securitytoken "notehub/cmd/security/token"
)

// tokenPair holds a freshly minted opaque token alongside its storage digest.
type tokenPair struct {
	plain string
	hash  string
}

// mintToken generates an opaque token of nBytes entropy and its digest.
//
// The plain value is handed to the client exactly once; only the digest is
// ever written to storage.
func mintToken(nBytes int) (tokenPair, error) {
	plain, err := securitytoken.NewOpaque(nBytes)
	if err != nil {
		return tokenPair{}, fmt.Errorf("session: mint token: %w", err)
	}

	return tokenPair{
		plain: plain,
		hash:  securitytoken.HashSessionTokenHex(plain),
	}, nil
}
