// Package token issues and verifies signed session tokens and tracks
// revoked token ids.
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/galvan-ai/accounts/internal/account"
)

// Kind distinguishes short-lived access tokens from long-lived refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ParseKind validates a kind claim coming off the wire.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAccess:
		return KindAccess, nil
	case KindRefresh:
		return KindRefresh, nil
	}
	return "", fmt.Errorf("unknown token kind %q", s)
}

// Claims is the signed payload carried by every session token. ID (jti)
// is a fresh uuid per issued token and is the unit of revocation.
type Claims struct {
	jwt.RegisteredClaims
	Role account.Role `json:"role"`
	Kind Kind         `json:"kind"`
}
