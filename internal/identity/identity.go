// Package identity authenticates customers and administrators. It issues
// bearer tokens on login and can revoke them on sign-out.
package identity

import (
	"errors"

	"greengrocer-backend/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Identity is the signed-in principal. The zero value is the anonymous visitor.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.ID == ""
}

// OwnerID is the value recorded as an order owner.
func (i Identity) OwnerID() string {
	if i.IsAnonymous() {
		return domain.AnonymousOwner
	}
	return i.ID
}
