// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("user: not found")
	ErrInvalidIdentity  = errors.New("user: invalid identity")
	ErrPermissionDenied = errors.New("user: permission denied")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the signed-in user as the core sees it: the verified uid plus
// the profile fields kept in users/{uid}.
type Identity struct {
	UID         string `json:"uid" firestore:"uid"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Role        string `json:"role" firestore:"role"`
}

// NewIdentity builds an identity, defaulting the role to "user" when the
// profile carries none.
func NewIdentity(uid, email, displayName, role string) (Identity, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Identity{}, ErrInvalidIdentity
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = RoleUser
	}
	return Identity{
		UID:         uid,
		Email:       strings.TrimSpace(email),
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
	}, nil
}

// IsAdmin reports whether this identity may use the admin catalog editor.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }
