// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "toko/internal/domain/user"
)

// UserRepositoryFS implements user.Repository with Firestore (users/{uid}).
type UserRepositoryFS struct {
	Client *gfs.Client
}

func NewUserRepositoryFS(client *gfs.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

// Compile-time check
var _ userdom.Repository = (*UserRepositoryFS)(nil)

func (r *UserRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection("users")
}

// GetByUID returns (nil, nil) if not found (nil policy).
func (r *UserRepositoryFS) GetByUID(ctx context.Context, uid string) (*userdom.Identity, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("user_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, mapErr(err)
	}

	raw := snap.Data()
	id, err := userdom.NewIdentity(
		uid, // docId is the source of truth
		asString(raw["email"]),
		asString(raw["displayName"]),
		asString(raw["role"]),
	)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *UserRepositoryFS) Save(ctx context.Context, id userdom.Identity) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(id.UID)
	if uid == "" {
		return userdom.ErrInvalidIdentity
	}

	_, err := r.col().Doc(uid).Set(ctx, map[string]any{
		"email":       id.Email,
		"displayName": id.DisplayName,
		"role":        id.Role,
	})
	return mapErr(err)
}
