// internal/domain/user/repository_port.go
package user

import "context"

// Repository is a persistence port for user profiles (users/{uid}).
type Repository interface {
	// GetByUID returns (nil, nil) when no profile doc exists.
	GetByUID(ctx context.Context, uid string) (*Identity, error)

	// Save creates or overwrites the profile doc.
	Save(ctx context.Context, id Identity) error
}
