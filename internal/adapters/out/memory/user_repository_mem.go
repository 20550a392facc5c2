// internal/adapters/out/memory/user_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"

	userdom "toko/internal/domain/user"
)

// UserRepository is the in-memory profile store.
type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]userdom.Identity
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]userdom.Identity{}}
}

func (r *UserRepository) GetByUID(_ context.Context, uid string) (*userdom.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byID[strings.TrimSpace(uid)]
	if !ok {
		return nil, nil
	}
	out := id
	return &out, nil
}

func (r *UserRepository) Save(_ context.Context, id userdom.Identity) error {
	if strings.TrimSpace(id.UID) == "" {
		return userdom.ErrInvalidIdentity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id.UID] = id
	return nil
}
