// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is a persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: userId (docId is the source of truth for Cart.ID)
// - fields: items(array), createdAt, updatedAt, expiresAt
//
// Concurrency:
// - Every mutation goes through Mutate, a store-level atomic
//   read-modify-write (Firestore transaction / memory lock). Concurrent
//   mutations for the same user serialize; blind overwrites are not allowed.
type Repository interface {
	// GetByUserID returns (nil, nil) when no cart doc exists (nil policy);
	// the application layer treats nil as "empty cart".
	GetByUserID(ctx context.Context, userID string) (*Cart, error)

	// Mutate reads the current cart (creating an empty one when absent),
	// applies fn, and commits the result atomically. fn returning an error
	// aborts the mutation without writing.
	Mutate(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error)
}

// Watcher streams cart state changes for one user.
type Watcher interface {
	// Watch emits the current cart immediately, then again after every
	// committed change — including this client's own mutations and those of
	// concurrent sessions. An absent doc is emitted as an empty cart.
	//
	// cancel stops delivery and closes the channel; it is idempotent and
	// releases the underlying listener.
	Watch(ctx context.Context, userID string) (<-chan Cart, func(), error)
}
