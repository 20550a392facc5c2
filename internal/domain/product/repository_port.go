// internal/domain/product/repository_port.go
package product

import "context"

// Repository is a persistence port for Product.
//
// Storage (Firestore):
// - collection: products
// - docId: store-assigned id
//
// AdjustStock is the one mutation that must be a store-level atomic
// read-modify-write: two concurrent adjustments against the same product must
// serialize, never lose an update. Adjustments against different products may
// run fully in parallel.
type Repository interface {
	// GetByID returns ErrNotFound when the doc is absent.
	GetByID(ctx context.Context, id string) (Product, error)

	// ListAll scans the whole collection. No pagination; small catalogs only.
	ListAll(ctx context.Context) ([]Product, error)

	// Create assigns the id and persists the product.
	Create(ctx context.Context, p Product) (Product, error)

	// Update overwrites the doc. ErrNotFound when absent.
	Update(ctx context.Context, p Product) (Product, error)

	// Delete removes the doc. Deleting an absent doc is not an error.
	Delete(ctx context.Context, id string) error

	// AdjustStock applies delta to the (color, size) variation of productID in
	// one atomic transaction and returns the updated variation.
	// Fails with ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, productID, color string, size, delta int) (Variation, error)
}
