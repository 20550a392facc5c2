// internal/adapters/out/memory/product_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	productdom "toko/internal/domain/product"
)

// ProductRepository is the in-memory catalog store used in local mode and in
// tests. All methods are safe for concurrent use; AdjustStock holds the write
// lock for the whole read-modify-write, mirroring the transactional guarantee
// of the Firestore adapter.
type ProductRepository struct {
	mu   sync.RWMutex
	byID map[string]productdom.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: map[string]productdom.Product{}}
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) ListAll(_ context.Context) ([]productdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]productdom.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductRepository) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	p.ID = uuid.NewString()
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p.Clone()
	return p, nil
}

func (r *ProductRepository) Update(_ context.Context, p productdom.Product) (productdom.Product, error) {
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	r.byID[p.ID] = p.Clone()
	return p, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, strings.TrimSpace(id))
	return nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, productID, color string, size, delta int) (productdom.Variation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[strings.TrimSpace(productID)]
	if !ok {
		return productdom.Variation{}, productdom.ErrNotFound
	}

	next := p.Clone()
	v, err := next.AdjustStock(color, size, delta)
	if err != nil {
		return productdom.Variation{}, err
	}
	next.UpdatedAt = time.Now()
	r.byID[next.ID] = next
	return v, nil
}

// Seed loads products directly, keeping their ids. Used by local-mode boot and
// tests.
func (r *ProductRepository) Seed(products ...productdom.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			p.ID = uuid.NewString()
		}
		if err := p.Validate(); err != nil {
			return err
		}
		r.byID[p.ID] = p.Clone()
	}
	return nil
}
