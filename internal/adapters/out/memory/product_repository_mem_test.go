package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko/internal/adapters/out/memory"
	productdom "toko/internal/domain/product"
)

var seededAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seededRepo(t *testing.T) *memory.ProductRepository {
	t.Helper()
	repo := memory.NewProductRepository()
	require.NoError(t, repo.Seed(productdom.Product{
		ID:       "p1",
		Name:     "Jam Tangan Mewah",
		Price:    199000,
		Images:   []string{"/assets/jam.jpg"},
		Category: productdom.CategoryJam,
		Variations: []productdom.Variation{
			{Color: "Hitam", Stock: 50},
		},
		CreatedAt: seededAt,
		UpdatedAt: seededAt,
	}))
	return repo
}

func TestGetByIDReturnsCopy(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)

	// mutating the returned value must not leak into the store
	p.Variations[0].Stock = 0
	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, again.Variations[0].Stock)
}

func TestCreateAssignsID(t *testing.T) {
	repo := memory.NewProductRepository()

	created, err := repo.Create(context.Background(), productdom.Product{
		Name:     "Tas Tangan Klasik",
		Price:    129000,
		Images:   []string{"/assets/tas.jpg"},
		Category: productdom.CategoryTas,
		Variations: []productdom.Variation{
			{Color: "Hitam", Stock: 12},
		},
		CreatedAt: seededAt,
		UpdatedAt: seededAt,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tas Tangan Klasik", got.Name)
}

func TestUpdateUnknownProduct(t *testing.T) {
	repo := seededRepo(t)

	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	p.ID = "missing"
	_, err = repo.Update(context.Background(), p)
	require.ErrorIs(t, err, productdom.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "p1"))
	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.GetByID(ctx, "p1")
	require.ErrorIs(t, err, productdom.ErrNotFound)
}

// Hammer AdjustStock with concurrent unit reservations. Stock never goes below
// zero and the number of successful reservations matches the drained stock.
func TestAdjustStockConcurrentReservations(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	const workers = 80 // more contenders than the 50 units on hand

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustStock(ctx, "p1", "Hitam", 0, -1)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, productdom.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded, "exactly the available units are handed out")

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Variations[0].Stock)
}

func TestAdjustStockReleaseRestoresUnits(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	_, err := repo.AdjustStock(ctx, "p1", "Hitam", 0, -10)
	require.NoError(t, err)
	v, err := repo.AdjustStock(ctx, "p1", "Hitam", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, v.Stock)
}
