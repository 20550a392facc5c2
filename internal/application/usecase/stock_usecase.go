// internal/application/usecase/stock_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	productdom "toko/internal/domain/product"
)

var ErrStockInvalidArgument = errors.New("stock_usecase: invalid argument")

// StockUsecase owns stock reservation and release against the catalog.
//
// Both operations delegate to the repository's atomic AdjustStock, so two
// concurrent reservations against the same variation serialize at the store
// and can never drive stock below zero.
type StockUsecase struct {
	repo productdom.Repository
}

func NewStockUsecase(repo productdom.Repository) *StockUsecase {
	return &StockUsecase{repo: repo}
}

// Reserve decrements stock of the exact (product, color, size) key by qty.
// Fails with product.ErrInsufficientStock when stock < qty; the catalog is
// then left unchanged.
func (uc *StockUsecase) Reserve(ctx context.Context, productID, color string, size, qty int) (productdom.Variation, error) {
	pid := strings.TrimSpace(productID)
	col := strings.TrimSpace(color)
	if pid == "" || col == "" || qty < 1 {
		return productdom.Variation{}, ErrStockInvalidArgument
	}

	v, err := uc.repo.AdjustStock(ctx, pid, col, size, -qty)
	if err != nil {
		return productdom.Variation{}, err
	}
	log.Printf("[stock_usecase] reserved %d of %s/%s size=%d", qty, pid, col, size)
	return v, nil
}

// Release returns qty previously reserved units to stock.
func (uc *StockUsecase) Release(ctx context.Context, productID, color string, size, qty int) (productdom.Variation, error) {
	pid := strings.TrimSpace(productID)
	col := strings.TrimSpace(color)
	if pid == "" || col == "" || qty < 1 {
		return productdom.Variation{}, ErrStockInvalidArgument
	}

	v, err := uc.repo.AdjustStock(ctx, pid, col, size, qty)
	if err != nil {
		return productdom.Variation{}, err
	}
	log.Printf("[stock_usecase] released %d of %s/%s size=%d", qty, pid, col, size)
	return v, nil
}

// releaseBestEffort is the compensation path: a failed release is logged and
// swallowed, never surfaced to the caller (the primary error wins).
func (uc *StockUsecase) releaseBestEffort(ctx context.Context, productID, color string, size, qty int) {
	if qty < 1 {
		return
	}
	if _, err := uc.repo.AdjustStock(ctx, productID, color, size, qty); err != nil {
		log.Printf("[stock_usecase] compensation release failed for %s/%s size=%d qty=%d: %v",
			productID, color, size, qty, err)
	}
}
