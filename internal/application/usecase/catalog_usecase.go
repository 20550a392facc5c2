// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"toko/internal/domain/common"
	productdom "toko/internal/domain/product"
)

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")

	// ErrOutOfStock: the selected variation exists but cannot satisfy the
	// requested quantity.
	ErrOutOfStock = errors.New("catalog_usecase: out of stock")
)

// Offer is a resolved purchasable selection: one (product, color, size) with
// its current unit price and available stock.
type Offer struct {
	Product        productdom.Product
	Color          string
	Size           int
	UnitPrice      int
	AvailableStock int
}

// CatalogUsecase serves read access to the product catalog.
type CatalogUsecase struct {
	repo productdom.Repository
}

func NewCatalogUsecase(repo productdom.Repository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

// ListProducts returns the whole catalog.
func (uc *CatalogUsecase) ListProducts(ctx context.Context) ([]productdom.Product, error) {
	list, err := uc.repo.ListAll(ctx)
	if errors.Is(err, common.ErrUnavailable) {
		// idempotent read: one retry on a transient failure
		log.Printf("[catalog_usecase] list transient failure, retrying once: %v", err)
		list, err = uc.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetProduct returns one product by id.
func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (productdom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return productdom.Product{}, ErrCatalogInvalidArgument
	}

	p, err := uc.repo.GetByID(ctx, pid)
	if errors.Is(err, common.ErrUnavailable) {
		log.Printf("[catalog_usecase] get transient failure, retrying once: %v", err)
		p, err = uc.repo.GetByID(ctx, pid)
	}
	if err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

// ResolveVariation validates a (product, color, size, qty) selection against
// the current catalog and returns the offer that a cart line or reservation
// would be based on.
//
// Errors:
// - product.ErrNotFound           unknown product
// - product.ErrVariationNotFound  unknown color, or unknown size within color
// - product.ErrSizeRequired       sized variation selected without a size
// - ErrOutOfStock                 stock < qty
func (uc *CatalogUsecase) ResolveVariation(ctx context.Context, productID, color string, size, qty int) (Offer, error) {
	pid := strings.TrimSpace(productID)
	col := strings.TrimSpace(color)
	if pid == "" || col == "" || qty < 1 {
		return Offer{}, ErrCatalogInvalidArgument
	}

	p, err := uc.GetProduct(ctx, pid)
	if err != nil {
		return Offer{}, err
	}

	v, ok := p.Variation(col)
	if !ok {
		return Offer{}, productdom.ErrVariationNotFound
	}
	if !v.Sized() && size != 0 {
		return Offer{}, productdom.ErrVariationNotFound
	}

	stock, err := v.StockFor(size)
	if err != nil {
		return Offer{}, err
	}
	if stock < qty {
		return Offer{}, ErrOutOfStock
	}

	return Offer{
		Product:        p,
		Color:          col,
		Size:           size,
		UnitPrice:      p.Price,
		AvailableStock: stock,
	}, nil
}
