// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdom "toko/internal/domain/cart"
)

var ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase coordinates cart mutations and their stock side effects.
//
// Adding to the cart is a two-step saga: reserve stock first, then commit the
// cart line. If the cart write fails after the reservation succeeded, the
// reservation is released again (compensation) so no stock leaks.
//
// Quantity edits are optimistic: they touch only the cart, and the difference
// between Qty and ReservedQty is reconciled against stock at checkout.
type CartUsecase struct {
	repo    cartdom.Repository
	catalog *CatalogUsecase
	stock   *StockUsecase
	clock   Clock
}

func NewCartUsecase(repo cartdom.Repository, catalog *CatalogUsecase, stock *StockUsecase) *CartUsecase {
	return &CartUsecase{
		repo:    repo,
		catalog: catalog,
		stock:   stock,
		clock:   systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, catalog *CatalogUsecase, stock *StockUsecase, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{repo: repo, catalog: catalog, stock: stock, clock: clock}
}

// Get returns the cart for userID. An absent cart doc is returned as an empty
// cart, never as an error: the storefront always has a cart to render.
func (uc *CartUsecase) Get(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cartdom.NewCart(uid, uc.clock.Now())
	}
	return c, nil
}

// AddItem resolves the selection against the catalog, reserves qty units of
// stock, then merges the line into the cart.
//
// Ordering matters: the reservation happens BEFORE the cart write, so an
// out-of-stock selection never appears in the cart even transiently. If the
// cart write fails, the reservation is released again.
func (uc *CartUsecase) AddItem(ctx context.Context, userID, productID, color string, size, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" || qty < 1 {
		return nil, ErrCartInvalidArgument
	}

	offer, err := uc.catalog.ResolveVariation(ctx, productID, color, size, qty)
	if err != nil {
		return nil, err
	}

	if _, err := uc.stock.Reserve(ctx, offer.Product.ID, offer.Color, offer.Size, qty); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	line := cartdom.LineItem{
		ProductID:   offer.Product.ID,
		Color:       offer.Color,
		Size:        offer.Size,
		Qty:         qty,
		ReservedQty: qty,
		Price:       offer.UnitPrice,
		Name:        offer.Product.Name,
		Image:       firstImage(offer.Product.Images),
	}

	c, err := uc.repo.Mutate(ctx, uid, func(c *cartdom.Cart) error {
		return c.Add(line, now)
	})
	if err != nil {
		// compensation: the cart never got the line, give the units back
		uc.stock.releaseBestEffort(ctx, offer.Product.ID, offer.Color, offer.Size, qty)
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of an existing line. No stock is touched;
// checkout reconciles the reservation delta.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, userID, productID, color string, size, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()
	key := cartdom.LineKey(productID, color, size)
	return uc.repo.Mutate(ctx, uid, func(c *cartdom.Cart) error {
		return c.SetQty(key, qty, now)
	})
}

// RemoveItem drops one line and releases whatever it had reserved.
// Removing an absent line is a no-op, not an error.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, productID, color string, size int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()
	key := cartdom.LineKey(productID, color, size)

	var removed cartdom.LineItem
	var ok bool
	c, err := uc.repo.Mutate(ctx, uid, func(c *cartdom.Cart) error {
		removed, ok = c.Remove(key, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ok && removed.ReservedQty > 0 {
		uc.stock.releaseBestEffort(ctx, removed.ProductID, removed.Color, removed.Size, removed.ReservedQty)
	}
	return c, nil
}

// Clear empties the cart and releases every reservation it held.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()
	var dropped []cartdom.LineItem
	c, err := uc.repo.Mutate(ctx, uid, func(c *cartdom.Cart) error {
		dropped = c.ConsumeAll(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, it := range dropped {
		if it.ReservedQty > 0 {
			uc.stock.releaseBestEffort(ctx, it.ProductID, it.Color, it.Size, it.ReservedQty)
		}
	}
	return c, nil
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
