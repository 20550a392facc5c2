// internal/application/usecase/admin_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
)

var ErrAdminInvalidArgument = errors.New("admin_usecase: invalid argument")

// AdminUsecase is the catalog editor. Every operation is gated on the admin
// role; the handler layer already authenticated the caller, this layer
// authorizes.
type AdminUsecase struct {
	repo  productdom.Repository
	clock Clock
}

func NewAdminUsecase(repo productdom.Repository) *AdminUsecase {
	return &AdminUsecase{repo: repo, clock: systemClock{}}
}

// NewAdminUsecaseWithClock is useful for tests.
func NewAdminUsecaseWithClock(repo productdom.Repository, clock Clock) *AdminUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &AdminUsecase{repo: repo, clock: clock}
}

func (uc *AdminUsecase) authorize(who userdom.Identity) error {
	if !who.IsAdmin() {
		log.Printf("[admin_usecase] denied catalog edit for uid=%s role=%s", who.UID, who.Role)
		return userdom.ErrPermissionDenied
	}
	return nil
}

// CreateProduct validates and persists a new product. The store assigns the id.
func (uc *AdminUsecase) CreateProduct(ctx context.Context, who userdom.Identity, p productdom.Product) (productdom.Product, error) {
	if err := uc.authorize(who); err != nil {
		return productdom.Product{}, err
	}

	now := uc.clock.Now()
	p.ID = ""
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return uc.repo.Create(ctx, p)
}

// UpdateProduct overwrites the base fields of an existing product. Variations
// are edited through the dedicated operations, not here, so a stale admin form
// cannot clobber concurrent stock adjustments.
func (uc *AdminUsecase) UpdateProduct(ctx context.Context, who userdom.Identity, p productdom.Product) (productdom.Product, error) {
	if err := uc.authorize(who); err != nil {
		return productdom.Product{}, err
	}
	pid := strings.TrimSpace(p.ID)
	if pid == "" {
		return productdom.Product{}, ErrAdminInvalidArgument
	}

	current, err := uc.repo.GetByID(ctx, pid)
	if err != nil {
		return productdom.Product{}, err
	}

	now := uc.clock.Now()
	current.Name = p.Name
	current.ShortDescription = p.ShortDescription
	current.FullDescription = p.FullDescription
	current.Price = p.Price
	current.Images = p.Images
	current.Rating = p.Rating
	current.Reviews = p.Reviews
	current.UpdatedAt = now
	if err := current.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return uc.repo.Update(ctx, current)
}

// DeleteProduct removes a product from the catalog. Cart lines referencing it
// keep their snapshot and fail at checkout reconciliation instead.
func (uc *AdminUsecase) DeleteProduct(ctx context.Context, who userdom.Identity, id string) error {
	if err := uc.authorize(who); err != nil {
		return err
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return ErrAdminInvalidArgument
	}
	return uc.repo.Delete(ctx, pid)
}

// AddVariation appends a new color variation to a product.
func (uc *AdminUsecase) AddVariation(ctx context.Context, who userdom.Identity, productID string, v productdom.Variation) (productdom.Product, error) {
	return uc.mutate(ctx, who, productID, func(p *productdom.Product, now Clock) error {
		return p.AddVariation(v, now.Now())
	})
}

// RemoveVariation drops a color variation.
func (uc *AdminUsecase) RemoveVariation(ctx context.Context, who userdom.Identity, productID, color string) (productdom.Product, error) {
	return uc.mutate(ctx, who, productID, func(p *productdom.Product, now Clock) error {
		return p.RemoveVariation(color, now.Now())
	})
}

// SetSizeStock adds or replaces one size entry of a sized variation.
func (uc *AdminUsecase) SetSizeStock(ctx context.Context, who userdom.Identity, productID, color string, entry productdom.SizeStock) (productdom.Product, error) {
	return uc.mutate(ctx, who, productID, func(p *productdom.Product, now Clock) error {
		return p.SetSizeStock(color, entry, now.Now())
	})
}

// RemoveSize drops one size entry of a sized variation.
func (uc *AdminUsecase) RemoveSize(ctx context.Context, who userdom.Identity, productID, color string, size int) (productdom.Product, error) {
	return uc.mutate(ctx, who, productID, func(p *productdom.Product, now Clock) error {
		return p.RemoveSize(color, size, now.Now())
	})
}

func (uc *AdminUsecase) mutate(ctx context.Context, who userdom.Identity, productID string, fn func(p *productdom.Product, clock Clock) error) (productdom.Product, error) {
	if err := uc.authorize(who); err != nil {
		return productdom.Product{}, err
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return productdom.Product{}, ErrAdminInvalidArgument
	}

	p, err := uc.repo.GetByID(ctx, pid)
	if err != nil {
		return productdom.Product{}, err
	}
	if err := fn(&p, uc.clock); err != nil {
		return productdom.Product{}, err
	}
	return uc.repo.Update(ctx, p)
}
