package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko/internal/adapters/out/memory"
	"toko/internal/application/usecase"
	cartdom "toko/internal/domain/cart"
	orderdom "toko/internal/domain/order"
	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
)

type recordingMailer struct {
	to   []string
	err  error
	last orderdom.Result
}

func (m *recordingMailer) SendReceipt(_ context.Context, toEmail string, res orderdom.Result) error {
	m.to = append(m.to, toEmail)
	m.last = res
	return m.err
}

type checkoutFixture struct {
	cartUC     *usecase.CartUsecase
	checkoutUC *usecase.CheckoutUsecase
	products   *memory.ProductRepository
	carts      *memory.CartRepository
	mailer     *recordingMailer
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	products := seedProducts(t)
	carts := memory.NewCartRepository()
	catalog := usecase.NewCatalogUsecase(products)
	stock := usecase.NewStockUsecase(products)
	mailer := &recordingMailer{}
	clock := fixedClock{t: testNow}

	return &checkoutFixture{
		cartUC:     usecase.NewCartUsecaseWithClock(carts, catalog, stock, clock),
		checkoutUC: usecase.NewCheckoutUsecaseWithClock(carts, catalog, stock, mailer, clock),
		products:   products,
		carts:      carts,
		mailer:     mailer,
	}
}

var buyer = userdom.Identity{UID: "u1", Email: "u1@example.com", Role: userdom.RoleUser}

func TestSubmitOrderSettlesCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 2)
	require.NoError(t, err)
	_, err = f.cartUC.AddItem(ctx, "u1", "p2", "Putih", 42, 1)
	require.NoError(t, err)

	res, err := f.checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17, Jakarta", "gopay")
	require.NoError(t, err)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, 2*199000+149000, res.Subtotal)
	assert.Equal(t, orderdom.ShippingFee, res.ShippingFee)
	assert.Equal(t, res.Subtotal+orderdom.ShippingFee, res.Total)
	assert.Equal(t, orderdom.StatusSettled, res.Status)
	assert.NotEmpty(t, res.ID)

	// cart emptied
	c, err := f.carts.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// reservations were already in place: stock unchanged by the settle
	assert.Equal(t, 8, stockOf(t, f.products, "p1", "Hitam", 0))
	assert.Equal(t, 5, stockOf(t, f.products, "p2", "Putih", 42))

	// receipt sent
	require.Len(t, f.mailer.to, 1)
	assert.Equal(t, "u1@example.com", f.mailer.to[0])
	assert.Equal(t, res.ID, f.mailer.last.ID)
}

func TestSubmitOrderReservesShortfall(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 2) // stock 10 -> 8
	require.NoError(t, err)
	_, err = f.cartUC.UpdateQuantity(ctx, "u1", "p1", "Hitam", 0, 5) // optimistic
	require.NoError(t, err)

	res, err := f.checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17", "cod")
	require.NoError(t, err)

	assert.Equal(t, 5, res.Lines[0].Qty)
	// shortfall of 3 reserved at checkout: 8 - 3 = 5
	assert.Equal(t, 5, stockOf(t, f.products, "p1", "Hitam", 0))
}

func TestSubmitOrderReleasesSurplus(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 5) // stock 10 -> 5
	require.NoError(t, err)
	_, err = f.cartUC.UpdateQuantity(ctx, "u1", "p1", "Hitam", 0, 2)
	require.NoError(t, err)

	res, err := f.checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17", "dana")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Lines[0].Qty)
	// surplus of 3 released at checkout: 5 + 3 = 8
	assert.Equal(t, 8, stockOf(t, f.products, "p1", "Hitam", 0))
}

func TestSubmitOrderAbortsOnShortfallAndRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Coklat", 0, 2) // stock 3 -> 1
	require.NoError(t, err)
	_, err = f.cartUC.UpdateQuantity(ctx, "u1", "p1", "Coklat", 0, 6) // needs 4 more, only 1 left
	require.NoError(t, err)

	_, err = f.checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17", "bca")
	require.ErrorIs(t, err, productdom.ErrInsufficientStock)

	// stock back where it was before the attempt, cart intact
	assert.Equal(t, 1, stockOf(t, f.products, "p1", "Coklat", 0))
	c, err := f.carts.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 6, c.Items[0].Qty)

	assert.Empty(t, f.mailer.to, "no receipt for a failed checkout")
}

func TestSubmitOrderValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		address string
		method  string
		wantErr error
	}{
		{name: "short address", address: "Jkt", method: "cod", wantErr: orderdom.ErrValidation},
		{name: "blank address", address: "    ", method: "cod", wantErr: orderdom.ErrValidation},
		{name: "unknown payment method", address: "Jl. Merdeka 17", method: "cek", wantErr: orderdom.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.checkoutUC.SubmitOrder(ctx, buyer, tt.address, tt.method)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("empty cart", func(t *testing.T) {
		_, err := f.checkoutUC.SubmitOrder(ctx, userdom.Identity{UID: "u2"}, "Jl. Merdeka 17", "cod")
		require.ErrorIs(t, err, usecase.ErrCheckoutEmptyCart)
	})
}

// racingCartRepo tampers with the stored cart right before delegating the
// consume mutation, simulating another session editing mid-checkout.
type racingCartRepo struct {
	*memory.CartRepository

	tampered bool
	tamper   func()
}

func (r *racingCartRepo) Mutate(ctx context.Context, userID string, fn func(c *cartdom.Cart) error) (*cartdom.Cart, error) {
	if !r.tampered {
		r.tampered = true
		r.tamper()
	}
	return r.CartRepository.Mutate(ctx, userID, fn)
}

func TestSubmitOrderAbortsWhenCartChangesMidCheckout(t *testing.T) {
	products := seedProducts(t)
	inner := memory.NewCartRepository()
	catalog := usecase.NewCatalogUsecase(products)
	stock := usecase.NewStockUsecase(products)
	clock := fixedClock{t: testNow}
	cartUC := usecase.NewCartUsecaseWithClock(inner, catalog, stock, clock)
	ctx := context.Background()

	_, err := cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 2) // stock 10 -> 8
	require.NoError(t, err)

	carts := &racingCartRepo{CartRepository: inner}
	carts.tamper = func() {
		_, err := inner.Mutate(ctx, "u1", func(c *cartdom.Cart) error {
			return c.SetQty(cartdom.LineKey("p1", "Hitam", 0), 5, testNow)
		})
		require.NoError(t, err)
	}
	checkoutUC := usecase.NewCheckoutUsecaseWithClock(carts, catalog, stock, nil, clock)

	_, err = checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17", "cod")
	require.ErrorIs(t, err, usecase.ErrCheckoutConflict)

	// nothing settled: reservation intact, the concurrent edit survives
	assert.Equal(t, 8, stockOf(t, products, "p1", "Hitam", 0))
	c, err := inner.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
}

func TestSubmitOrderMailFailureIsNonFatal(t *testing.T) {
	f := newCheckoutFixture(t)
	f.mailer.err = errors.New("sendgrid down")
	ctx := context.Background()

	_, err := f.cartUC.AddItem(ctx, "u1", "p1", "Hitam", 0, 1)
	require.NoError(t, err)

	res, err := f.checkoutUC.SubmitOrder(ctx, buyer, "Jl. Merdeka 17", "ovo")
	require.NoError(t, err, "mail delivery failure must not fail the checkout")
	assert.Equal(t, orderdom.StatusSettled, res.Status)
}

func TestBuyNow(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	res, err := f.checkoutUC.BuyNow(ctx, buyer, "p2", "Putih", 40, 2, "Jl. Merdeka 17", "mandiri")
	require.NoError(t, err)

	require.Len(t, res.Lines, 1)
	assert.Equal(t, 2, res.Lines[0].Qty)
	assert.Equal(t, 2*149000, res.Subtotal)
	assert.Equal(t, 6, stockOf(t, f.products, "p2", "Putih", 40))

	// the cart was never involved
	c, err := f.carts.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestBuyNowOutOfStock(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkoutUC.BuyNow(context.Background(), buyer, "p1", "Coklat", 0, 4, "Jl. Merdeka 17", "cod")
	require.ErrorIs(t, err, usecase.ErrOutOfStock)
	assert.Equal(t, 3, stockOf(t, f.products, "p1", "Coklat", 0))
}
