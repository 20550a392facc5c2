// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdom "toko/internal/domain/cart"
	orderdom "toko/internal/domain/order"
	userdom "toko/internal/domain/user"
)

var (
	ErrCheckoutInvalidArgument = errors.New("checkout_usecase: invalid argument")
	ErrCheckoutEmptyCart       = errors.New("checkout_usecase: cart is empty")

	// ErrCheckoutConflict: the cart changed between the reconcile read and the
	// consume transaction (another session edited it mid-checkout).
	ErrCheckoutConflict = errors.New("checkout_usecase: cart changed during checkout")
)

// ReceiptSender delivers the order confirmation mail. Sending is best effort:
// a delivery failure never fails the checkout.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, toEmail string, res orderdom.Result) error
}

// CheckoutUsecase settles the cart into an order result.
//
// Reservation reconciliation: adds reserve stock immediately, but quantity
// edits inside the cart are optimistic. At checkout each line's delta
// (Qty - ReservedQty) is settled against the catalog: a positive delta
// reserves the shortfall, a negative one releases the surplus. When a
// shortfall cannot be reserved, every adjustment made so far is reversed and
// the checkout aborts with the stock error; cart and catalog are left as if
// the attempt never happened.
type CheckoutUsecase struct {
	carts   cartdom.Repository
	stock   *StockUsecase
	catalog *CatalogUsecase
	mailer  ReceiptSender // nil: receipts disabled
	clock   Clock
}

func NewCheckoutUsecase(carts cartdom.Repository, catalog *CatalogUsecase, stock *StockUsecase, mailer ReceiptSender) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:   carts,
		stock:   stock,
		catalog: catalog,
		mailer:  mailer,
		clock:   systemClock{},
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(carts cartdom.Repository, catalog *CatalogUsecase, stock *StockUsecase, mailer ReceiptSender, clock Clock) *CheckoutUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CheckoutUsecase{carts: carts, stock: stock, catalog: catalog, mailer: mailer, clock: clock}
}

// stockDelta is one applied catalog adjustment, kept so a failed checkout can
// reverse it.
type stockDelta struct {
	productID string
	color     string
	size      int
	delta     int // negative = reserved, positive = released
}

// SubmitOrder validates the shipping details, reconciles reservations, empties
// the cart and returns the settled order. Nothing is persisted order-side.
func (uc *CheckoutUsecase) SubmitOrder(ctx context.Context, who userdom.Identity, address, paymentMethod string) (*orderdom.Result, error) {
	uid := strings.TrimSpace(who.UID)
	if uid == "" {
		return nil, ErrCheckoutInvalidArgument
	}
	if err := orderdom.ValidateAddress(address); err != nil {
		return nil, err
	}
	if !orderdom.ValidPaymentMethod(paymentMethod) {
		return nil, orderdom.ErrValidation
	}

	c, err := uc.carts.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrCheckoutEmptyCart
	}

	applied, err := uc.reconcile(ctx, c.Items)
	if err != nil {
		uc.reverse(ctx, applied)
		return nil, err
	}

	// Reconciliation ran against a plain read, not inside the consume
	// transaction. A concurrent edit landing in between would settle
	// quantities that were never checked against stock, so the consume
	// callback re-verifies the lines and aborts on drift.
	reconciled := c.Items
	now := uc.clock.Now()
	var snapshot []cartdom.LineItem
	if _, err := uc.carts.Mutate(ctx, uid, func(cur *cartdom.Cart) error {
		if err := sameLines(reconciled, cur.Items); err != nil {
			return err
		}
		snapshot = cur.ConsumeAll(now)
		return nil
	}); err != nil {
		uc.reverse(ctx, applied)
		return nil, err
	}

	res := uc.settle(uid, snapshot, address, paymentMethod)
	uc.sendReceipt(ctx, who, res)
	return res, nil
}

// BuyNow settles a single selection immediately, bypassing the cart.
func (uc *CheckoutUsecase) BuyNow(ctx context.Context, who userdom.Identity, productID, color string, size, qty int, address, paymentMethod string) (*orderdom.Result, error) {
	uid := strings.TrimSpace(who.UID)
	if uid == "" || qty < 1 {
		return nil, ErrCheckoutInvalidArgument
	}
	if err := orderdom.ValidateAddress(address); err != nil {
		return nil, err
	}
	if !orderdom.ValidPaymentMethod(paymentMethod) {
		return nil, orderdom.ErrValidation
	}

	offer, err := uc.catalog.ResolveVariation(ctx, productID, color, size, qty)
	if err != nil {
		return nil, err
	}
	if _, err := uc.stock.Reserve(ctx, offer.Product.ID, offer.Color, offer.Size, qty); err != nil {
		return nil, err
	}

	line := cartdom.LineItem{
		ProductID: offer.Product.ID,
		Color:     offer.Color,
		Size:      offer.Size,
		Qty:       qty,
		Price:     offer.UnitPrice,
		Name:      offer.Product.Name,
		Image:     firstImage(offer.Product.Images),
	}
	res := uc.settle(uid, []cartdom.LineItem{line}, address, paymentMethod)
	uc.sendReceipt(ctx, who, res)
	return res, nil
}

// reconcile settles each line's reservation delta against the catalog.
// Returns the adjustments applied so far; on error the caller must reverse
// them.
func (uc *CheckoutUsecase) reconcile(ctx context.Context, items []cartdom.LineItem) ([]stockDelta, error) {
	var applied []stockDelta
	for _, it := range items {
		delta := it.Qty - it.ReservedQty
		switch {
		case delta > 0:
			if _, err := uc.stock.Reserve(ctx, it.ProductID, it.Color, it.Size, delta); err != nil {
				return applied, err
			}
			applied = append(applied, stockDelta{it.ProductID, it.Color, it.Size, -delta})
		case delta < 0:
			if _, err := uc.stock.Release(ctx, it.ProductID, it.Color, it.Size, -delta); err != nil {
				return applied, err
			}
			applied = append(applied, stockDelta{it.ProductID, it.Color, it.Size, -delta})
		}
	}
	return applied, nil
}

// sameLines checks that the cart about to be consumed still matches the lines
// the reconciliation was computed from: same keys, same quantities.
func sameLines(read, cur []cartdom.LineItem) error {
	if len(read) != len(cur) {
		return ErrCheckoutConflict
	}
	want := make(map[string]int, len(read))
	for _, it := range read {
		want[it.Key()] = it.Qty
	}
	for _, it := range cur {
		if qty, ok := want[it.Key()]; !ok || qty != it.Qty {
			return ErrCheckoutConflict
		}
	}
	return nil
}

// reverse undoes applied adjustments best effort, newest first.
func (uc *CheckoutUsecase) reverse(ctx context.Context, applied []stockDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		if d.delta < 0 {
			uc.stock.releaseBestEffort(ctx, d.productID, d.color, d.size, -d.delta)
			continue
		}
		if _, err := uc.stock.Reserve(ctx, d.productID, d.color, d.size, d.delta); err != nil {
			log.Printf("[checkout_usecase] could not re-reserve %d of %s/%s size=%d during rollback: %v",
				d.delta, d.productID, d.color, d.size, err)
		}
	}
}

func (uc *CheckoutUsecase) settle(uid string, items []cartdom.LineItem, address, paymentMethod string) *orderdom.Result {
	lines := make([]orderdom.Line, 0, len(items))
	subtotal := 0
	for _, it := range items {
		sub := it.Price * it.Qty
		subtotal += sub
		lines = append(lines, orderdom.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Color:     it.Color,
			Size:      it.Size,
			Qty:       it.Qty,
			UnitPrice: it.Price,
			Subtotal:  sub,
		})
	}

	return &orderdom.Result{
		ID:            uuid.NewString(),
		UserID:        uid,
		Lines:         lines,
		Subtotal:      subtotal,
		ShippingFee:   orderdom.ShippingFee,
		Total:         subtotal + orderdom.ShippingFee,
		Address:       strings.TrimSpace(address),
		PaymentMethod: strings.TrimSpace(paymentMethod),
		Status:        orderdom.StatusSettled,
		SettledAt:     uc.clock.Now(),
	}
}

func (uc *CheckoutUsecase) sendReceipt(ctx context.Context, who userdom.Identity, res *orderdom.Result) {
	if uc.mailer == nil || strings.TrimSpace(who.Email) == "" {
		return
	}
	if err := uc.mailer.SendReceipt(ctx, who.Email, *res); err != nil {
		log.Printf("[checkout_usecase] receipt mail to %s failed: %v", who.Email, err)
	}
}
