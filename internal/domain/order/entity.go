// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrValidation = errors.New("order: validation failed")
)

// ShippingFee is the flat delivery fee in rupiah added to every order.
const ShippingFee = 10000

// StatusSettled is the only terminal status the checkout stub produces.
const StatusSettled = "settled"

// Payment methods offered at checkout.
var paymentMethods = []string{"cod", "mandiri", "bca", "dana", "ovo", "gopay"}

// PaymentMethods returns the accepted payment method codes.
func PaymentMethods() []string {
	return append([]string(nil), paymentMethods...)
}

// ValidPaymentMethod reports whether code is one of the accepted methods.
func ValidPaymentMethod(code string) bool {
	code = strings.TrimSpace(code)
	for _, m := range paymentMethods {
		if m == code {
			return true
		}
	}
	return false
}

// ValidateAddress applies the (deliberately weak) shipping address check:
// non-empty and at least 5 characters after trimming.
func ValidateAddress(address string) error {
	if len(strings.TrimSpace(address)) < 5 {
		return ErrValidation
	}
	return nil
}

// Line is one settled order line, denormalized from the cart snapshot.
type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      int    `json:"size,omitempty"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unitPrice"`
	Subtotal  int    `json:"subtotal"`
}

// Result is the outcome of the checkout stub. It is returned to the caller
// and never persisted; there is no order collection.
type Result struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Lines         []Line    `json:"lines"`
	Subtotal      int       `json:"subtotal"`
	ShippingFee   int       `json:"shippingFee"`
	Total         int       `json:"total"`
	Address       string    `json:"address"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	SettledAt     time.Time `json:"settledAt"`
}
