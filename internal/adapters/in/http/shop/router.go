// internal/adapters/in/http/shop/router.go
package shop

import (
	"log"
	"net/http"
)

// Deps is the buyer-facing (shop) handler set.
type Deps struct {
	Product  http.Handler // public catalog
	Cart     http.Handler // requires auth
	Checkout http.Handler // requires auth
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[shop.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers buyer-facing routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog (public)
	handleSafe(mux, "/shop/products", deps.Product, "Product")
	handleSafe(mux, "/shop/products/", deps.Product, "Product")

	// cart (me scope)
	handleSafe(mux, "/shop/me/cart", deps.Cart, "Cart(me)")
	handleSafe(mux, "/shop/me/cart/", deps.Cart, "Cart(me)")

	// checkout
	handleSafe(mux, "/shop/me/checkout", deps.Checkout, "Checkout(me)")
	handleSafe(mux, "/shop/me/checkout/", deps.Checkout, "Checkout(me)")
	handleSafe(mux, "/shop/me/buy-now", deps.Checkout, "BuyNow(me)")
	handleSafe(mux, "/shop/me/buy-now/", deps.Checkout, "BuyNow(me)")
}
