// internal/adapters/in/http/admin/router.go
package admin

import (
	"log"
	"net/http"
)

// Deps is the catalog-editor handler set.
type Deps struct {
	Product http.Handler
}

func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[admin.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers admin routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	handleSafe(mux, "/admin/products", deps.Product, "Product(admin)")
	handleSafe(mux, "/admin/products/", deps.Product, "Product(admin)")
}
