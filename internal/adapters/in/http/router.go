// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"toko/internal/adapters/in/http/admin"
	adminHandler "toko/internal/adapters/in/http/admin/handler"
	"toko/internal/adapters/in/http/middleware"
	"toko/internal/adapters/in/http/shop"
	shopHandler "toko/internal/adapters/in/http/shop/handler"
	"toko/internal/application/query"
	"toko/internal/application/usecase"
	userdom "toko/internal/domain/user"
)

// RouterDeps collects everything the HTTP surface needs, injected from DI.
type RouterDeps struct {
	CatalogUC  *usecase.CatalogUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	AdminUC    *usecase.AdminUsecase
	CartSync   *query.Synchronizer

	// auth
	Verifier middleware.TokenVerifier
	UserRepo userdom.Repository

	AllowedOrigin string
}

// NewRouter sets up HTTP routing.
//
// /shop/products...  public
// /shop/me/...       bearer token required
// /admin/...         bearer token required (role check in usecase)
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	auth := &middleware.AuthMiddleware{
		Verifier: deps.Verifier,
		UserRepo: deps.UserRepo,
	}
	guard := func(h http.Handler) http.Handler {
		if h == nil {
			return nil
		}
		return auth.Handler(h)
	}

	shop.Register(mux, shop.Deps{
		Product:  shopHandler.NewProductHandler(deps.CatalogUC),
		Cart:     guard(shopHandler.NewCartHandler(deps.CartUC, deps.CartSync)),
		Checkout: guard(shopHandler.NewCheckoutHandler(deps.CheckoutUC)),
	})

	admin.Register(mux, admin.Deps{
		Product: guard(adminHandler.NewProductAdminHandler(deps.AdminUC, deps.CatalogUC)),
	})

	return middleware.CORS(deps.AllowedOrigin)(mux)
}
