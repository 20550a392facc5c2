// internal/adapters/in/http/shop/handler/product_handler.go
package shopHandler

import (
	"log"
	"net/http"
	"strings"

	"toko/internal/application/usecase"
)

// ProductHandler serves the public catalog endpoints.
//
// - GET /shop/products        list
// - GET /shop/products/{id}   detail
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

func NewProductHandler(uc *usecase.CatalogUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	// list
	if strings.HasSuffix(path, "/products") || path == "" {
		list, err := h.uc.ListProducts(r.Context())
		if err != nil {
			log.Printf("[shop_product_handler] list error: %v", err)
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	// detail: .../products/{id}
	id := path[strings.LastIndex(path, "/")+1:]
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		log.Printf("[shop_product_handler] get id=%q error: %v", id, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
