// internal/adapters/in/http/admin/handler/product_admin_handler.go
package adminHandler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"toko/internal/adapters/in/http/middleware"
	"toko/internal/application/usecase"
	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
)

// ProductAdminHandler is the catalog editor surface.
//
// - GET    /admin/products
// - POST   /admin/products
// - GET    /admin/products/{id}
// - PUT    /admin/products/{id}
// - DELETE /admin/products/{id}
// - POST   /admin/products/{id}/variations
// - DELETE /admin/products/{id}/variations/{color}
// - PUT    /admin/products/{id}/variations/{color}/sizes
// - DELETE /admin/products/{id}/variations/{color}/sizes/{size}
//
// Authorization (admin role) happens in the usecase, not here.
type ProductAdminHandler struct {
	uc      *usecase.AdminUsecase
	catalog *usecase.CatalogUsecase
}

func NewProductAdminHandler(uc *usecase.AdminUsecase, catalog *usecase.CatalogUsecase) http.Handler {
	return &ProductAdminHandler{uc: uc, catalog: catalog}
}

func (h *ProductAdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil || h.catalog == nil {
		writeErr(w, http.StatusInternalServerError, "admin handler is not configured")
		return
	}

	who, ok := middleware.CurrentIdentity(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// path segments after ".../products"
	path := strings.TrimRight(r.URL.Path, "/")
	idx := strings.Index(path, "/products")
	if idx < 0 {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	rest := strings.Trim(path[idx+len("/products"):], "/")
	var seg []string
	if rest != "" {
		seg = strings.Split(rest, "/")
	}

	switch {
	case len(seg) == 0 && r.Method == http.MethodGet:
		h.handleList(w, r)
	case len(seg) == 0 && r.Method == http.MethodPost:
		h.handleCreate(w, r, who)
	case len(seg) == 1 && r.Method == http.MethodGet:
		h.handleGet(w, r, seg[0])
	case len(seg) == 1 && r.Method == http.MethodPut:
		h.handleUpdate(w, r, who, seg[0])
	case len(seg) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, who, seg[0])
	case len(seg) == 2 && seg[1] == "variations" && r.Method == http.MethodPost:
		h.handleAddVariation(w, r, who, seg[0])
	case len(seg) == 3 && seg[1] == "variations" && r.Method == http.MethodDelete:
		h.handleRemoveVariation(w, r, who, seg[0], seg[2])
	case len(seg) == 4 && seg[1] == "variations" && seg[3] == "sizes" && r.Method == http.MethodPut:
		h.handleSetSizeStock(w, r, who, seg[0], seg[2])
	case len(seg) == 5 && seg[1] == "variations" && seg[3] == "sizes" && r.Method == http.MethodDelete:
		h.handleRemoveSize(w, r, who, seg[0], seg[2], seg[4])
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *ProductAdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ProductAdminHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductAdminHandler) handleCreate(w http.ResponseWriter, r *http.Request, who userdom.Identity) {
	var req productdom.Product
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), who, req)
	if err != nil {
		log.Printf("[admin_product_handler] POST create uid=%s error: %v", who.UID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductAdminHandler) handleUpdate(w http.ResponseWriter, r *http.Request, who userdom.Identity, id string) {
	var req productdom.Product
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.ID = id

	p, err := h.uc.UpdateProduct(r.Context(), who, req)
	if err != nil {
		log.Printf("[admin_product_handler] PUT update uid=%s id=%s error: %v", who.UID, id, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductAdminHandler) handleDelete(w http.ResponseWriter, r *http.Request, who userdom.Identity, id string) {
	if err := h.uc.DeleteProduct(r.Context(), who, id); err != nil {
		log.Printf("[admin_product_handler] DELETE uid=%s id=%s error: %v", who.UID, id, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *ProductAdminHandler) handleAddVariation(w http.ResponseWriter, r *http.Request, who userdom.Identity, id string) {
	var req productdom.Variation
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := h.uc.AddVariation(r.Context(), who, id, req)
	if err != nil {
		log.Printf("[admin_product_handler] POST variation uid=%s id=%s error: %v", who.UID, id, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductAdminHandler) handleRemoveVariation(w http.ResponseWriter, r *http.Request, who userdom.Identity, id, color string) {
	p, err := h.uc.RemoveVariation(r.Context(), who, id, color)
	if err != nil {
		log.Printf("[admin_product_handler] DELETE variation uid=%s id=%s color=%s error: %v", who.UID, id, color, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductAdminHandler) handleSetSizeStock(w http.ResponseWriter, r *http.Request, who userdom.Identity, id, color string) {
	var req productdom.SizeStock
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := h.uc.SetSizeStock(r.Context(), who, id, color, req)
	if err != nil {
		log.Printf("[admin_product_handler] PUT size uid=%s id=%s color=%s error: %v", who.UID, id, color, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductAdminHandler) handleRemoveSize(w http.ResponseWriter, r *http.Request, who userdom.Identity, id, color, sizeRaw string) {
	size, err := strconv.Atoi(sizeRaw)
	if err != nil || size <= 0 {
		writeErr(w, http.StatusBadRequest, "size must be a positive integer")
		return
	}

	p, err := h.uc.RemoveSize(r.Context(), who, id, color, size)
	if err != nil {
		log.Printf("[admin_product_handler] DELETE size uid=%s id=%s color=%s size=%d error: %v", who.UID, id, color, size, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
