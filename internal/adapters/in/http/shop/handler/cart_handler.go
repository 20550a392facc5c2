// internal/adapters/in/http/shop/handler/cart_handler.go
package shopHandler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"toko/internal/adapters/in/http/middleware"
	"toko/internal/application/query"
	"toko/internal/application/usecase"
)

// CartHandler serves the signed-in user's cart.
//
// - GET    /shop/me/cart         current view (badge count + total included)
// - DELETE /shop/me/cart         clear
// - POST   /shop/me/cart/items   add item
// - PUT    /shop/me/cart/items   set quantity
// - DELETE /shop/me/cart/items   remove item
// - GET    /shop/me/cart/stream  SSE stream of views (cross-session sync)
type CartHandler struct {
	uc   *usecase.CartUsecase
	sync *query.Synchronizer
}

func NewCartHandler(uc *usecase.CartUsecase, sync *query.Synchronizer) http.Handler {
	return &CartHandler{uc: uc, sync: sync}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	who, ok := middleware.CurrentIdentity(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isItems := strings.HasSuffix(path, "/items")
	isStream := strings.HasSuffix(path, "/stream")

	switch {
	case r.Method == http.MethodGet && isStream:
		h.handleStream(w, r, who.UID)
	case r.Method == http.MethodGet && !isItems:
		h.handleGet(w, r, who.UID)
	case r.Method == http.MethodDelete && !isItems:
		h.handleClear(w, r, who.UID)
	case r.Method == http.MethodPost && isItems:
		h.handleAddItem(w, r, who.UID)
	case r.Method == http.MethodPut && isItems:
		h.handleSetQty(w, r, who.UID)
	case r.Method == http.MethodDelete && isItems:
		h.handleRemoveItem(w, r, who.UID)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, uid string) {
	c, err := h.uc.Get(r.Context(), uid)
	if err != nil {
		log.Printf("[shop_cart_handler] GET uid=%s error: %v", uid, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Project(c))
}

type cartItemReq struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      int    `json:"size"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.Color) == "" || req.Qty < 1 {
		writeErr(w, http.StatusBadRequest, "productId, color, qty(>=1) are required")
		return
	}

	c, err := h.uc.AddItem(r.Context(), uid, req.ProductID, req.Color, req.Size, req.Qty)
	if err != nil {
		log.Printf("[shop_cart_handler] POST add-item uid=%s product=%s error: %v", uid, req.ProductID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Project(c))
}

func (h *CartHandler) handleSetQty(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.Color) == "" {
		writeErr(w, http.StatusBadRequest, "productId and color are required")
		return
	}

	c, err := h.uc.UpdateQuantity(r.Context(), uid, req.ProductID, req.Color, req.Size, req.Qty)
	if err != nil {
		log.Printf("[shop_cart_handler] PUT set-qty uid=%s product=%s error: %v", uid, req.ProductID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Project(c))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.Color) == "" {
		writeErr(w, http.StatusBadRequest, "productId and color are required")
		return
	}

	c, err := h.uc.RemoveItem(r.Context(), uid, req.ProductID, req.Color, req.Size)
	if err != nil {
		log.Printf("[shop_cart_handler] DELETE remove-item uid=%s product=%s error: %v", uid, req.ProductID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Project(c))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, uid string) {
	c, err := h.uc.Clear(r.Context(), uid)
	if err != nil {
		log.Printf("[shop_cart_handler] DELETE clear uid=%s error: %v", uid, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Project(c))
}

// handleStream pushes cart views over SSE so every open session of the user
// stays in step with committed mutations.
func (h *CartHandler) handleStream(w http.ResponseWriter, r *http.Request, uid string) {
	if h.sync == nil {
		writeErr(w, http.StatusInternalServerError, "cart sync is not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	views, cancel, err := h.sync.Subscribe(r.Context(), uid)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case view, open := <-views:
			if !open {
				return
			}
			payload, err := json.Marshal(view)
			if err != nil {
				log.Printf("[shop_cart_handler] stream encode uid=%s error: %v", uid, err)
				return
			}
			fmt.Fprintf(w, "event: cart\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
