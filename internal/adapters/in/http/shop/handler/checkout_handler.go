// internal/adapters/in/http/shop/handler/checkout_handler.go
package shopHandler

import (
	"log"
	"net/http"
	"strings"

	"toko/internal/adapters/in/http/middleware"
	"toko/internal/application/usecase"
	userdom "toko/internal/domain/user"
)

// CheckoutHandler settles orders.
//
// - POST /shop/me/checkout  settle the whole cart
// - POST /shop/me/buy-now   settle one selection, bypassing the cart
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutReq struct {
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

type buyNowReq struct {
	ProductID     string `json:"productId"`
	Color         string `json:"color"`
	Size          int    `json:"size"`
	Qty           int    `json:"qty"`
	Address       string `json:"address"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	who, ok := middleware.CurrentIdentity(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/buy-now"):
		h.handleBuyNow(w, r, who)
	case strings.HasSuffix(path, "/checkout"):
		h.handleCheckout(w, r, who)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request, who userdom.Identity) {
	var req checkoutReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.uc.SubmitOrder(r.Context(), who, req.Address, req.PaymentMethod)
	if err != nil {
		log.Printf("[shop_checkout_handler] POST checkout uid=%s error: %v", who.UID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CheckoutHandler) handleBuyNow(w http.ResponseWriter, r *http.Request, who userdom.Identity) {
	var req buyNowReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" || strings.TrimSpace(req.Color) == "" || req.Qty < 1 {
		writeErr(w, http.StatusBadRequest, "productId, color, qty(>=1) are required")
		return
	}

	res, err := h.uc.BuyNow(r.Context(), who, req.ProductID, req.Color, req.Size, req.Qty, req.Address, req.PaymentMethod)
	if err != nil {
		log.Printf("[shop_checkout_handler] POST buy-now uid=%s product=%s error: %v", who.UID, req.ProductID, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
