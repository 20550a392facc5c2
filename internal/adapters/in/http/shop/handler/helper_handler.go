// internal/adapters/in/http/shop/handler/helper_handler.go
package shopHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"toko/internal/application/usecase"
	cartdom "toko/internal/domain/cart"
	"toko/internal/domain/common"
	orderdom "toko/internal/domain/order"
	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(msg)})
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFromErr maps application/domain errors onto HTTP status codes. All
// handlers in this package share the mapping so a given error always renders
// the same way.
func statusFromErr(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, cartdom.ErrLineNotFound),
		errors.Is(err, productdom.ErrVariationNotFound),
		errors.Is(err, userdom.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrOutOfStock),
		errors.Is(err, usecase.ErrCheckoutConflict),
		errors.Is(err, productdom.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, userdom.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrCatalogInvalidArgument),
		errors.Is(err, usecase.ErrCheckoutInvalidArgument),
		errors.Is(err, usecase.ErrCheckoutEmptyCart),
		errors.Is(err, usecase.ErrStockInvalidArgument),
		errors.Is(err, cartdom.ErrInvalidCart),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, productdom.ErrSizeRequired),
		errors.Is(err, productdom.ErrInvalidProduct),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, orderdom.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeUsecaseErr(w http.ResponseWriter, err error) {
	writeErr(w, statusFromErr(err), err.Error())
}
