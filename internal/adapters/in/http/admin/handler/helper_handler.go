// internal/adapters/in/http/admin/handler/helper_handler.go
package adminHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"toko/internal/application/usecase"
	"toko/internal/domain/common"
	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
)

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

func writeUsecaseErr(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeErr(w, http.StatusInternalServerError, "unknown error")
	case errors.Is(err, userdom.ErrPermissionDenied):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, productdom.ErrVariationNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrUnavailable):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, usecase.ErrAdminInvalidArgument),
		errors.Is(err, usecase.ErrCatalogInvalidArgument),
		errors.Is(err, productdom.ErrInvalidProduct),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrSizeRequired):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
