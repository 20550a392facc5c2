// internal/adapters/out/firestore/helpers.go
package firestore

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"toko/internal/domain/common"
)

// mapErr folds transient gRPC failures into common.ErrUnavailable so the
// application layer can apply its retry policy without importing grpc.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	}
	return err
}

// ---- tolerant value coercion for snapshot parsing ----

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	}
	return 0
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
