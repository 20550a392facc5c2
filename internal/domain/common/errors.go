// internal/domain/common/errors.go
package common

import "errors"

// ErrUnavailable marks a transient backend failure (network, deadline,
// service unavailable). Idempotent reads may retry once on it; writes and
// transactions are never auto-retried.
var ErrUnavailable = errors.New("store unavailable")
