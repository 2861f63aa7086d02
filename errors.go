package dawgs

import (
	"github.com/milden6/dawgs/store"
	"github.com/pkg/errors"
)

// Re-exported so callers building against this package don't also need
// to import store directly just to compare against errors.Is.
var (
	ErrCapacityExceeded = store.ErrCapacityExceeded
	ErrFormatMismatch   = store.ErrFormatMismatch
	ErrIO               = store.ErrIO
)

// ErrInvalidArgument is returned, wrapped, by Config.ValidateToken (and
// so by both builders' AddToken) for a token that exceeds the configured
// TokenWidth (spec §7 InvalidArgument). No other check returns it.
var ErrInvalidArgument = errors.New("dawgs: invalid argument")

// invariantViolation panics with a diagnostic. Per spec §7,
// InvariantViolation indicates a programmer bug (e.g. NewDawg's source
// node not landing at index 0), not a recoverable
// user error, so it is never returned as an error value.
func invariantViolation(format string, args ...interface{}) {
	panic(errors.Errorf("dawgs: invariant violation: "+format, args...))
}
