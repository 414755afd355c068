package dom

import (
	"strconv"

	"github.com/aretw0/folio/pkg/domain"
)

// Settled reports whether next is the first state after a submission that
// prev had in flight.
func Settled(prev, next *domain.Form) bool {
	if prev == nil || next == nil {
		return false
	}
	return prev.State == domain.StateSubmitting && next.State != domain.StateSubmitting
}

// WriteValue reports whether painting may overwrite an input's value. The
// focused input keeps what the visitor is typing until a submission settles,
// so a reset after success clears it too.
func WriteValue(focused, settled bool) bool {
	return !focused || settled
}

// ElementID returns id, or a generated "<prefix>-<i>" for elements without one.
func ElementID(id, prefix string, i int) string {
	if id != "" {
		return id
	}
	return prefix + "-" + strconv.Itoa(i)
}
