package gst

import (
	"time"

	"github.com/rezonia/gst-engine/internal/model"
)

// Clock supplies the timestamps stamped on breakdowns and invoices
type Clock func() time.Time

// SystemClock returns the current UTC time
func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

var errNilClock = model.NewValidationError("clock", nil, "required", "a clock must be supplied")
