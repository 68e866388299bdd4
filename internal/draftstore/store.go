// Package draftstore persists submitted bookings as an append-only list.
// It is best-effort telemetry: there is no server-side source of truth, and
// callers must never let a storage failure abort the booking workflow.
package draftstore

import (
	"context"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
)

// Key is the single fixed storage key holding the full booking list.
const Key = "tailoring:bookings"

// Store is the append-only booking draft list.
type Store interface {
	// Append adds a booking to the end of the stored list.
	Append(ctx context.Context, b model.StoredBooking) error
	// ListAll returns the stored list in append order.
	ListAll(ctx context.Context) ([]model.StoredBooking, error)
}
