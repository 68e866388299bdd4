// Package model holds the booking data types shared by the workflow
// packages (validation, draft storage, notification, calendar sync).
package model

import "time"

// StatusPending is the only status this workflow assigns. Nothing in the
// current product advances a booking past pending.
const StatusPending = "pending"

// Request is a validated booking submission, built from raw form input.
type Request struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Priority    bool   `json:"priority"`
	Pickup      bool   `json:"pickup"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

// FullName returns the client's display name.
func (r *Request) FullName() string {
	return r.FirstName + " " + r.LastName
}

// StoredBooking is the persisted form of a Request. Records are append-only
// and never mutated after creation.
type StoredBooking struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Request
}

// NewStoredBooking stamps a request with a time-derived identifier and the
// initial pending status.
func NewStoredBooking(req *Request, now time.Time) StoredBooking {
	return StoredBooking{
		ID:        now.UnixMilli(),
		Status:    StatusPending,
		CreatedAt: now.UTC(),
		Request:   *req,
	}
}
