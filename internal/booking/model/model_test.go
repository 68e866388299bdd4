package model

import (
	"testing"
	"time"
)

func TestNewStoredBookingStamps(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 30, 0, 500e6, time.FixedZone("MDT", -6*3600))
	req := &Request{FirstName: "Ana", LastName: "García", Email: "ana@example.com"}

	b := NewStoredBooking(req, now)
	if b.ID != now.UnixMilli() {
		t.Errorf("ID = %d, want %d", b.ID, now.UnixMilli())
	}
	if b.Status != StatusPending {
		t.Errorf("Status = %q", b.Status)
	}
	if !b.CreatedAt.Equal(now) || b.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v", b.CreatedAt)
	}
	if b.Email != "ana@example.com" {
		t.Errorf("request not embedded: %+v", b)
	}
}

func TestFullName(t *testing.T) {
	r := &Request{FirstName: "Ana", LastName: "García"}
	if got := r.FullName(); got != "Ana García" {
		t.Errorf("FullName = %q", got)
	}
}
