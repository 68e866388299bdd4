// Package calendar creates Google Calendar events for confirmed appointments,
// degrading to a pre-filled "add to calendar" link whenever the API is
// unavailable. Calendar sync is strictly best-effort: nothing here may fail
// the booking workflow.
package calendar

import "time"

// Appointment is the slice of a booking the calendar cares about.
type Appointment struct {
	BookingID   int64
	FullName    string
	Email       string
	Phone       string
	Service     string // catalog identifier
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Description string
	Notes       string // e.g. pickup address
}

// EventResult is the tagged outcome of CreateEvent. It is consumed for one
// render pass and never persisted.
type EventResult struct {
	Success      bool   `json:"success"`
	EventID      string `json:"eventId,omitempty"`
	HTMLLink     string `json:"htmlLink,omitempty"`
	Reason       string `json:"reason,omitempty"`
	FallbackLink string `json:"fallbackLink,omitempty"`
}

// State of the long-lived integrator instance.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFallback:
		return "fallback"
	}
	return "unknown"
}

// Config holds the integrator's credentials and event defaults.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string

	InitTimeout  time.Duration
	EventTimeout time.Duration

	BusinessName    string
	BusinessPhone   string
	BusinessAddress string
	Timezone        string
}
