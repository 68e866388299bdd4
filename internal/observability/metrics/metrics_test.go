package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	m := NewBookingMetrics(prometheus.NewRegistry())
	m.ObserveSubmission("confirmed")
	m.ObserveEmail("confirmation", true)
	m.ObserveEmail("business", false)
	m.ObserveCalendar("fallback")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSubmission("confirmed")
	m.ObserveEmail("confirmation", true)
	m.ObserveCalendar("created")
}
