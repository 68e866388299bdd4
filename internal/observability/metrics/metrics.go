package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking workflow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailsTotal      *prometheus.CounterVec
	calendarTotal    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailoring",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailoring",
			Subsystem: "booking",
			Name:      "emails_total",
			Help:      "Total notification emails by channel and status",
		}, []string{"channel", "status"}),
		calendarTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailoring",
			Subsystem: "booking",
			Name:      "calendar_events_total",
			Help:      "Total calendar sync attempts by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailsTotal, m.calendarTotal)
	return m
}

// ObserveSubmission records a finished submission: "confirmed", "rejected"
// or "warned" (confirmed with a degraded notification).
func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveEmail records one email send attempt.
func (m *BookingMetrics) ObserveEmail(channel string, ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.emailsTotal.WithLabelValues(channel, status).Inc()
}

// ObserveCalendar records a calendar sync result: "created" or "fallback".
func (m *BookingMetrics) ObserveCalendar(result string) {
	if m == nil {
		return
	}
	m.calendarTotal.WithLabelValues(result).Inc()
}
