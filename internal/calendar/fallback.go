package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/margaritastailoring/booking-platform/internal/catalog"
)

const renderBaseURL = "https://calendar.google.com/calendar/render"

// eventDuration is the fixed appointment length.
const eventDuration = 60 * time.Minute

// appointmentWindow parses the appointment's local start time and returns
// start and end (start + 60 minutes) in the given location.
func appointmentWindow(appt Appointment, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar: parse appointment time: %w", err)
	}
	return start, start.Add(eventDuration), nil
}

// formatGoogleUTC renders a timestamp the way the Calendar template URL
// expects: YYYYMMDDTHHMMSSZ in UTC.
func formatGoogleUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// GenerateFallbackLink builds a deep link into the Google Calendar web UI,
// pre-filled with the appointment. The encoding must match the provider's
// template URL exactly or the event page opens blank.
func GenerateFallbackLink(appt Appointment, cfg Config, loc *time.Location) string {
	start, end, err := appointmentWindow(appt, loc)
	if err != nil {
		// Degrade to the bare calendar page rather than a broken link.
		return "https://calendar.google.com/calendar/"
	}

	serviceName := catalog.DisplayName(appt.Service, "es")

	var details strings.Builder
	fmt.Fprintf(&details, "Cita con %s\n", cfg.BusinessName)
	fmt.Fprintf(&details, "Servicio: %s\n", serviceName)
	fmt.Fprintf(&details, "Cliente: %s\n", appt.FullName)
	fmt.Fprintf(&details, "Teléfono: %s", appt.Phone)

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", fmt.Sprintf("%s - %s", serviceName, cfg.BusinessName))
	params.Set("dates", formatGoogleUTC(start)+"/"+formatGoogleUTC(end))
	params.Set("details", details.String())
	params.Set("location", cfg.BusinessAddress)
	params.Set("ctz", cfg.Timezone)

	return renderBaseURL + "?" + params.Encode()
}
