package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/margaritastailoring/booking-platform/internal/catalog"
	"github.com/margaritastailoring/booking-platform/internal/retry"
	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// eventInserter abstracts the provider's event-insert call so tests can
// substitute a fake provider.
type eventInserter interface {
	Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error)
}

// googleInserter is the real Calendar API implementation.
type googleInserter struct {
	service *gcal.Service
}

func (g *googleInserter) Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error) {
	return g.service.Events.Insert(calendarID, ev).SendNotifications(true).Context(ctx).Do()
}

// ErrFallbackMode is returned by EnsureAuthenticated when the integrator gave
// up on the API for this session.
var ErrFallbackMode = errors.New("calendar: integrator in fallback mode")

// Integrator is the process-wide calendar service. One instance lives for the
// whole session; it is safe for concurrent use.
type Integrator struct {
	cfg    Config
	logger *logging.Logger
	loc    *time.Location

	mu       sync.Mutex
	state    State
	initDone chan struct{} // closed when an in-flight initialization finishes

	inserter    eventInserter
	tokenSource oauth2.TokenSource

	// authenticate is swappable in tests.
	authenticate func(ctx context.Context) error
}

// NewIntegrator creates an integrator in the Uninitialized state. Call
// Initialize before first use; CreateEvent will do so lazily otherwise.
func NewIntegrator(cfg Config, logger *logging.Logger) *Integrator {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 10 * time.Second
	}
	if cfg.EventTimeout <= 0 {
		cfg.EventTimeout = 15 * time.Second
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("calendar: unknown timezone, using UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}
	it := &Integrator{cfg: cfg, logger: logger, loc: loc}
	it.authenticate = it.refreshCredential
	return it
}

// State returns the current integrator state.
func (it *Integrator) State() State {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.state
}

// Initialize configures the Calendar API client under a bounded time budget.
// Any failure transitions to FallbackMode instead of returning an error:
// initialization must never be fatal to the booking flow. Concurrent calls
// coalesce onto a single in-flight attempt.
func (it *Integrator) Initialize(ctx context.Context) {
	it.mu.Lock()
	switch it.state {
	case StateReady, StateFallback:
		it.mu.Unlock()
		return
	case StateInitializing:
		done := it.initDone
		it.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}
	it.state = StateInitializing
	it.initDone = make(chan struct{})
	done := it.initDone
	it.mu.Unlock()

	next := StateFallback
	if err := it.buildClient(ctx); err != nil {
		it.logger.Warn("calendar: initialization failed, entering fallback mode", "error", err)
	} else {
		next = StateReady
		it.logger.Info("calendar: integrator ready", "calendar_id", it.cfg.CalendarID)
	}

	it.mu.Lock()
	it.state = next
	it.mu.Unlock()
	close(done)
}

func (it *Integrator) buildClient(ctx context.Context) error {
	if it.cfg.ClientID == "" || it.cfg.ClientSecret == "" || it.cfg.RefreshToken == "" {
		return errors.New("calendar: credentials not configured")
	}

	initCtx, cancel := context.WithTimeout(ctx, it.cfg.InitTimeout)
	defer cancel()

	oauthCfg := &oauth2.Config{
		ClientID:     it.cfg.ClientID,
		ClientSecret: it.cfg.ClientSecret,
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
	// The token source refreshes with the long-lived refresh token; it must
	// outlive the init context.
	ts := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: it.cfg.RefreshToken})

	var service *gcal.Service
	err := retry.Do(initCtx, retry.Policy{
		MaxAttempts: 2,
		Backoff:     retry.Exponential(500*time.Millisecond, 2*time.Second),
	}, func(ctx context.Context) error {
		var err error
		service, err = gcal.NewService(ctx, option.WithTokenSource(ts))
		return err
	})
	if err != nil {
		return fmt.Errorf("calendar: build service: %w", err)
	}

	it.mu.Lock()
	it.tokenSource = oauth2.ReuseTokenSource(nil, ts)
	it.inserter = &googleInserter{service: service}
	it.mu.Unlock()
	return nil
}

// EnsureAuthenticated returns immediately when a cached credential is still
// valid, otherwise obtains a fresh one. A rejected refresh is returned to the
// caller and not retried here.
func (it *Integrator) EnsureAuthenticated(ctx context.Context) error {
	if it.State() == StateFallback {
		return ErrFallbackMode
	}
	return it.authenticate(ctx)
}

func (it *Integrator) refreshCredential(_ context.Context) error {
	it.mu.Lock()
	ts := it.tokenSource
	it.mu.Unlock()
	if ts == nil {
		return errors.New("calendar: no credential source")
	}
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("calendar: obtain credential: %w", err)
	}
	if !tok.Valid() {
		return errors.New("calendar: obtained credential is expired")
	}
	return nil
}

// CreateEvent creates a calendar event for the appointment. It never returns
// an error to the workflow: every failure path yields a failure EventResult
// carrying a usable fallback link. Exactly one retry is performed for the
// auth-expired error class; no other error is retried. Two calls for the
// same appointment create two events (no dedup key is sent).
func (it *Integrator) CreateEvent(ctx context.Context, appt Appointment) EventResult {
	if it.State() == StateUninitialized {
		it.Initialize(ctx)
	}
	if it.State() != StateReady {
		return it.failure(appt, "calendar API unavailable")
	}

	if err := it.EnsureAuthenticated(ctx); err != nil {
		it.logger.Warn("calendar: authentication failed", "error", err, "booking_id", appt.BookingID)
		return it.failure(appt, "authentication failed")
	}

	event, err := it.buildEvent(appt)
	if err != nil {
		it.logger.Warn("calendar: could not build event", "error", err, "booking_id", appt.BookingID)
		return it.failure(appt, "invalid appointment time")
	}

	insertCtx, cancel := context.WithTimeout(ctx, it.cfg.EventTimeout)
	defer cancel()

	it.mu.Lock()
	inserter := it.inserter
	it.mu.Unlock()

	var created *gcal.Event
	err = retry.Do(insertCtx, retry.Policy{
		MaxAttempts: 2,
		Retryable:   isAuthExpired,
	}, func(ctx context.Context) error {
		var err error
		created, err = inserter.Insert(ctx, it.cfg.CalendarID, event)
		if isAuthExpired(err) {
			if authErr := it.authenticate(ctx); authErr != nil {
				return authErr
			}
		}
		return err
	})
	if err != nil {
		it.logger.Warn("calendar: event insert failed", "error", err, "booking_id", appt.BookingID)
		return it.failure(appt, "event creation failed")
	}

	it.logger.Info("calendar: event created", "event_id", created.Id, "booking_id", appt.BookingID)
	return EventResult{Success: true, EventID: created.Id, HTMLLink: created.HtmlLink}
}

func (it *Integrator) failure(appt Appointment, reason string) EventResult {
	return EventResult{
		Success:      false,
		Reason:       reason,
		FallbackLink: GenerateFallbackLink(appt, it.cfg, it.loc),
	}
}

// isAuthExpired reports whether err is the auth-expired provider error class.
func isAuthExpired(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

// buildEvent maps an appointment onto the provider's event object.
func (it *Integrator) buildEvent(appt Appointment) (*gcal.Event, error) {
	start, end, err := appointmentWindow(appt, it.loc)
	if err != nil {
		return nil, err
	}

	serviceName := catalog.DisplayName(appt.Service, "es")

	var desc strings.Builder
	fmt.Fprintf(&desc, "Cita con %s\n\n", it.cfg.BusinessName)
	fmt.Fprintf(&desc, "Servicio: %s\n", serviceName)
	fmt.Fprintf(&desc, "Cliente: %s\n", appt.FullName)
	fmt.Fprintf(&desc, "Teléfono: %s\n", appt.Phone)
	fmt.Fprintf(&desc, "Email: %s\n", appt.Email)
	if appt.Description != "" {
		fmt.Fprintf(&desc, "\nDetalles del servicio:\n%s\n", appt.Description)
	}
	if appt.Notes != "" {
		fmt.Fprintf(&desc, "\nNotas adicionales:\n%s\n", appt.Notes)
	}
	fmt.Fprintf(&desc, "\nID de reserva: %d\n", appt.BookingID)
	fmt.Fprintf(&desc, "\nInformación de contacto:\n%s\n%s\nTeléfono: %s",
		it.cfg.BusinessName, it.cfg.BusinessAddress, it.cfg.BusinessPhone)

	return &gcal.Event{
		Summary:     fmt.Sprintf("%s - %s", serviceName, it.cfg.BusinessName),
		Description: desc.String(),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: it.cfg.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: it.cfg.Timezone,
		},
		Location: it.cfg.BusinessAddress,
		Attendees: []*gcal.EventAttendee{
			{Email: appt.Email, DisplayName: appt.FullName},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ColorId: "2",
		Status:  "confirmed",
	}, nil
}
