package calendar

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// fakeInserter records calls and plays back a scripted sequence of outcomes.
type fakeInserter struct {
	calls   int
	events  []*gcal.Event
	results []error
	created *gcal.Event
}

func (f *fakeInserter) Insert(_ context.Context, _ string, ev *gcal.Event) (*gcal.Event, error) {
	idx := f.calls
	f.calls++
	f.events = append(f.events, ev)
	if idx < len(f.results) && f.results[idx] != nil {
		return nil, f.results[idx]
	}
	if f.created != nil {
		return f.created, nil
	}
	return &gcal.Event{Id: "evt-123", HtmlLink: "https://calendar.google.com/event?eid=abc"}, nil
}

func readyIntegrator(t *testing.T, fake *fakeInserter) *Integrator {
	t.Helper()
	it := NewIntegrator(testConfig(), logging.New("error"))
	it.state = StateReady
	it.inserter = fake
	it.authenticate = func(context.Context) error { return nil }
	return it
}

func TestCreateEventSuccess(t *testing.T) {
	fake := &fakeInserter{}
	it := readyIntegrator(t, fake)

	res := it.CreateEvent(context.Background(), testAppointment())
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.EventID != "evt-123" || res.HTMLLink == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.FallbackLink != "" {
		t.Errorf("success result must not carry a fallback link: %+v", res)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 insert, got %d", fake.calls)
	}
}

func TestCreateEventPayload(t *testing.T) {
	fake := &fakeInserter{}
	it := readyIntegrator(t, fake)
	it.CreateEvent(context.Background(), testAppointment())

	ev := fake.events[0]
	if !strings.Contains(ev.Summary, "Reparaciones") {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start.TimeZone != "America/Denver" || ev.End.TimeZone != "America/Denver" {
		t.Errorf("timezones: %q / %q", ev.Start.TimeZone, ev.End.TimeZone)
	}
	if len(ev.Attendees) != 1 || ev.Attendees[0].Email != "ana@example.com" {
		t.Errorf("attendees: %+v", ev.Attendees)
	}
	if ev.Reminders == nil || len(ev.Reminders.Overrides) != 2 {
		t.Fatalf("reminders: %+v", ev.Reminders)
	}
	if ev.Reminders.Overrides[0].Method != "email" || ev.Reminders.Overrides[0].Minutes != 1440 {
		t.Errorf("first reminder: %+v", ev.Reminders.Overrides[0])
	}
	if ev.Reminders.Overrides[1].Method != "popup" || ev.Reminders.Overrides[1].Minutes != 60 {
		t.Errorf("second reminder: %+v", ev.Reminders.Overrides[1])
	}
	if ev.Status != "confirmed" {
		t.Errorf("status = %q", ev.Status)
	}
}

func TestCreateEventFallbackModeNeverCallsProvider(t *testing.T) {
	fake := &fakeInserter{}
	it := NewIntegrator(testConfig(), logging.New("error"))
	it.state = StateFallback
	it.inserter = fake

	res := it.CreateEvent(context.Background(), testAppointment())
	if res.Success {
		t.Fatal("expected failure in fallback mode")
	}
	if res.FallbackLink == "" {
		t.Error("fallback result must carry a non-empty link")
	}
	if fake.calls != 0 {
		t.Errorf("provider must not be called in fallback mode, got %d calls", fake.calls)
	}
}

func TestCreateEventAuthExpiredRetriesOnce(t *testing.T) {
	expired := &googleapi.Error{Code: http.StatusUnauthorized}
	fake := &fakeInserter{results: []error{expired, nil}}
	it := readyIntegrator(t, fake)

	res := it.CreateEvent(context.Background(), testAppointment())
	if !res.Success {
		t.Fatalf("expected success after retry, got %+v", res)
	}
	if fake.calls != 2 {
		t.Errorf("expected exactly 2 inserts, got %d", fake.calls)
	}
}

func TestCreateEventAuthExpiredRetriesOnlyOnce(t *testing.T) {
	expired := &googleapi.Error{Code: http.StatusUnauthorized}
	fake := &fakeInserter{results: []error{expired, expired, expired}}
	it := readyIntegrator(t, fake)

	res := it.CreateEvent(context.Background(), testAppointment())
	if res.Success {
		t.Fatal("expected failure")
	}
	if fake.calls != 2 {
		t.Errorf("expected exactly 2 inserts (one retry), got %d", fake.calls)
	}
	if res.FallbackLink == "" {
		t.Error("failure must carry fallback link")
	}
}

func TestCreateEventOtherErrorsNotRetried(t *testing.T) {
	boom := &googleapi.Error{Code: http.StatusServiceUnavailable}
	fake := &fakeInserter{results: []error{boom, nil}}
	it := readyIntegrator(t, fake)

	res := it.CreateEvent(context.Background(), testAppointment())
	if res.Success {
		t.Fatal("expected failure")
	}
	if fake.calls != 1 {
		t.Errorf("5xx must not be retried, got %d calls", fake.calls)
	}
}

func TestCreateEventAuthFailure(t *testing.T) {
	fake := &fakeInserter{}
	it := readyIntegrator(t, fake)
	it.authenticate = func(context.Context) error { return errors.New("consent rejected") }

	res := it.CreateEvent(context.Background(), testAppointment())
	if res.Success || res.FallbackLink == "" {
		t.Fatalf("expected failure with fallback link, got %+v", res)
	}
	if fake.calls != 0 {
		t.Errorf("insert must not run without auth, got %d calls", fake.calls)
	}
}

func TestInitializeWithoutCredentialsEntersFallback(t *testing.T) {
	it := NewIntegrator(testConfig(), logging.New("error"))
	it.Initialize(context.Background())
	if got := it.State(); got != StateFallback {
		t.Errorf("expected fallback, got %v", got)
	}
	// Initialization failure is permanent for the session.
	it.Initialize(context.Background())
	if got := it.State(); got != StateFallback {
		t.Errorf("fallback must be sticky, got %v", got)
	}
}

func TestEnsureAuthenticatedInFallback(t *testing.T) {
	it := NewIntegrator(testConfig(), logging.New("error"))
	it.state = StateFallback
	if err := it.EnsureAuthenticated(context.Background()); !errors.Is(err, ErrFallbackMode) {
		t.Errorf("expected ErrFallbackMode, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		StateUninitialized: "uninitialized",
		StateInitializing:  "initializing",
		StateReady:         "ready",
		StateFallback:      "fallback",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}
