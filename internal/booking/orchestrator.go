package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
	"github.com/margaritastailoring/booking-platform/internal/calendar"
	"github.com/margaritastailoring/booking-platform/internal/draftstore"
	"github.com/margaritastailoring/booking-platform/internal/i18n"
	"github.com/margaritastailoring/booking-platform/internal/notify"
	"github.com/margaritastailoring/booking-platform/internal/observability/metrics"
	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("tailoring.internal.booking")

// ErrSubmissionInFlight is returned while a previous submission from the
// same client is still being processed.
var ErrSubmissionInFlight = errors.New("booking: submission already in flight")

// EventCreator is the calendar surface the orchestrator depends on.
type EventCreator interface {
	CreateEvent(ctx context.Context, appt calendar.Appointment) calendar.EventResult
}

// Result is the client-facing outcome of one submission.
type Result struct {
	Success   bool                 `json:"success"`
	BookingID int64                `json:"bookingId,omitempty"`
	Message   string               `json:"message"`
	Warning   string               `json:"warning,omitempty"`
	Calendar  calendar.EventResult `json:"calendar"`
}

// OrchestratorConfig tunes the submission pipeline.
type OrchestratorConfig struct {
	WindowDays   int
	EmailTimeout time.Duration
}

// Orchestrator runs a submission end to end: validate, persist, notify both
// parties, then sync the calendar. Emails and calendar are strictly ordered
// (emails first) and calendar failures never fail the booking.
type Orchestrator struct {
	store    draftstore.Store
	notifier *notify.Notifier
	cal      EventCreator
	cfg      OrchestratorConfig
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	clock    func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewOrchestrator constructs the submission pipeline. Metrics may be nil.
func NewOrchestrator(store draftstore.Store, notifier *notify.Notifier, cal EventCreator, cfg OrchestratorConfig, m *metrics.BookingMetrics, logger *logging.Logger) *Orchestrator {
	if notifier == nil {
		panic("booking: notifier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 90
	}
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = 30 * time.Second
	}
	return &Orchestrator{
		store:    store,
		notifier: notifier,
		cal:      cal,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		clock:    time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// Submit processes one booking submission. Validation failures reject the
// booking with a localized message; past that point the booking always
// succeeds, with degraded-notification and calendar outcomes surfaced in
// the result rather than as errors. Submissions from different clients run
// independently; a second submission from the same client while the first is
// still processing fails fast with ErrSubmissionInFlight.
func (o *Orchestrator) Submit(ctx context.Context, raw map[string]string, lang string) (Result, error) {
	key := submissionKey(raw)
	if !o.acquire(key) {
		return Result{Message: i18n.T(lang, i18n.MsgSubmissionInFlight)}, ErrSubmissionInFlight
	}
	defer o.release(key)

	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()

	req, err := Validate(raw, o.clock(), o.cfg.WindowDays)
	if err != nil {
		var verr *ValidationError
		msg := i18n.T(lang, i18n.MsgMissingField)
		if errors.As(err, &verr) {
			msg = i18n.T(lang, verr.MessageKey())
			span.SetAttributes(attribute.String("tailoring.reject_reason", verr.Kind))
		}
		o.metrics.ObserveSubmission("rejected")
		o.logger.Info("booking rejected", "error", err)
		return Result{Message: msg}, err
	}

	stored := model.NewStoredBooking(req, o.clock())
	span.SetAttributes(attribute.Int64("tailoring.booking_id", stored.ID))

	o.persist(ctx, stored)
	outcomes := o.sendEmails(ctx, stored)
	res := Result{
		Success:   true,
		BookingID: stored.ID,
		Message:   i18n.T(lang, i18n.MsgBookingConfirmed),
	}
	if allFailed(outcomes) {
		res.Warning = i18n.T(lang, i18n.MsgEmailsFailed)
	}

	res.Calendar = o.syncCalendar(ctx, stored)

	outcome := "confirmed"
	if res.Warning != "" {
		outcome = "warned"
	}
	o.metrics.ObserveSubmission(outcome)
	o.logger.Info("booking processed",
		"booking_id", stored.ID,
		"service", stored.Service,
		"emails_failed", res.Warning != "",
		"calendar_synced", res.Calendar.Success,
	)
	return res, nil
}

// persist is best-effort: the booking proceeds even when the draft store is
// down, since the emails are the durable record.
func (o *Orchestrator) persist(ctx context.Context, b model.StoredBooking) {
	if o.store == nil {
		return
	}
	ctx, span := bookingTracer.Start(ctx, "booking.persist")
	defer span.End()

	if err := o.store.Append(ctx, b); err != nil {
		span.RecordError(err)
		o.logger.Warn("draft store append failed", "booking_id", b.ID, "error", err)
	}
}

// sendEmails fans out the confirmation and the business alert concurrently
// and waits for both. A failure on one channel never cancels the other.
func (o *Orchestrator) sendEmails(ctx context.Context, b model.StoredBooking) []notify.Outcome {
	ctx, span := bookingTracer.Start(ctx, "booking.notify")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.EmailTimeout)
	defer cancel()

	outcomes := make([]notify.Outcome, 2)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		outcomes[0] = notify.Outcome{
			Channel: notify.ChannelConfirmation,
			Err:     o.notifier.SendConfirmation(gctx, b),
		}
		return nil
	})
	g.Go(func() error {
		outcomes[1] = notify.Outcome{
			Channel: notify.ChannelBusiness,
			Err:     o.notifier.SendBusinessAlert(gctx, b),
		}
		return nil
	})
	g.Wait() //nolint:errcheck // goroutines always return nil

	for _, out := range outcomes {
		o.metrics.ObserveEmail(out.Channel, !out.Failed())
		if out.Failed() {
			span.RecordError(out.Err)
			o.logger.Error("notification email failed",
				"booking_id", b.ID, "channel", out.Channel, "error", out.Err)
		}
	}
	return outcomes
}

// syncCalendar runs after the emails and never influences the booking
// outcome; its result only decorates the response.
func (o *Orchestrator) syncCalendar(ctx context.Context, b model.StoredBooking) calendar.EventResult {
	if o.cal == nil {
		return calendar.EventResult{Success: false, Reason: "calendar disabled"}
	}
	ctx, span := bookingTracer.Start(ctx, "booking.calendar_sync")
	defer span.End()

	res := o.cal.CreateEvent(ctx, calendar.Appointment{
		BookingID:   b.ID,
		FullName:    b.FullName(),
		Email:       b.Email,
		Phone:       b.Phone,
		Service:     b.Service,
		Date:        b.Date,
		Time:        b.Time,
		Description: b.Description,
		Notes:       pickupNote(b),
	})
	result := "created"
	if !res.Success {
		result = "fallback"
		span.SetAttributes(attribute.String("tailoring.calendar_reason", res.Reason))
		o.logger.Warn("calendar sync degraded",
			"booking_id", b.ID, "reason", res.Reason)
	}
	o.metrics.ObserveCalendar(result)
	return res
}

// submissionKey identifies the submitting client. Email is the stable
// identifier on the form; a blank one is left to validation.
func submissionKey(raw map[string]string) string {
	return strings.ToLower(strings.TrimSpace(raw["email"]))
}

func (o *Orchestrator) acquire(key string) bool {
	if key == "" {
		return true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[key]; busy {
		return false
	}
	o.inFlight[key] = struct{}{}
	return true
}

func (o *Orchestrator) release(key string) {
	if key == "" {
		return
	}
	o.mu.Lock()
	delete(o.inFlight, key)
	o.mu.Unlock()
}

func pickupNote(b model.StoredBooking) string {
	if b.Pickup && b.Address != "" {
		return "Recolección a domicilio: " + b.Address
	}
	return ""
}

func allFailed(outcomes []notify.Outcome) bool {
	for _, out := range outcomes {
		if !out.Failed() {
			return false
		}
	}
	return len(outcomes) > 0
}
