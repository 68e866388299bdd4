// Package notify sends the two booking emails (client confirmation and
// business alert) through a transactional email provider.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// ErrServiceUnavailable indicates the provider client never became usable
// (not configured, or its setup failed).
var ErrServiceUnavailable = errors.New("notify: email service unavailable")

// ProviderError is a non-2xx response from the email provider.
type ProviderError struct {
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("notify: provider returned status %d", e.StatusCode)
}

// IsClientError reports whether the failure was caused by the request data
// (4xx) rather than a provider-side outage (5xx).
func (e *ProviderError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Address is an email recipient or sender.
type Address struct {
	Email string
	Name  string
}

// TemplateSender sends one templated email: a provider template identifier
// plus a flat map of named parameters. Implementations can be swapped
// (SendGrid, SES, stub) without changing callers.
type TemplateSender interface {
	SendTemplate(ctx context.Context, templateID string, to Address, params map[string]string) error
}

// SendGridSender sends templated emails via the SendGrid API.
type SendGridSender struct {
	client *sendgrid.Client
	from   Address
	logger *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a SendGrid sender, or nil when no API key is
// configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Margarita's Tailoring"
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   Address{Email: cfg.FromEmail, Name: cfg.FromName},
		logger: logger,
	}
}

// SendTemplate sends one dynamic-template email.
func (s *SendGridSender) SendTemplate(ctx context.Context, templateID string, to Address, params map[string]string) error {
	if s == nil || s.client == nil {
		return ErrServiceUnavailable
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.from.Name, s.from.Email))
	m.SetTemplateID(templateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(to.Name, to.Email))
	for k, v := range params {
		p.SetDynamicTemplateData(k, v)
	}
	m.AddPersonalizations(p)

	response, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", to.Email, "template", templateID)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "to", to.Email, "template", templateID)
		return &ProviderError{StatusCode: response.StatusCode}
	}

	s.logger.Info("email sent via sendgrid", "to", to.Email, "template", templateID, "status", response.StatusCode)
	return nil
}

// StubSender logs instead of sending, for tests and disabled mode.
type StubSender struct {
	logger *logging.Logger
}

// NewStubSender creates a stub template sender.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// SendTemplate logs the email but doesn't actually send it.
func (s *StubSender) SendTemplate(_ context.Context, templateID string, to Address, params map[string]string) error {
	s.logger.Info("stub sender: would send templated email",
		"to", to.Email, "template", templateID, "params", len(params))
	return nil
}

var _ TemplateSender = (*SendGridSender)(nil)
var _ TemplateSender = (*StubSender)(nil)
