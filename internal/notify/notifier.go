package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
	"github.com/margaritastailoring/booking-platform/internal/catalog"
	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// Channel identifies which of the two emails an outcome belongs to.
const (
	ChannelConfirmation = "confirmation"
	ChannelBusiness     = "business"
)

// Outcome is the per-recipient result of one send. It is consumed only to
// decide whether the orchestrator surfaces a warning.
type Outcome struct {
	Channel string
	Err     error
}

// Failed reports whether the send failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// NotifierConfig holds the template pair and the business identity
// interpolated into both messages.
type NotifierConfig struct {
	ConfirmationTemplateID string
	BusinessTemplateID     string

	BusinessName    string
	BusinessEmail   string
	BusinessPhone   string
	BusinessAddress string
}

// Notifier builds and sends the two booking emails. The two sends are
// independent; retries, if any, belong to the caller.
type Notifier struct {
	sender TemplateSender
	cfg    NotifierConfig
	logger *logging.Logger
}

// NewNotifier creates a notifier on top of a template sender.
func NewNotifier(sender TemplateSender, cfg NotifierConfig, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{sender: sender, cfg: cfg, logger: logger}
}

// SendConfirmation emails the client that their appointment is booked.
func (n *Notifier) SendConfirmation(ctx context.Context, b model.StoredBooking) error {
	if n.sender == nil {
		return ErrServiceUnavailable
	}

	params := n.commonParams(b)
	params["to_email"] = b.Email
	params["to_name"] = b.FullName()
	params["from_name"] = n.cfg.BusinessName
	params["subject"] = fmt.Sprintf("Confirmación de Cita - %s", n.cfg.BusinessName)
	params["message"] = n.confirmationMessage(b)

	to := Address{Email: b.Email, Name: b.FullName()}
	return n.sender.SendTemplate(ctx, n.cfg.ConfirmationTemplateID, to, params)
}

// SendBusinessAlert emails the shop about the new reservation.
func (n *Notifier) SendBusinessAlert(ctx context.Context, b model.StoredBooking) error {
	if n.sender == nil {
		return ErrServiceUnavailable
	}

	params := n.commonParams(b)
	params["to_email"] = n.cfg.BusinessEmail
	params["from_name"] = b.FullName()
	params["from_email"] = b.Email
	params["phone"] = b.Phone
	params["subject"] = "Nueva Reserva de Cita"
	params["message"] = n.businessMessage(b)

	to := Address{Email: n.cfg.BusinessEmail, Name: n.cfg.BusinessName}
	return n.sender.SendTemplate(ctx, n.cfg.BusinessTemplateID, to, params)
}

func (n *Notifier) commonParams(b model.StoredBooking) map[string]string {
	return map[string]string{
		"booking_id":  strconv.FormatInt(b.ID, 10),
		"service":     catalog.DisplayName(b.Service, "es"),
		"date":        b.Date,
		"time":        b.Time,
		"priority":    siNo(b.Priority),
		"pickup":      siNo(b.Pickup),
		"address":     valueOr(b.Address, "N/A"),
		"description": valueOr(b.Description, "Sin descripción adicional"),
	}
}

func (n *Notifier) confirmationMessage(b model.StoredBooking) string {
	var m strings.Builder
	fmt.Fprintf(&m, "Estimado/a %s,\n\n", b.FirstName)
	m.WriteString("Su cita ha sido confirmada exitosamente:\n\n")
	fmt.Fprintf(&m, "Fecha: %s\n", b.Date)
	fmt.Fprintf(&m, "Hora: %s\n", b.Time)
	fmt.Fprintf(&m, "Servicio: %s\n", catalog.DisplayName(b.Service, "es"))
	fmt.Fprintf(&m, "Servicio Express: %s\n", siNo(b.Priority))
	fmt.Fprintf(&m, "Recolección a domicilio: %s\n", siNo(b.Pickup))
	if b.Address != "" {
		fmt.Fprintf(&m, "Dirección: %s\n", b.Address)
	}
	if b.Description != "" {
		fmt.Fprintf(&m, "\nDetalles adicionales: %s\n", b.Description)
	}
	fmt.Fprintf(&m, "\nSi necesita hacer cambios, contáctenos:\n%s\n%s\n\n", n.cfg.BusinessPhone, n.cfg.BusinessEmail)
	fmt.Fprintf(&m, "¡Gracias por elegir %s!", n.cfg.BusinessName)
	return m.String()
}

func (n *Notifier) businessMessage(b model.StoredBooking) string {
	var m strings.Builder
	m.WriteString("Nueva reserva de cita:\n\n")
	fmt.Fprintf(&m, "Nombre: %s\n", b.FullName())
	fmt.Fprintf(&m, "Email: %s\n", b.Email)
	fmt.Fprintf(&m, "Teléfono: %s\n", b.Phone)
	fmt.Fprintf(&m, "Servicio: %s\n", catalog.DisplayName(b.Service, "es"))
	fmt.Fprintf(&m, "Fecha: %s\n", b.Date)
	fmt.Fprintf(&m, "Hora: %s\n", b.Time)
	fmt.Fprintf(&m, "Servicio Express: %s\n", siNo(b.Priority))
	fmt.Fprintf(&m, "Recolección a domicilio: %s\n", siNo(b.Pickup))
	if b.Address != "" {
		fmt.Fprintf(&m, "Dirección: %s\n", b.Address)
	}
	if b.Description != "" {
		fmt.Fprintf(&m, "Descripción: %s\n", b.Description)
	}
	return m.String()
}

func siNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
