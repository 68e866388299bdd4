// Package i18n holds the localized user-facing message catalog. The site is
// Spanish-first with an English toggle, so Spanish is the default language.
package i18n

// Message keys surfaced by the booking workflow.
const (
	MsgBookingConfirmed    = "booking_confirmed"
	MsgEmailsFailed        = "emails_failed"
	MsgMissingField        = "missing_field"
	MsgInvalidEmail        = "invalid_email"
	MsgInvalidPhone        = "invalid_phone"
	MsgMissingAddress      = "missing_address"
	MsgUnknownService      = "unknown_service"
	MsgInvalidDate         = "invalid_date"
	MsgDateOutOfRange      = "date_out_of_range"
	MsgSubmissionInFlight  = "submission_in_flight"
	MsgAddToCalendarManual = "add_to_calendar_manual"
)

var messages = map[string]map[string]string{
	"es": {
		MsgBookingConfirmed:    "¡Tu cita ha sido confirmada exitosamente!",
		MsgEmailsFailed:        "Reserva guardada, pero no pudimos enviar el email de confirmación. Por favor llámanos para confirmar.",
		MsgMissingField:        "Por favor completa todos los campos requeridos.",
		MsgInvalidEmail:        "El correo electrónico no es válido.",
		MsgInvalidPhone:        "El número de teléfono no es válido.",
		MsgMissingAddress:      "La dirección es requerida para recolección a domicilio.",
		MsgUnknownService:      "El servicio seleccionado no está disponible.",
		MsgInvalidDate:         "La fecha seleccionada no es válida.",
		MsgDateOutOfRange:      "La fecha debe estar dentro de los próximos 90 días.",
		MsgSubmissionInFlight:  "Tu reserva anterior aún se está procesando.",
		MsgAddToCalendarManual: "Agrega la cita a tu calendario con este enlace.",
	},
	"en": {
		MsgBookingConfirmed:    "Your appointment has been confirmed!",
		MsgEmailsFailed:        "Reservation saved, but the confirmation email failed. Please call us to confirm.",
		MsgMissingField:        "Please complete all required fields.",
		MsgInvalidEmail:        "The email address is not valid.",
		MsgInvalidPhone:        "The phone number is not valid.",
		MsgMissingAddress:      "An address is required for home pickup.",
		MsgUnknownService:      "The selected service is not available.",
		MsgInvalidDate:         "The selected date is not valid.",
		MsgDateOutOfRange:      "The date must be within the next 90 days.",
		MsgSubmissionInFlight:  "Your previous reservation is still being processed.",
		MsgAddToCalendarManual: "Add the appointment to your calendar with this link.",
	},
}

// T returns the localized message for key in lang, falling back to Spanish
// and then to the key itself so a missing translation never blanks the UI.
func T(lang, key string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages["es"][key]; ok {
		return s
	}
	return key
}
