// Package booking implements the appointment booking workflow: validation,
// draft persistence, email notification and calendar sync.
package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
	"github.com/margaritastailoring/booking-platform/internal/catalog"
	"github.com/margaritastailoring/booking-platform/internal/i18n"
)

// ValidationError kinds.
const (
	KindMissingField   = "missing_field"
	KindInvalidEmail   = "invalid_email"
	KindInvalidPhone   = "invalid_phone"
	KindMissingAddress = "missing_address"
	KindUnknownService = "unknown_service"
	KindInvalidDate    = "invalid_date"
	KindDateOutOfRange = "date_out_of_range"
)

// ValidationError reports why a submission was rejected. It is the only
// error class that blocks a booking.
type ValidationError struct {
	Kind  string
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("booking: validation failed: %s (%s)", e.Kind, e.Field)
	}
	return fmt.Sprintf("booking: validation failed: %s", e.Kind)
}

// MessageKey maps the error to its localized user-facing message.
func (e *ValidationError) MessageKey() string {
	switch e.Kind {
	case KindMissingField:
		return i18n.MsgMissingField
	case KindInvalidEmail:
		return i18n.MsgInvalidEmail
	case KindInvalidPhone:
		return i18n.MsgInvalidPhone
	case KindMissingAddress:
		return i18n.MsgMissingAddress
	case KindUnknownService:
		return i18n.MsgUnknownService
	case KindInvalidDate:
		return i18n.MsgInvalidDate
	case KindDateOutOfRange:
		return i18n.MsgDateOutOfRange
	}
	return i18n.MsgMissingField
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Phone accepts digits, spaces and ()+- punctuation, and must contain
	// at least one digit.
	phoneRe = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	digitRe = regexp.MustCompile(`\d`)
)

// requiredFields in the order they are checked and reported.
var requiredFields = []string{"firstName", "lastName", "email", "phone", "service", "date", "time"}

// Validate checks raw form values and builds a model.Request. It is a pure
// function of its inputs: today anchors the booking window and windowDays
// is its length in days. No side effects occur here.
func Validate(raw map[string]string, today time.Time, windowDays int) (*model.Request, error) {
	trimmed := make(map[string]string, len(raw))
	for k, v := range raw {
		trimmed[k] = strings.TrimSpace(v)
	}

	for _, f := range requiredFields {
		if trimmed[f] == "" {
			return nil, &ValidationError{Kind: KindMissingField, Field: f}
		}
	}

	if !emailRe.MatchString(trimmed["email"]) {
		return nil, &ValidationError{Kind: KindInvalidEmail, Field: "email"}
	}
	if !phoneRe.MatchString(trimmed["phone"]) || !digitRe.MatchString(trimmed["phone"]) {
		return nil, &ValidationError{Kind: KindInvalidPhone, Field: "phone"}
	}
	if !catalog.Valid(trimmed["service"]) {
		return nil, &ValidationError{Kind: KindUnknownService, Field: "service"}
	}

	date, err := time.ParseInLocation("2006-01-02", trimmed["date"], today.Location())
	if err != nil {
		return nil, &ValidationError{Kind: KindInvalidDate, Field: "date"}
	}
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if date.Before(dayStart) || date.After(dayStart.AddDate(0, 0, windowDays)) {
		return nil, &ValidationError{Kind: KindDateOutOfRange, Field: "date"}
	}

	pickup := parseFlag(trimmed["pickup"])
	if pickup && trimmed["address"] == "" {
		return nil, &ValidationError{Kind: KindMissingAddress, Field: "address"}
	}

	return &model.Request{
		FirstName:   trimmed["firstName"],
		LastName:    trimmed["lastName"],
		Email:       trimmed["email"],
		Phone:       trimmed["phone"],
		Service:     trimmed["service"],
		Date:        trimmed["date"],
		Time:        trimmed["time"],
		Priority:    parseFlag(trimmed["priority"]),
		Pickup:      pickup,
		Address:     trimmed["address"],
		Description: trimmed["description"],
	}, nil
}

// parseFlag interprets checkbox-style form values.
func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes", "sí", "si":
		return true
	}
	return false
}
