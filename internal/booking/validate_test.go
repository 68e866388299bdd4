package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
)

var testToday = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func validRaw() map[string]string {
	return map[string]string{
		"firstName":   "Ana",
		"lastName":    "García",
		"email":       "ana@example.com",
		"phone":       "(801) 555-0199",
		"service":     "reparaciones",
		"date":        "2025-06-10",
		"time":        "14:00",
		"description": "Dobladillo de pantalón",
	}
}

func TestValidateOK(t *testing.T) {
	req, err := Validate(validRaw(), testToday, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.FullName() != "Ana García" {
		t.Errorf("unexpected full name: %q", req.FullName())
	}
	if req.Priority || req.Pickup {
		t.Error("flags should default to false")
	}
}

func TestValidateMissingFields(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "email", "phone", "service", "date", "time"} {
		t.Run(field, func(t *testing.T) {
			raw := validRaw()
			raw[field] = "   "
			_, err := Validate(raw, testToday, 90)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Kind != KindMissingField || verr.Field != field {
				t.Errorf("expected MissingField(%s), got %s(%s)", field, verr.Kind, verr.Field)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "a@b", "a b@c.com", "@x.com"} {
		raw := validRaw()
		raw["email"] = email
		_, err := Validate(raw, testToday, 90)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != KindInvalidEmail {
			t.Errorf("email %q: expected InvalidEmail, got %v", email, err)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"(801) 555-0199", true},
		{"+52 55 1234 5678", true},
		{"8015550199", true},
		{"call me", false},
		{"555-CALL", false},
		{"()+- ", false}, // punctuation only, no digit
	}
	for _, tc := range cases {
		raw := validRaw()
		raw["phone"] = tc.phone
		_, err := Validate(raw, testToday, 90)
		if tc.ok && err != nil {
			t.Errorf("phone %q: unexpected error %v", tc.phone, err)
		}
		if !tc.ok {
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Kind != KindInvalidPhone {
				t.Errorf("phone %q: expected InvalidPhone, got %v", tc.phone, err)
			}
		}
	}
}

func TestValidateUnknownService(t *testing.T) {
	raw := validRaw()
	raw["service"] = "dry-cleaning"
	_, err := Validate(raw, testToday, 90)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindUnknownService {
		t.Fatalf("expected UnknownService, got %v", err)
	}
}

func TestValidateDateWindow(t *testing.T) {
	cases := []struct {
		date string
		kind string
	}{
		{"2025-06-02", ""},               // today is allowed
		{"2025-08-31", ""},               // today + 90 days
		{"2025-06-01", KindDateOutOfRange},
		{"2025-09-01", KindDateOutOfRange},
		{"junio 10", KindInvalidDate},
	}
	for _, tc := range cases {
		raw := validRaw()
		raw["date"] = tc.date
		_, err := Validate(raw, testToday, 90)
		if tc.kind == "" {
			if err != nil {
				t.Errorf("date %q: unexpected error %v", tc.date, err)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Kind != tc.kind {
			t.Errorf("date %q: expected %s, got %v", tc.date, tc.kind, err)
		}
	}
}

func TestValidatePickupRequiresAddress(t *testing.T) {
	raw := validRaw()
	raw["pickup"] = "on"
	raw["address"] = ""
	_, err := Validate(raw, testToday, 90)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != KindMissingAddress {
		t.Fatalf("expected MissingAddress, got %v", err)
	}

	raw["address"] = "123 Main St"
	req, err := Validate(raw, testToday, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Pickup || req.Address != "123 Main St" {
		t.Errorf("pickup/address not carried through: %+v", req)
	}
}

func TestValidateAddressNeverRequiredWithoutPickup(t *testing.T) {
	raw := validRaw()
	raw["pickup"] = ""
	raw["address"] = ""
	if _, err := Validate(raw, testToday, 90); err != nil {
		t.Fatalf("address must not be required without pickup: %v", err)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	raw := validRaw()
	a, errA := Validate(raw, testToday, 90)
	b, errB := Validate(raw, testToday, 90)
	if (errA == nil) != (errB == nil) {
		t.Fatalf("non-deterministic errors: %v vs %v", errA, errB)
	}
	if *a != *b {
		t.Errorf("non-deterministic results: %+v vs %+v", a, b)
	}
}

func TestValidateBuildsStorableRequest(t *testing.T) {
	req, err := Validate(validRaw(), testToday, 90)
	if err != nil {
		t.Fatal(err)
	}
	sb := model.NewStoredBooking(req, testToday)
	if sb.ID != testToday.UnixMilli() {
		t.Errorf("expected time-derived id, got %d", sb.ID)
	}
	if sb.Status != model.StatusPending {
		t.Errorf("expected pending status, got %q", sb.Status)
	}
	if sb.Email != req.Email {
		t.Errorf("request fields not embedded")
	}
}
