package checkout

import (
	"testing"
	"time"
)

// fixedNow pins the clock to April 2025 so expiry boundaries are stable.
func fixedNow() time.Time {
	return time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)
}

func validCardForm() Form {
	return Form{
		PaymentMethod: PaymentCard,
		Name:          "Jan Perera",
		Email:         "jan@example.com",
		Phone:         "0712345678",
		Address:       "1 Main St",
		City:          "Colombo",
		Country:       "Sri Lanka",
		PostalCode:    "10100",
		CardNumber:    "4111 1111 1111 1111",
		ExpiryDate:    "12/27",
		CVV:           "123",
	}
}

func TestValidCardFormPasses(t *testing.T) {
	v := NewValidator(fixedNow)
	if errs := v.Validate(validCardForm()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidCODFormPasses(t *testing.T) {
	form := validCardForm()
	form.PaymentMethod = PaymentCOD
	form.CardNumber = ""
	form.ExpiryDate = ""
	form.CVV = ""
	v := NewValidator(fixedNow)
	if errs := v.Validate(form); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCODNeverReportsCardErrors(t *testing.T) {
	form := validCardForm()
	form.PaymentMethod = PaymentCOD
	form.CardNumber = "garbage"
	form.ExpiryDate = "13/99"
	form.CVV = "x"
	v := NewValidator(fixedNow)
	errs := v.Validate(form)
	for _, field := range []string{"cardNumber", "expiryDate", "cvv"} {
		if _, ok := errs[field]; ok {
			t.Fatalf("card field %s must not be validated for cod", field)
		}
	}
}

func TestCardBranchReportsAllCardErrors(t *testing.T) {
	form := validCardForm()
	form.CardNumber = ""
	form.ExpiryDate = ""
	form.CVV = ""
	v := NewValidator(fixedNow)
	errs := v.Validate(form)
	for _, field := range []string{"cardNumber", "expiryDate", "cvv"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestAllChecksEvaluatedTogether(t *testing.T) {
	form := Form{PaymentMethod: PaymentCard}
	v := NewValidator(fixedNow)
	errs := v.Validate(form)
	// Every shipping field and every card field is invalid at once.
	for _, field := range []string{"name", "email", "phone", "address", "city", "country", "postalCode", "cardNumber", "expiryDate", "cvv"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected simultaneous error for %s, got %v", field, errs)
		}
	}
}

func TestShippingFieldMessages(t *testing.T) {
	form := validCardForm()
	form.Name = ""
	form.Email = "not-an-email"
	form.Phone = "12345"
	v := NewValidator(fixedNow)
	errs := v.Validate(form)

	cases := map[string]string{
		"name":  "Name is required",
		"email": "Invalid email address",
		"phone": "Phone number must be exactly 10 digits",
	}
	for field, want := range cases {
		if got := errs[field]; got != want {
			t.Fatalf("field %s: expected %q, got %q", field, want, got)
		}
	}
}

func TestPhoneDigitsOnly(t *testing.T) {
	v := NewValidator(fixedNow)

	// All exactly 10 characters, so only the digits rule can reject them.
	for _, phone := range []string{"07123456ab", "+712345678", "-712345678", "0712.45678"} {
		form := validCardForm()
		form.Phone = phone
		errs := v.Validate(form)
		if errs["phone"] != "Phone number must contain only digits" {
			t.Fatalf("phone %q: expected digits message, got %q", phone, errs["phone"])
		}
	}
}

func TestCardNumberGrouping(t *testing.T) {
	v := NewValidator(fixedNow)

	cases := []struct {
		number string
		valid  bool
	}{
		{"4111 1111 1111 1111", true},
		{"4111111111111111", false}, // correct digits, missing grouping
		{"4111 111 1111 1111", false},
		{"4111-1111-1111-1111", false},
		{"4111 1111 1111 111", false},
	}
	for _, tc := range cases {
		form := validCardForm()
		form.CardNumber = tc.number
		_, hasErr := v.Validate(form)["cardNumber"]
		if tc.valid && hasErr {
			t.Fatalf("expected %q to pass", tc.number)
		}
		if !tc.valid && !hasErr {
			t.Fatalf("expected %q to fail", tc.number)
		}
	}
}

func TestFormatCardNumber(t *testing.T) {
	if got := FormatCardNumber("4111111111111111"); got != "4111 1111 1111 1111" {
		t.Fatalf("unexpected grouping: %q", got)
	}
	v := NewValidator(fixedNow)
	form := validCardForm()
	form.CardNumber = FormatCardNumber("4111111111111111")
	if _, bad := v.Validate(form)["cardNumber"]; bad {
		t.Fatalf("normalized number must validate")
	}
	// Non-16-digit inputs pass through untouched.
	if got := FormatCardNumber("411"); got != "411" {
		t.Fatalf("short input must be returned unchanged, got %q", got)
	}
}

func TestExpiryFormat(t *testing.T) {
	v := NewValidator(fixedNow)
	for _, bad := range []string{"13/25", "00/25", "1/25", "04-25", "04/2025", ""} {
		form := validCardForm()
		form.ExpiryDate = bad
		if v.Validate(form)["expiryDate"] != "Expiry must be MM/YY format" {
			t.Fatalf("expected format error for %q", bad)
		}
	}
}

func TestExpiryBoundary(t *testing.T) {
	// "Now" is April 2025: the current month is valid, one month earlier is not.
	v := NewValidator(fixedNow)

	form := validCardForm()
	form.ExpiryDate = "04/25"
	if msg, bad := v.Validate(form)["expiryDate"]; bad {
		t.Fatalf("current month must be valid, got %q", msg)
	}

	form.ExpiryDate = "03/25"
	if v.Validate(form)["expiryDate"] != "Expiry date must be in the future" {
		t.Fatalf("previous month must be rejected")
	}

	form.ExpiryDate = "12/24"
	if v.Validate(form)["expiryDate"] != "Expiry date must be in the future" {
		t.Fatalf("previous year must be rejected")
	}

	form.ExpiryDate = "01/26"
	if msg, bad := v.Validate(form)["expiryDate"]; bad {
		t.Fatalf("next year must be valid, got %q", msg)
	}
}
