package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

// shippingFields are the payment-method-invariant rules (stage 1). Card
// fields are deliberately absent; stage 2 owns them.
type shippingFields struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"email"`
	Phone      string `json:"phone" validate:"len=10,number"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

var fieldMessages = map[string]map[string]string{
	"name":       {"required": "Name is required"},
	"email":      {"email": "Invalid email address"},
	"phone":      {"len": "Phone number must be exactly 10 digits", "number": "Phone number must contain only digits"},
	"address":    {"required": "Address is required"},
	"city":       {"required": "City is required"},
	"country":    {"required": "Country is required"},
	"postalCode": {"required": "Postal code is required"},
}

// Validator runs the two-stage checkout validation: stage 1 checks the
// shipping/contact fields regardless of payment method, stage 2 dispatches on
// the payment method and applies the card rules only for card payments. All
// stages run to completion so simultaneous errors surface together.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, now: now}
}

// Validate returns a field-to-message map; an empty map means the form is
// submit-eligible.
func (v *Validator) Validate(form Form) map[string]string {
	errs := make(map[string]string)

	v.validateShipping(form, errs)

	switch form.PaymentMethod {
	case PaymentCard:
		v.validateCard(form, errs)
	default:
		// Cash on delivery: card fields are never inspected, malformed or
		// absent content is not an error.
	}

	return errs
}

func (v *Validator) validateShipping(form Form, errs map[string]string) {
	stage1 := shippingFields{
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		Address:    form.Address,
		City:       form.City,
		Country:    form.Country,
		PostalCode: form.PostalCode,
	}
	err := v.validate.Struct(stage1)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if msg, ok := fieldMessages[field][fe.Tag()]; ok {
			errs[field] = msg
		} else {
			errs[field] = "Invalid value"
		}
	}
}

func (v *Validator) validateCard(form Form, errs map[string]string) {
	if !cardNumberRe.MatchString(form.CardNumber) {
		errs["cardNumber"] = "Card number must be 16 digits (0000 0000 0000 0000)"
	}

	if !expiryRe.MatchString(form.ExpiryDate) {
		errs["expiryDate"] = "Expiry must be MM/YY format"
	} else if expired(form.ExpiryDate, v.now()) {
		errs["expiryDate"] = "Expiry date must be in the future"
	}

	if !cvvRe.MatchString(form.CVV) {
		errs["cvv"] = "CVC must be 3 digits"
	}
}

// expired reports whether MM/YY lies strictly before now's month. The current
// month itself is still valid.
func expired(expiry string, now time.Time) bool {
	parts := strings.SplitN(expiry, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	return year < currentYear || (year == currentYear && month < currentMonth)
}

// FormatCardNumber normalizes a bare 16-digit string into the grouped wire
// form. Inputs that are not exactly 16 digits are returned unchanged and left
// for validation to reject.
func FormatCardNumber(raw string) string {
	digits := strings.ReplaceAll(raw, " ", "")
	if len(digits) != 16 {
		return raw
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12] + " " + digits[12:16]
}
