package checkout

// Payment method selectors carried on the checkout form.
const (
	PaymentCOD  = "cod"
	PaymentCard = "card"
)

// Form is the checkout form as the client submits it. Card fields are
// meaningful only when PaymentMethod is "card".
type Form struct {
	PaymentMethod string `json:"paymentMethod"`

	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`

	CardNumber string `json:"cardNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// ValidationError carries the full field-to-message mapping of a failed
// validation pass; every invalid field is reported, none blocks another.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "checkout form validation failed"
}
