package checkout

import (
	"context"
	"time"
)

// CardDetails is what a payment verifier gets to see about the instrument.
type CardDetails struct {
	CardNumber string
	ExpiryDate string
	CVV        string
}

// PaymentVerifier is the seam where a real gateway integration would be
// substituted. The orchestration never cares which implementation it holds.
type PaymentVerifier interface {
	Verify(ctx context.Context, details CardDetails) error
}

// delayVerifier stands in for the bank round trip with a fixed delay. It
// models no failure path: an undisturbed context always verifies.
type delayVerifier struct {
	delay time.Duration
}

func NewDelayVerifier(delay time.Duration) PaymentVerifier {
	return &delayVerifier{delay: delay}
}

func (v *delayVerifier) Verify(ctx context.Context, _ CardDetails) error {
	timer := time.NewTimer(v.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
