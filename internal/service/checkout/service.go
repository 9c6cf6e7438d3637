package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"bookstore-storefront/internal/backend"
	"bookstore-storefront/internal/domain"
)

type cartStore interface {
	SelectedItems(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	ClearSelected(ctx context.Context, sessionID string) error
}

type orderLedger interface {
	Add(ctx context.Context, sessionID string, order domain.Order) error
}

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, bearerToken string, in backend.OrderRequest) (*backend.OrderResponse, error)
}

// Service sequences order placement: validate, verify payment (card only),
// submit to the backend, then clear the selected cart lines and record the
// order locally. A failed submission leaves the cart byte-for-byte untouched.
type Service struct {
	logger    *log.Logger
	carts     cartStore
	ledger    orderLedger
	submitter orderSubmitter
	verifier  PaymentVerifier
	validator *Validator
	now       func() time.Time
}

func New(logger *log.Logger, carts cartStore, ledger orderLedger, submitter orderSubmitter, verifier PaymentVerifier) *Service {
	return &Service{
		logger:    logger,
		carts:     carts,
		ledger:    ledger,
		submitter: submitter,
		verifier:  verifier,
		validator: NewValidator(nil),
		now:       time.Now,
	}
}

// PlacedOrder is the success outcome surfaced to the client.
type PlacedOrder struct {
	OrderID     string `json:"orderId"`
	TotalAmount int64  `json:"totalAmount"`
}

// PlaceOrder runs the checkout end to end for one session. bearerToken and
// userID are passed through to the backend; either may be empty.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, bearerToken, userID string, form Form) (*PlacedOrder, error) {
	if errs := s.validator.Validate(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	items, err := s.carts.SelectedItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var total int64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		total += item.LineTotal()
		orderItems = append(orderItems, domain.OrderItem{
			BookID:   item.ID,
			Title:    item.Title,
			Author:   item.Author,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}

	if form.PaymentMethod == PaymentCard {
		s.logf("verifying payment for session %s", sessionID)
		if err := s.verifier.Verify(ctx, CardDetails{
			CardNumber: form.CardNumber,
			ExpiryDate: form.ExpiryDate,
			CVV:        form.CVV,
		}); err != nil {
			return nil, err
		}
	}

	s.logf("submitting order for session %s (total %d)", sessionID, total)
	resp, err := s.submitter.SubmitOrder(ctx, bearerToken, composeRequest(form, orderItems, total, userID))
	if err != nil {
		s.logf("order submission failed for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}

	orderID := resp.ID
	if orderID == "" {
		orderID = "#ORDER-" + uuid.NewString()[:8]
	}

	// The order exists server-side from here on; local bookkeeping failures
	// are logged, not surfaced as a checkout failure.
	if err := s.carts.ClearSelected(ctx, sessionID); err != nil {
		s.logf("clearing cart after order %s failed: %v", orderID, err)
	}
	if err := s.ledger.Add(ctx, sessionID, domain.Order{
		OrderID:     orderID,
		Date:        s.now().UTC(),
		Items:       orderItems,
		TotalAmount: total,
		Status:      domain.StatusPending,
	}); err != nil {
		s.logf("recording order %s failed: %v", orderID, err)
	}

	return &PlacedOrder{OrderID: orderID, TotalAmount: total}, nil
}

func composeRequest(form Form, items []domain.OrderItem, total int64, userID string) backend.OrderRequest {
	paymentMethod := "Cash on Delivery"
	paymentStatus := "Pending"
	if form.PaymentMethod == PaymentCard {
		paymentMethod = "Credit Card"
		paymentStatus = "Paid"
	}
	return backend.OrderRequest{
		CustomerDetails: backend.CustomerDetails{
			Name:  form.Name,
			Email: form.Email,
			Phone: form.Phone,
		},
		ShippingAddress: backend.ShippingAddress{
			Address:    form.Address,
			City:       form.City,
			Country:    form.Country,
			PostalCode: form.PostalCode,
		},
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		OrderStatus:   string(domain.StatusPending),
		PaymentStatus: paymentStatus,
		UserID:        userID,
	}
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
