package checkout

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"bookstore-storefront/internal/backend"
	"bookstore-storefront/internal/domain"
	"bookstore-storefront/internal/repository/blob"
	cartsvc "bookstore-storefront/internal/service/cart"
	ledgersvc "bookstore-storefront/internal/service/ledger"
)

type stubSubmitter struct {
	resp      *backend.OrderResponse
	err       error
	calls     int
	lastToken string
	lastReq   backend.OrderRequest
}

func (s *stubSubmitter) SubmitOrder(_ context.Context, token string, in backend.OrderRequest) (*backend.OrderResponse, error) {
	s.calls++
	s.lastToken = token
	s.lastReq = in
	if s.err != nil {
		return nil, s.err
	}
	if s.resp != nil {
		return s.resp, nil
	}
	return &backend.OrderResponse{ID: "ord-1"}, nil
}

type stubVerifier struct {
	calls int
	err   error
}

func (s *stubVerifier) Verify(context.Context, CardDetails) error {
	s.calls++
	return s.err
}

type fixture struct {
	svc       *Service
	carts     *cartsvc.Service
	ledger    *ledgersvc.Service
	submitter *stubSubmitter
	verifier  *stubVerifier
}

func newFixture() *fixture {
	repo := blob.NewMemory()
	carts := cartsvc.New(repo, nil)
	orders := ledgersvc.New(repo, nil)
	submitter := &stubSubmitter{}
	verifier := &stubVerifier{}
	svc := New(nil, carts, orders, submitter, verifier)
	svc.validator = NewValidator(fixedNow)
	return &fixture{svc: svc, carts: carts, ledger: orders, submitter: submitter, verifier: verifier}
}

func codForm() Form {
	form := validCardForm()
	form.PaymentMethod = PaymentCOD
	form.CardNumber = ""
	form.ExpiryDate = ""
	form.CVV = ""
	return form
}

func seedCart(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	add := func(id string, price int64, qty int) {
		t.Helper()
		if err := f.carts.Add(ctx, "s1", domain.CartItem{ID: id, Title: "Book " + id, Author: "Author", Price: price}, qty); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	add("1", 1000, 2)
	add("2", 500, 1)
	add("3", 2000, 1)
	if err := f.carts.ToggleSelect(ctx, "s1", "3"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
}

func TestPlaceOrderValidationFailure(t *testing.T) {
	f := newFixture()
	_, err := f.svc.PlaceOrder(context.Background(), "s1", "", "", Form{PaymentMethod: PaymentCard})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) == 0 {
		t.Fatalf("expected populated field map")
	}
	if f.submitter.calls != 0 {
		t.Fatalf("validation errors must never reach the network layer")
	}
}

func TestPlaceOrderEmptySelection(t *testing.T) {
	f := newFixture()
	_, err := f.svc.PlaceOrder(context.Background(), "s1", "", "", codForm())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedCart(t, f)

	placed, err := f.svc.PlaceOrder(ctx, "s1", "tok", "user-9", validCardForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if placed.TotalAmount != 2500 {
		t.Fatalf("expected total 2500 over selected items, got %d", placed.TotalAmount)
	}
	if placed.OrderID != "ord-1" {
		t.Fatalf("expected backend order id, got %q", placed.OrderID)
	}
	if f.verifier.calls != 1 {
		t.Fatalf("card payment must verify exactly once, got %d", f.verifier.calls)
	}
	if f.submitter.lastToken != "tok" {
		t.Fatalf("bearer token not forwarded")
	}

	// Selected lines are gone, the unselected one survives.
	items, _ := f.carts.Items(ctx, "s1")
	if len(items) != 1 || items[0].ID != "3" {
		t.Fatalf("expected only the unselected line to remain, got %+v", items)
	}

	orders, _ := f.ledger.Orders(ctx, "s1")
	if len(orders) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(orders))
	}
	if orders[0].TotalAmount != 2500 || orders[0].Status != domain.StatusPending {
		t.Fatalf("unexpected ledger entry: %+v", orders[0])
	}
	if len(orders[0].Items) != 2 {
		t.Fatalf("ledger must snapshot only the ordered items, got %+v", orders[0].Items)
	}
}

func TestPlaceOrderCODSkipsVerification(t *testing.T) {
	f := newFixture()
	seedCart(t, f)

	if _, err := f.svc.PlaceOrder(context.Background(), "s1", "", "", codForm()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if f.verifier.calls != 0 {
		t.Fatalf("cod must skip payment verification")
	}
	if f.submitter.lastReq.PaymentMethod != "Cash on Delivery" || f.submitter.lastReq.PaymentStatus != "Pending" {
		t.Fatalf("unexpected cod payload: %+v", f.submitter.lastReq)
	}
}

func TestPlaceOrderCardPayloadMapping(t *testing.T) {
	f := newFixture()
	seedCart(t, f)

	if _, err := f.svc.PlaceOrder(context.Background(), "s1", "", "user-9", validCardForm()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	req := f.submitter.lastReq
	if req.PaymentMethod != "Credit Card" || req.PaymentStatus != "Paid" {
		t.Fatalf("unexpected card payload: %+v", req)
	}
	if req.OrderStatus != "Pending" {
		t.Fatalf("orders are submitted as Pending, got %s", req.OrderStatus)
	}
	if req.UserID != "user-9" {
		t.Fatalf("user id not passed through")
	}
	if req.TotalAmount != 2500 || len(req.Items) != 2 {
		t.Fatalf("payload must carry selected items only: %+v", req)
	}
}

func TestPlaceOrderFailureLeavesCartUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedCart(t, f)
	f.submitter.err = errors.New("503 from backend")

	before, _ := f.carts.Items(ctx, "s1")

	_, err := f.svc.PlaceOrder(ctx, "s1", "", "", codForm())
	if !errors.Is(err, domain.ErrSubmitFailed) {
		t.Fatalf("expected generic submission failure, got %v", err)
	}

	after, _ := f.carts.Items(ctx, "s1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("cart mutated by failed submission:\nbefore %+v\nafter  %+v", before, after)
	}
	orders, _ := f.ledger.Orders(ctx, "s1")
	if len(orders) != 0 {
		t.Fatalf("no partial order may be recorded locally, got %+v", orders)
	}
}

func TestPlaceOrderGeneratesLocalIDFallback(t *testing.T) {
	f := newFixture()
	seedCart(t, f)
	f.submitter.resp = &backend.OrderResponse{}

	placed, err := f.svc.PlaceOrder(context.Background(), "s1", "", "", codForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if len(placed.OrderID) == 0 || placed.OrderID[0] != '#' {
		t.Fatalf("expected locally generated #ORDER id, got %q", placed.OrderID)
	}
}

func TestPlaceOrderVerifierErrorAborts(t *testing.T) {
	f := newFixture()
	seedCart(t, f)
	f.verifier.err = context.Canceled

	if _, err := f.svc.PlaceOrder(context.Background(), "s1", "", "", validCardForm()); err == nil {
		t.Fatalf("expected verifier error to abort checkout")
	}
	if f.submitter.calls != 0 {
		t.Fatalf("aborted verification must not submit")
	}
}
