package service

import (
	"context"
	"errors"
	"testing"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
)

func validPayment() PaymentDetails {
	return PaymentDetails{
		Method:     "credit_card",
		CardNumber: "4111 1111 1111 1111",
		CardName:   "MARIA SILVA",
		ExpiryDate: "12/28",
		CVV:        "123",
	}
}

func newCheckoutEnv() (*CheckoutService, *CartService, *mockBlobStore, *mockOrderRepo) {
	store := newMockBlobStore()
	cart := NewCartService(store)
	repo := &mockOrderRepo{}
	svc := NewCheckoutService(store, cart, NewOrderService(repo))
	return svc, cart, store, repo
}

func TestBegin_RejectsEmptyCart(t *testing.T) {
	svc, _, _, _ := newCheckoutEnv()

	_, err := svc.Begin(context.Background(), "user-1", validCustomer())
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestBegin_RejectsBlankFields(t *testing.T) {
	svc, cart, _, _ := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)

	customer := validCustomer()
	customer.Address = "   "

	_, err := svc.Begin(ctx, "user-1", customer)
	if !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got: %v", err)
	}

	// Rejected transition leaves no session behind.
	session, err := svc.Session(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != domain.CheckoutStateEmpty {
		t.Errorf("expected empty state, got %s", session.State)
	}
}

func TestBegin_SnapshotsCart(t *testing.T) {
	svc, cart, _, _ := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 2)

	session, err := svc.Begin(ctx, "user-1", validCustomer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.State != domain.CheckoutStateCollecting {
		t.Errorf("expected collecting state, got %s", session.State)
	}
	if len(session.Items) != 1 || session.Items[0].Quantity != 2 {
		t.Errorf("expected cart snapshot in session, got %+v", session.Items)
	}

	// Session survives a reload.
	reloaded, err := svc.Session(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.State != domain.CheckoutStateCollecting {
		t.Errorf("expected persisted session, got state %s", reloaded.State)
	}
}

func TestSession_CorruptDataDegradesToEmpty(t *testing.T) {
	svc, _, store, _ := newCheckoutEnv()
	store.blobs["orderInfo:user-1"] = []byte("garbage")

	session, err := svc.Session(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected corrupt session to be silent, got: %v", err)
	}
	if session.State != domain.CheckoutStateEmpty {
		t.Errorf("expected empty state, got %s", session.State)
	}
}

func TestComplete_RequiresSession(t *testing.T) {
	svc, _, _, _ := newCheckoutEnv()

	_, err := svc.Complete(context.Background(), "user-1", nil, validPayment())
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got: %v", err)
	}
}

func TestComplete_RejectsMalformedCard(t *testing.T) {
	svc, cart, _, repo := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)
	svc.Begin(ctx, "user-1", validCustomer())

	payment := validPayment()
	payment.CardNumber = "4111"

	_, err := svc.Complete(ctx, "user-1", nil, payment)
	if !errors.Is(err, ErrInvalidCard) {
		t.Errorf("expected ErrInvalidCard, got: %v", err)
	}
	if repo.createCalls != 0 {
		t.Errorf("expected no writes, got %d", repo.createCalls)
	}

	// Session remains for retry.
	session, _ := svc.Session(ctx, "user-1")
	if session.State != domain.CheckoutStateCollecting {
		t.Errorf("expected session to remain collecting, got %s", session.State)
	}
}

func TestComplete_FailedSubmissionKeepsSessionAndCart(t *testing.T) {
	svc, cart, _, repo := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)
	svc.Begin(ctx, "user-1", validCustomer())

	repo.createErr = errors.New("store unavailable")

	_, err := svc.Complete(ctx, "user-1", nil, validPayment())
	if err == nil {
		t.Fatal("expected submission failure to propagate")
	}

	session, _ := svc.Session(ctx, "user-1")
	if session.State != domain.CheckoutStateCollecting {
		t.Errorf("expected session to stay collecting for retry, got %s", session.State)
	}
	items, _ := cart.Items(ctx, "user-1")
	if len(items) != 1 {
		t.Errorf("expected cart untouched after failure, got %+v", items)
	}
}

func TestComplete_SubmitsAndDiscards(t *testing.T) {
	svc, cart, _, repo := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("pa", "Product A", 10.00), 2)
	cart.Add(ctx, "user-1", testProduct("pb", "Product B", 5.50), 1)
	svc.Begin(ctx, "user-1", validCustomer())

	result, err := svc.Complete(ctx, "user-1", nil, validPayment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 25.50 {
		t.Errorf("expected total 25.50, got %f", result.Total)
	}
	if len(repo.lastItems) != 2 {
		t.Errorf("expected 2 order item rows, got %d", len(repo.lastItems))
	}

	// Session is spent and the cart is cleared.
	session, _ := svc.Session(ctx, "user-1")
	if session.State != domain.CheckoutStateEmpty {
		t.Errorf("expected session discarded, got %s", session.State)
	}
	items, _ := cart.Items(ctx, "user-1")
	if len(items) != 0 {
		t.Errorf("expected cart cleared, got %+v", items)
	}
}

func TestComplete_SecondCallFails(t *testing.T) {
	svc, cart, _, _ := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)
	svc.Begin(ctx, "user-1", validCustomer())

	if _, err := svc.Complete(ctx, "user-1", nil, validPayment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Complete(ctx, "user-1", nil, validPayment()); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected read-once session, got: %v", err)
	}
}

func TestComplete_AccountOverridesContactButNotAddress(t *testing.T) {
	svc, cart, _, repo := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)

	form := domain.CustomerInfo{
		Name:    "Typed Name",
		Email:   "typed@example.com",
		Phone:   "+55 11 1111-1111",
		Address: "Rua das Flores 123",
	}
	svc.Begin(ctx, "user-1", form)

	account := &domain.User{
		ID:    "user-1",
		Name:  "Maria Silva",
		Email: "maria@example.com",
		Phone: "+55 11 99999-0000",
	}

	if _, err := svc.Complete(ctx, "user-1", account, validPayment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := repo.lastOrder
	if order.CustomerName != "Maria Silva" || order.CustomerEmail != "maria@example.com" || order.CustomerPhone != "+55 11 99999-0000" {
		t.Errorf("expected account contact fields, got %+v", order)
	}
	if order.ShippingAddress != "Rua das Flores 123" {
		t.Errorf("expected address from the form, got %s", order.ShippingAddress)
	}
	if order.UserID == nil || *order.UserID != "user-1" {
		t.Errorf("expected order attributed to account, got %v", order.UserID)
	}
}

func TestComplete_GuestUsesFormContact(t *testing.T) {
	svc, cart, _, repo := newCheckoutEnv()
	ctx := context.Background()
	cart.Add(ctx, "user-1", testProduct("p1", "Keyboard", 10.00), 1)
	svc.Begin(ctx, "user-1", validCustomer())

	if _, err := svc.Complete(ctx, "user-1", nil, validPayment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastOrder.UserID != nil {
		t.Errorf("expected guest order, got user %v", *repo.lastOrder.UserID)
	}
	if repo.lastOrder.CustomerName != "Maria Silva" {
		t.Errorf("expected form contact, got %s", repo.lastOrder.CustomerName)
	}
}
