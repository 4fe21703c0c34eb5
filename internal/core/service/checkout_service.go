package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/port"
)

const sessionKeyPrefix = "orderInfo:"

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMissingFields = errors.New("all customer fields are required")
	ErrNoSession     = errors.New("no checkout session")
	ErrInvalidCard   = errors.New("invalid card details")
)

// PaymentDetails is the raw payment form. Only the method and last four card
// digits make it onto the order.
type PaymentDetails struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// CheckoutService drives the session between cart review and payment:
// Empty -> Collecting on a validated Begin, Collecting -> Submitted on a
// successful Complete. A failed submission leaves the session in Collecting
// so the shopper can retry.
type CheckoutService struct {
	store  port.BlobStore
	cart   *CartService
	orders *OrderService
}

func NewCheckoutService(store port.BlobStore, cart *CartService, orders *OrderService) *CheckoutService {
	return &CheckoutService{store: store, cart: cart, orders: orders}
}

// Begin snapshots the cart together with the customer form. It rejects an
// empty cart and blank required fields.
func (s *CheckoutService) Begin(ctx context.Context, owner string, customer domain.CustomerInfo) (domain.CheckoutSession, error) {
	items, err := s.cart.Items(ctx, owner)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	if len(items) == 0 {
		return domain.CheckoutSession{}, ErrEmptyCart
	}
	if anyBlank(customer.Name, customer.Email, customer.Phone, customer.Address) {
		return domain.CheckoutSession{}, ErrMissingFields
	}

	session := domain.CheckoutSession{
		State:    domain.CheckoutStateCollecting,
		Customer: customer,
		Items:    items,
	}
	if err := s.save(ctx, owner, session); err != nil {
		return domain.CheckoutSession{}, err
	}
	return session, nil
}

// Session loads the owner's pending session. Absent or unparseable data
// comes back in the Empty state, mirroring the cart's degradation path.
func (s *CheckoutService) Session(ctx context.Context, owner string) (domain.CheckoutSession, error) {
	data, err := s.store.Get(ctx, sessionKeyPrefix+owner)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("load checkout session: %w", err)
	}

	empty := domain.CheckoutSession{State: domain.CheckoutStateEmpty}
	if len(data) == 0 {
		return empty, nil
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return empty, nil
	}
	if session.State != domain.CheckoutStateCollecting {
		return empty, nil
	}
	return session, nil
}

// Complete consumes the pending session: it validates the payment form,
// applies account overrides, submits the order, and on success discards the
// session and clears the cart. Account name/email/phone take precedence over
// the manually entered values; the address always comes from the form since
// accounts carry no stored address.
func (s *CheckoutService) Complete(ctx context.Context, owner string, account *domain.User, payment PaymentDetails) (SubmitResult, error) {
	session, err := s.Session(ctx, owner)
	if err != nil {
		return SubmitResult{}, err
	}
	if session.State != domain.CheckoutStateCollecting {
		return SubmitResult{}, ErrNoSession
	}

	method := payment.Method
	if method == "" {
		method = defaultPaymentMethod
	}
	if err := validateCard(method, payment); err != nil {
		return SubmitResult{}, err
	}

	customer := session.Customer
	var userID *string
	if account != nil {
		customer.Name = account.Name
		customer.Email = account.Email
		customer.Phone = account.Phone
		userID = &account.ID
	}

	info := &domain.PaymentInfo{Method: method}
	if digits := stripSpaces(payment.CardNumber); len(digits) >= 4 {
		info.CardLast4 = digits[len(digits)-4:]
	}

	result, err := s.orders.Submit(ctx, SubmitOrderInput{
		Customer: customer,
		Items:    session.Items,
		Payment:  info,
		UserID:   userID,
	})
	if err != nil {
		// Session stays in Collecting so the shopper can retry.
		return SubmitResult{}, err
	}

	if err := s.store.Clear(ctx, sessionKeyPrefix+owner); err != nil {
		return result, fmt.Errorf("discard checkout session: %w", err)
	}
	if err := s.cart.Clear(ctx, owner); err != nil {
		return result, err
	}
	return result, nil
}

func (s *CheckoutService) save(ctx context.Context, owner string, session domain.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKeyPrefix+owner, data); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}

// validateCard checks shape only; there is no processor behind this.
func validateCard(method string, payment PaymentDetails) error {
	if method != defaultPaymentMethod {
		return nil
	}
	if anyBlank(payment.CardNumber, payment.CardName, payment.ExpiryDate, payment.CVV) {
		return ErrInvalidCard
	}
	digits := stripSpaces(payment.CardNumber)
	if len(digits) != 16 {
		return ErrInvalidCard
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ErrInvalidCard
		}
	}
	if len(payment.CVV) < 3 {
		return ErrInvalidCard
	}
	return nil
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
