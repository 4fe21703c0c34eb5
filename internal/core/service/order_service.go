package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/port"
)

var (
	// ErrInvalidOrder rejects submissions missing a customer or items.
	ErrInvalidOrder = errors.New("invalid request data, customer and items are required")
)

const defaultPaymentMethod = "credit_card"

type SubmitOrderInput struct {
	Customer domain.CustomerInfo
	Items    []domain.LineItem
	Payment  *domain.PaymentInfo
	// UserID attributes the order to an account. Nil means guest checkout.
	UserID *string
}

type SubmitResult struct {
	OrderID string
	Total   float64
}

// OrderService turns a validated cart snapshot into persisted order rows.
type OrderService struct {
	repo port.OrderRepository
}

func NewOrderService(repo port.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Submit validates the input, re-derives the total from the submitted items,
// and persists the order with one item row per line item. The order ID is
// generated here so a retry after a storage failure cannot leave a partial
// order behind a different identifier.
func (s *OrderService) Submit(ctx context.Context, in SubmitOrderInput) (SubmitResult, error) {
	if err := validateSubmission(in); err != nil {
		return SubmitResult{}, err
	}

	total := domain.CartTotal(in.Items)

	method := defaultPaymentMethod
	cardLast4 := ""
	if in.Payment != nil {
		if in.Payment.Method != "" {
			method = in.Payment.Method
		}
		cardLast4 = in.Payment.CardLast4
	}

	now := time.Now()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Total:           total,
		Status:          domain.OrderStatusPending,
		CustomerEmail:   in.Customer.Email,
		CustomerName:    in.Customer.Name,
		CustomerPhone:   in.Customer.Phone,
		ShippingAddress: in.Customer.Address,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentStatusPaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if cardLast4 != "" {
		order.Notes = "card ending " + cardLast4
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		items = append(items, domain.OrderItem{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			ProductID:    line.Product.ID,
			Quantity:     line.Quantity,
			Price:        line.Product.Price,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.FirstImage(),
			CreatedAt:    now,
		})
	}

	if err := s.repo.CreateOrder(ctx, order, items); err != nil {
		return SubmitResult{}, fmt.Errorf("create order: %w", err)
	}

	return SubmitResult{OrderID: order.ID, Total: total}, nil
}

// History returns the user's orders, newest first, with their items.
func (s *OrderService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func validateSubmission(in SubmitOrderInput) error {
	if len(in.Items) == 0 {
		return ErrInvalidOrder
	}
	if strings.TrimSpace(in.Customer.Name) == "" && strings.TrimSpace(in.Customer.Email) == "" {
		return ErrInvalidOrder
	}
	for _, line := range in.Items {
		if line.Quantity < 1 || line.Product.ID == "" || line.Product.Price < 0 {
			return ErrInvalidOrder
		}
	}
	return nil
}
