package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/port"
)

const cartKeyPrefix = "cart:"

// CartService keeps one cart per owner as a serialized line-item list in the
// injected store. Every mutation persists the full cart before returning.
type CartService struct {
	store port.BlobStore
}

func NewCartService(store port.BlobStore) *CartService {
	return &CartService{store: store}
}

// Items loads the owner's cart. A missing or unparseable stored value is an
// empty cart; only storage access failures surface as errors.
func (s *CartService) Items(ctx context.Context, owner string) ([]domain.LineItem, error) {
	data, err := s.store.Get(ctx, cartKeyPrefix+owner)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupted cart data degrades to an empty cart.
		return nil, nil
	}
	return items, nil
}

// Add merges by product ID: an existing line item has its quantity summed,
// otherwise a new line item is appended. Quantities below 1 count as 1.
func (s *CartService) Add(ctx context.Context, owner string, product domain.Product, quantity int) ([]domain.LineItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.LineItem{Product: product, Quantity: quantity})
	}

	if err := s.save(ctx, owner, items); err != nil {
		return nil, err
	}
	return items, nil
}

// AdjustQuantity applies a delta to the matching line item, clamped at a
// minimum of 1. It never removes the item, no matter how negative the delta.
// Unknown product IDs are a no-op.
func (s *CartService) AdjustQuantity(ctx context.Context, owner, productID string, delta int) ([]domain.LineItem, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity += delta
			if items[i].Quantity < 1 {
				items[i].Quantity = 1
			}
			break
		}
	}

	if err := s.save(ctx, owner, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove filters out the matching line item.
func (s *CartService) Remove(ctx context.Context, owner, productID string) ([]domain.LineItem, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.save(ctx, owner, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Total sums price*quantity over the owner's cart.
func (s *CartService) Total(ctx context.Context, owner string) (float64, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return 0, err
	}
	return domain.CartTotal(items), nil
}

// Clear empties the cart and removes the persisted copy.
func (s *CartService) Clear(ctx context.Context, owner string) error {
	if err := s.store.Clear(ctx, cartKeyPrefix+owner); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) save(ctx context.Context, owner string, items []domain.LineItem) error {
	if len(items) == 0 {
		return s.Clear(ctx, owner)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Set(ctx, cartKeyPrefix+owner, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
