package port

import (
	"context"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
)

type ProductRepository interface {
	// ListProducts returns active products, newest first.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProductBySlug returns nil when no active product matches.
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// GetProductByID returns nil when no active product matches.
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)

	// SearchProducts matches name or description, case-insensitively.
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)

	// GetCategoryBySlug returns nil when no category matches.
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)

	ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error

	// GetUserByEmail returns nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByID returns nil when no user matches.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

type OrderRepository interface {
	// CreateOrder persists the order row and its item rows in one
	// transaction; either all rows commit or none do.
	CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error

	// ListOrdersByUser returns the user's orders with items, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
