package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/port"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogService serves the read-only browsing surface: product listing,
// category navigation, and search.
type CatalogService struct {
	repo port.ProductRepository
}

func NewCatalogService(repo port.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %q: %w", slug, err)
	}
	if product == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *product, nil
}

func (s *CatalogService) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %q: %w", id, err)
	}
	if product == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *product, nil
}

// Search returns active products matching the query; a blank query returns
// the full listing, matching the storefront's search page.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.ListProducts(ctx)
	}
	return s.repo.SearchProducts(ctx, query)
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CategoryProducts resolves a category by slug and returns it with its
// active products.
func (s *CatalogService) CategoryProducts(ctx context.Context, slug string) (domain.Category, []domain.Product, error) {
	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return domain.Category{}, nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	if category == nil {
		return domain.Category{}, nil, ErrCategoryNotFound
	}
	products, err := s.repo.ListProductsByCategory(ctx, category.ID)
	if err != nil {
		return domain.Category{}, nil, fmt.Errorf("list category products: %w", err)
	}
	return *category, products, nil
}
