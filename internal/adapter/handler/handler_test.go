package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/adapter/storage"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/auth"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/service"
)

// Fake ProductRepository
type fakeProductRepo struct {
	products []domain.Product
}

func (f *fakeProductRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return nil, nil
}

// Fake UserRepository
type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user domain.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

// Fake OrderRepository
type fakeOrderRepo struct {
	orders    []domain.Order
	items     []domain.OrderItem
	createErr error
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeOrderRepo) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type testEnv struct {
	engine *gin.Engine
	users  *fakeUserRepo
	orders *fakeOrderRepo
	blobs  *storage.MemoryAdapter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := &fakeProductRepo{products: []domain.Product{
		{ID: "pa", Name: "Product A", Slug: "product-a", Price: 10.00, IsActive: true},
		{ID: "pb", Name: "Product B", Slug: "product-b", Price: 5.50, IsActive: true},
	}}
	users := &fakeUserRepo{}
	orders := &fakeOrderRepo{}
	blobs := storage.NewMemoryAdapter()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authSvc := service.NewAuthService(users, tokens)
	catalogSvc := service.NewCatalogService(products)
	cartSvc := service.NewCartService(blobs)
	orderSvc := service.NewOrderService(orders)
	checkoutSvc := service.NewCheckoutService(blobs, cartSvc, orderSvc)

	engine := gin.New()
	h := NewHandler(log, tokens, authSvc, catalogSvc, cartSvc, checkoutSvc, orderSvc, "")
	h.RegisterRoutes(engine)

	return &testEnv{engine: engine, users: users, orders: orders, blobs: blobs}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Maria Silva", "email": "maria@example.com",
		"phone": "+55 11 99999-0000", "password": "s3cret!",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	w = e.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "maria@example.com", "password": "s3cret!",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
