package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
)

// PostgresAdapter implements the product, user, and order repositories over
// database/sql with the pgx stdlib driver.
type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(db *sql.DB) *PostgresAdapter {
	return &PostgresAdapter{db: db}
}

const productColumns = `id, name, slug, COALESCE(description, ''), price, COALESCE(compare_price, 0),
	COALESCE(sku, ''), stock_quantity, COALESCE(category_id::text, ''), COALESCE(image_url, ''),
	images, is_active, created_at, updated_at`

func (p *PostgresAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (p *PostgresAdapter) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE slug = $1 AND is_active`, slug)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}

func (p *PostgresAdapter) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE id = $1 AND is_active`, id)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &product, nil
}

func (p *PostgresAdapter) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE is_active AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC`, query)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (p *PostgresAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, slug, COALESCE(description, ''), COALESCE(image_url, ''), created_at
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (p *PostgresAdapter) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, slug, COALESCE(description, ''), COALESCE(image_url, ''), created_at
		FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

func (p *PostgresAdapter) ListProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE category_id = $1 AND is_active ORDER BY created_at DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query category products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (p *PostgresAdapter) CreateUser(ctx context.Context, user domain.User) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, phone, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.Phone, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *PostgresAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.getUser(ctx, `
		SELECT id, email, name, COALESCE(phone, ''), password_hash, created_at
		FROM users WHERE email = $1`, email)
}

func (p *PostgresAdapter) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return p.getUser(ctx, `
		SELECT id, email, name, COALESCE(phone, ''), password_hash, created_at
		FROM users WHERE id = $1`, id)
}

func (p *PostgresAdapter) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := p.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Phone, &u.PasswordHash, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// CreateOrder writes the order row and all item rows in one transaction.
func (p *PostgresAdapter) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total, status, customer_email, customer_name,
			customer_phone, shipping_address, payment_method, payment_status, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.UserID, order.Total, order.Status, order.CustomerEmail,
		order.CustomerName, order.CustomerPhone, order.ShippingAddress,
		order.PaymentMethod, order.PaymentStatus, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price,
				product_name, product_image, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price,
			item.ProductName, item.ProductImage, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (p *PostgresAdapter) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, total, status, COALESCE(payment_method, ''), payment_status, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Total, &o.Status, &o.PaymentMethod,
			&o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.UserID = &userID
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := p.listOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (p *PostgresAdapter) listOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price, product_name,
			COALESCE(product_image, ''), created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.Price, &it.ProductName, &it.ProductImage, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct decodes one product row. Images are stored as a JSONB array.
func scanProduct(row rowScanner) (domain.Product, error) {
	var pr domain.Product
	var images []byte
	err := row.Scan(&pr.ID, &pr.Name, &pr.Slug, &pr.Description, &pr.Price,
		&pr.ComparePrice, &pr.SKU, &pr.StockQuantity, &pr.CategoryID, &pr.ImageURL,
		&images, &pr.IsActive, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &pr.Images); err != nil {
			return domain.Product{}, fmt.Errorf("decode images: %w", err)
		}
	}
	return pr, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		pr, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, pr)
	}
	return products, rows.Err()
}
