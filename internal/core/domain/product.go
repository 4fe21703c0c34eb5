package domain

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	ComparePrice  float64   `json:"compare_price,omitempty"`
	SKU           string    `json:"sku,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	CategoryID    string    `json:"category_id,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Images        []string  `json:"images"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FirstImage returns the lead image for snapshots, or "" when none exists.
func (p Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.ImageURL
}
