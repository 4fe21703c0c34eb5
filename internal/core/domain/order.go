package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PaymentInfo is what gets recorded on the order. Only the method and the
// last four card digits survive submission; full card data is never stored.
type PaymentInfo struct {
	Method    string `json:"method"`
	CardLast4 string `json:"cardLast4,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	UserID          *string       `json:"user_id,omitempty"`
	Total           float64       `json:"total"`
	Status          OrderStatus   `json:"status"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	CustomerName    string        `json:"customer_name,omitempty"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	ShippingAddress string        `json:"shipping_address,omitempty"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	Notes           string        `json:"notes,omitempty"`
	Items           []OrderItem   `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderItem is an immutable snapshot of one line item at order-creation time.
type OrderItem struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
