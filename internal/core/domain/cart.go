package domain

// LineItem pairs a product snapshot with a quantity. Quantity is always >= 1.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line's price contribution.
func (li LineItem) Subtotal() float64 {
	return li.Product.Price * float64(li.Quantity)
}

// CartTotal sums price*quantity over all line items. An empty cart totals 0.
func CartTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
