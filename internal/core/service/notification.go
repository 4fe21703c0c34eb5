package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JoseLSousa/stg-catalog-challenge/internal/core/domain"
)

const whatsAppBaseURL = "https://wa.me/"

// BuildOrderMessage renders the fixed-template order summary sent over
// WhatsApp: banner, customer block, one bullet per item with quantity and
// subtotal, grand total.
func BuildOrderMessage(customerName, customerEmail string, items []domain.LineItem) string {
	var b strings.Builder
	b.WriteString("NOVO PEDIDO - STG CATALOG\n")
	fmt.Fprintf(&b, "Cliente: %s\n", customerName)
	fmt.Fprintf(&b, "Email: %s\n", customerEmail)
	b.WriteString("PRODUTOS:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s - Qtd: %d - R$ %.2f\n", item.Product.Name, item.Quantity, item.Subtotal())
	}
	fmt.Fprintf(&b, "TOTAL: R$ %.2f", domain.CartTotal(items))
	return b.String()
}

// WhatsAppLink builds a wa.me deep link pre-filled with text. Opening it is
// best-effort and user-initiated; nothing is awaited or validated.
func WhatsAppLink(number, text string) string {
	return whatsAppBaseURL + number + "?text=" + url.QueryEscape(text)
}
