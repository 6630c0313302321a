package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// Line is one order entry rendered into the message.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

type LinkBuilder struct {
	phone   string
	baseURL string
}

// NewLinkBuilder creates a builder for the store phone number, given in
// international format without the leading "+".
func NewLinkBuilder(phone string) *LinkBuilder {
	return &LinkBuilder{
		phone:   phone,
		baseURL: "https://api.whatsapp.com/send",
	}
}

// OrderMessage renders the order summary sent to the store.
func (b *LinkBuilder) OrderMessage(lines []Line, total float64) string {
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, fmt.Sprintf("- %dx %s ($%.2f c/u)", line.Quantity, line.Name, line.UnitPrice))
	}

	return fmt.Sprintf("¡Hola! Quisiera realizar este pedido:\n\n%s\n\n*Total a pagar: $%.2f*",
		strings.Join(entries, "\n"), total)
}

// OrderLink builds the pre-filled chat URL for the order.
func (b *LinkBuilder) OrderLink(lines []Line, total float64) string {
	params := url.Values{}
	params.Add("phone", b.phone)
	params.Add("text", b.OrderMessage(lines, total))
	return b.baseURL + "?" + params.Encode()
}
