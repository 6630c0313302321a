package models

// CartLine is one product entry in a cart. Price and name are snapshots
// taken at add time; quantity is always >= 1 (a zero-quantity line is
// removed, never stored).
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

// Cart is the ordered line list for one identity key, in insertion order.
// New products append; existing products merge into their line.
type Cart struct {
	IdentityKey string     `json:"identity_key"`
	Lines       []CartLine `json:"lines"`
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartTotals are derived aggregates, always recomputed from the lines.
type CartTotals struct {
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
}

// CheckoutLine is the product id + quantity pair a checkout collaborator
// needs to decrement stock per line.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
