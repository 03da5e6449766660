package domain

// Cart is the server-side cart for the current session or user.
type Cart struct {
	ID        string     `json:"_id,omitempty"`
	User      string     `json:"user,omitempty"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal,omitempty"`
	Total     float64    `json:"total,omitempty"`
	UpdatedAt string     `json:"updatedAt,omitempty"`
}

// CartItem is one product line inside a cart.
type CartItem struct {
	ID       string   `json:"_id,omitempty"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price,omitempty"`
	Color    string   `json:"color,omitempty"`
	Size     string   `json:"size,omitempty"`
}

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
