package domain

// CheckoutDraft is the in-progress checkout state persisted between the
// address, shipping and payment steps. Drafts expire; a missing draft means
// the flow restarts from the cart.
type CheckoutDraft struct {
	ID            string     `json:"id"`
	SessionID     string     `json:"sessionId"`
	Items         []CartItem `json:"items"`
	Address       *Address   `json:"address,omitempty"`
	ShippingCode  string     `json:"shippingCode,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Subtotal      float64    `json:"subtotal"`
	Shipping      float64    `json:"shipping"`
	Total         float64    `json:"total"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}
