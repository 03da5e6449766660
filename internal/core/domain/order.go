package domain

// OrderStatus tracks an order through fulfillment.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// PaymentStatus tracks the payment leg independently of fulfillment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is a placed order as the upstream API serializes it.
type Order struct {
	ID            string        `json:"_id"`
	OrderNumber   string        `json:"orderNumber,omitempty"`
	User          string        `json:"user,omitempty"`
	Items         []OrderItem   `json:"items"`
	Subtotal      float64       `json:"subtotal,omitempty"`
	Shipping      float64       `json:"shipping,omitempty"`
	Tax           float64       `json:"tax,omitempty"`
	Total         float64       `json:"totalPrice"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Address       *Address      `json:"shippingAddress,omitempty"`
	TrackingCode  string        `json:"trackingCode,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// OrderItem is a single purchased line.
type OrderItem struct {
	Product  string  `json:"product"`
	Name     string  `json:"name,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// Address is a shipping destination.
type Address struct {
	FullName string `json:"fullName,omitempty"`
	Line1    string `json:"addressLine1"`
	Line2    string `json:"addressLine2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
