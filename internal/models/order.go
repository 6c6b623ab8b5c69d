package models

import "time"

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
)

// OrderItem captures a product line at the time the order was placed.
// The unit price is a snapshot; later catalog changes do not affect it.
type OrderItem struct {
	ID        string  `json:"id" db:"id"`
	OrderID   string  `json:"orderId" db:"order_id"`
	ProductID string  `json:"productId" db:"product_id"`
	Quantity  int     `json:"quantity" db:"quantity"`
	Price     float64 `json:"price" db:"price"`

	// Joined data (populated when needed)
	Product *Product `json:"product,omitempty"`
}

// GetTotalPrice returns the line total at order-time prices
func (oi *OrderItem) GetTotalPrice() float64 {
	return oi.Price * float64(oi.Quantity)
}

// Order is an immutable record of a placed order
type Order struct {
	ID              string      `json:"id" db:"id"`
	RetailerID      string      `json:"retailerId" db:"retailer_id"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	DiscountApplied float64     `json:"discountApplied" db:"discount_applied"`
	DeliveryFee     float64     `json:"deliveryFee" db:"delivery_fee"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// GetTotalItems returns the total number of units in the order
func (o *Order) GetTotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsCompleted checks if the order has been delivered
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusDelivered
}

// CheckoutRequest represents a checkout call. The promo code is optional and
// validated against the promo table; an invalid code fails the checkout
// without creating an order.
type CheckoutRequest struct {
	PromoCode string `json:"promoCode,omitempty"`
}
