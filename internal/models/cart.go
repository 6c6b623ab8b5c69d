package models

import "time"

// Pricing constants for the cart computation. Orders at or above the bulk
// threshold ship free; everything else pays the flat fee.
const (
	BulkThreshold   = 2000.0
	FlatDeliveryFee = 50.0
)

// CartItem represents one line in a retailer's cart. A retailer has at most
// one line per product; quantity is always >= 1 (a zero-quantity update
// removes the line).
type CartItem struct {
	ID         string    `json:"id" db:"id"`
	RetailerID string    `json:"retailerId" db:"retailer_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	AddedAt    time.Time `json:"addedAt" db:"added_at"`

	// Joined data (populated when needed)
	Product *Product `json:"product,omitempty"`
}

// GetTotalPrice returns the line total using the joined product price
func (ci *CartItem) GetTotalPrice() float64 {
	if ci.Product == nil {
		return 0
	}
	return ci.Product.Price * float64(ci.Quantity)
}

// CartAdd represents a request to add a product to the cart
type CartAdd struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CartQuantityUpdate represents a request to set a cart line's quantity.
// Quantity is allowed to be <= 0; the service treats that as a removal.
type CartQuantityUpdate struct {
	Quantity int `json:"quantity"`
}

// CartQuote is the full pricing breakdown for a cart
type CartQuote struct {
	Subtotal          float64 `json:"subtotal"`
	StreakDiscountPct int     `json:"streakDiscountPct"`
	StreakDiscount    float64 `json:"streakDiscount"`
	PromoDiscount     float64 `json:"promoDiscount"`
	DeliveryFee       float64 `json:"deliveryFee"`
	Total             float64 `json:"total"`
	ItemCount         int     `json:"itemCount"`
}

// PromoCode represents a recognized promotional code
type PromoCode struct {
	Code       string  `json:"code" db:"code"`
	Percentage float64 `json:"percentage" db:"percentage"`
}
