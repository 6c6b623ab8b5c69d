package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"buynestt-backend/internal/models"
)

// ErrInvalidPromoCode is returned when a promo code is not in the table.
// The caller surfaces it as a rejection; no cart state changes.
var ErrInvalidPromoCode = errors.New("promo code is not valid")

// CartService manages retailer carts. Adding an existing product accumulates
// quantity; setting a quantity at or below zero removes the line.
type CartService struct {
	db      *sql.DB
	catalog *CatalogService
}

// NewCartService creates a new cart service
func NewCartService(db *sql.DB, catalog *CatalogService) *CartService {
	return &CartService{db: db, catalog: catalog}
}

// AddToCart adds a product to the retailer's cart and returns the new cart
// state. Repeated adds accumulate quantity on the existing line.
func (s *CartService) AddToCart(retailerID, productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.catalog.GetProductByID(productID)
	if err == sql.ErrNoRows {
		return nil, errors.New("product not found")
	}
	if err != nil {
		return nil, err
	}
	if !product.IsInStock(quantity) {
		return nil, errors.New("insufficient stock")
	}

	var existingID string
	var existingQty int
	err = s.db.QueryRow(`SELECT id, quantity FROM cart_items WHERE retailer_id = ? AND product_id = ?`, retailerID, productID).
		Scan(&existingID, &existingQty)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`
			INSERT INTO cart_items (id, retailer_id, product_id, quantity, added_at)
			VALUES (?, ?, ?, ?, ?)`,
			uuid.New().String(), retailerID, productID, quantity, time.Now(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add to cart: %w", err)
		}
	case err == nil:
		_, err = s.db.Exec(`UPDATE cart_items SET quantity = quantity + ? WHERE id = ?`, quantity, existingID)
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}

	return s.GetCart(retailerID)
}

// UpdateQuantity sets a cart line's quantity and returns the new cart state.
// Any quantity <= 0 removes the line entirely.
func (s *CartService) UpdateQuantity(retailerID, productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(retailerID, productID)
	}

	result, err := s.db.Exec(`UPDATE cart_items SET quantity = ? WHERE retailer_id = ? AND product_id = ?`,
		quantity, retailerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return nil, errors.New("cart item not found")
	}

	return s.GetCart(retailerID)
}

// RemoveFromCart deletes a cart line and returns the new cart state.
// Removing an absent line is a no-op.
func (s *CartService) RemoveFromCart(retailerID, productID string) ([]models.CartItem, error) {
	_, err := s.db.Exec(`DELETE FROM cart_items WHERE retailer_id = ? AND product_id = ?`, retailerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove from cart: %w", err)
	}
	return s.GetCart(retailerID)
}

// ClearCart removes every line from the retailer's cart
func (s *CartService) ClearCart(retailerID string) error {
	if _, err := s.db.Exec(`DELETE FROM cart_items WHERE retailer_id = ?`, retailerID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetCart returns the retailer's cart lines with product details joined,
// oldest first. Lines referencing deleted products are filtered out.
func (s *CartService) GetCart(retailerID string) ([]models.CartItem, error) {
	rows, err := s.db.Query(`
		SELECT ci.id, ci.retailer_id, ci.product_id, ci.quantity, ci.added_at,
			   p.id, p.name, p.category, p.price, p.pack_size, p.stock,
			   p.image_url, p.distributor, p.rating, p.moq, p.tags, p.created_at
		FROM cart_items ci
		INNER JOIN products p ON ci.product_id = p.id
		WHERE ci.retailer_id = ?
		ORDER BY ci.added_at, ci.id`, retailerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		var product models.Product
		var tags string

		err := rows.Scan(
			&item.ID, &item.RetailerID, &item.ProductID, &item.Quantity, &item.AddedAt,
			&product.ID, &product.Name, &product.Category, &product.Price, &product.PackSize, &product.Stock,
			&product.ImageURL, &product.Distributor, &product.Rating, &product.MOQ, &tags, &product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if err := product.SetTagsFromJSON(tags); err != nil {
			product.Tags = []string{}
		}
		item.Product = &product
		items = append(items, item)
	}
	return items, rows.Err()
}

// Quote computes the full pricing breakdown for a cart. The streak discount
// percentage comes from the retailer's counters; promoPercent is an already
// validated promotional percentage (0 when none applies). Delivery is free
// at or above the bulk threshold.
func Quote(items []models.CartItem, retailer *models.Retailer, promoPercent float64) models.CartQuote {
	var quote models.CartQuote
	for _, item := range items {
		quote.Subtotal += item.GetTotalPrice()
		quote.ItemCount += item.Quantity
	}

	if retailer != nil {
		quote.StreakDiscountPct = retailer.DiscountPercentage()
	}
	quote.StreakDiscount = quote.Subtotal * float64(quote.StreakDiscountPct) / 100
	quote.PromoDiscount = quote.Subtotal * promoPercent / 100

	if quote.Subtotal >= models.BulkThreshold {
		quote.DeliveryFee = 0
	} else {
		quote.DeliveryFee = models.FlatDeliveryFee
	}

	quote.Total = quote.Subtotal - quote.StreakDiscount - quote.PromoDiscount + quote.DeliveryFee
	return quote
}

// ValidatePromoCode resolves a promo code to its discount percentage.
// Unknown codes return ErrInvalidPromoCode and change nothing.
func (s *CartService) ValidatePromoCode(code string) (float64, error) {
	if code == "" {
		return 0, nil
	}
	promo, err := s.catalog.GetPromoCode(code)
	if err == sql.ErrNoRows {
		return 0, ErrInvalidPromoCode
	}
	if err != nil {
		return 0, err
	}
	return promo.Percentage, nil
}
