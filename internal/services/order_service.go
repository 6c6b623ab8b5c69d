package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"buynestt-backend/internal/models"
)

// OrderService turns carts into immutable orders and serves order history
type OrderService struct {
	db       *sql.DB
	catalog  *CatalogService
	cart     *CartService
	retailer *RetailerService
}

// NewOrderService creates a new order service
func NewOrderService(db *sql.DB, catalog *CatalogService, cart *CartService, retailer *RetailerService) *OrderService {
	return &OrderService{db: db, catalog: catalog, cart: cart, retailer: retailer}
}

// Checkout snapshots the retailer's cart into an order at current prices,
// applying the streak and promo discounts and the delivery fee. On success
// the cart is cleared, purchase history counters are bumped and the
// retailer's total spend grows by the order total.
func (s *OrderService) Checkout(retailerID string, req *models.CheckoutRequest) (*models.Order, error) {
	retailer, err := s.retailer.GetRetailerByID(retailerID)
	if err != nil {
		return nil, err
	}

	items, err := s.cart.GetCart(retailerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	// Carts may be built up below the MOQ; the minimum binds at order time
	for _, item := range items {
		if !item.Product.CanOrder(item.Quantity) {
			return nil, fmt.Errorf("%s requires a minimum order of %d units", item.Product.Name, item.Product.MOQ)
		}
	}

	promoPercent := 0.0
	if req != nil && req.PromoCode != "" {
		promoPercent, err = s.cart.ValidatePromoCode(req.PromoCode)
		if err != nil {
			return nil, err
		}
	}

	quote := Quote(items, retailer, promoPercent)

	order := &models.Order{
		ID:              uuid.New().String(),
		RetailerID:      retailerID,
		TotalAmount:     quote.Total,
		DiscountApplied: quote.StreakDiscount + quote.PromoDiscount,
		DeliveryFee:     quote.DeliveryFee,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO orders (id, retailer_id, total_amount, discount_applied, delivery_fee, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.RetailerID, order.TotalAmount, order.DiscountApplied, order.DeliveryFee, order.Status, order.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	quantities := make(map[string]int, len(items))
	for _, item := range items {
		orderItem := models.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		}
		_, err = tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES (?, ?, ?, ?, ?)`,
			orderItem.ID, orderItem.OrderID, orderItem.ProductID, orderItem.Quantity, orderItem.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		order.Items = append(order.Items, orderItem)
		quantities[item.ProductID] = item.Quantity
	}

	_, err = tx.Exec(`UPDATE retailers SET total_spent = total_spent + ? WHERE id = ?`, order.TotalAmount, retailerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update total spent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	if err := s.cart.ClearCart(retailerID); err != nil {
		return nil, err
	}
	if err := s.catalog.IncrementPurchaseCounts(quantities); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order":    order.ID,
		"retailer": retailerID,
		"total":    order.TotalAmount,
	}).Info("order placed")

	return order, nil
}

// PurchaseCounts returns how many units of each product the retailer has
// ordered across all orders
func (s *OrderService) PurchaseCounts(retailerID string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT oi.product_id, SUM(oi.quantity)
		FROM order_items oi
		INNER JOIN orders o ON oi.order_id = o.id
		WHERE o.retailer_id = ?
		GROUP BY oi.product_id`, retailerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var productID string
		var quantity int
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan purchase count: %w", err)
		}
		counts[productID] = quantity
	}
	return counts, rows.Err()
}

// GetOrders returns the retailer's orders, newest first, with items attached
func (s *OrderService) GetOrders(retailerID string) ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT id, retailer_id, total_amount, discount_applied, delivery_fee, status, created_at
		FROM orders WHERE retailer_id = ? ORDER BY created_at DESC`, retailerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.RetailerID, &o.TotalAmount, &o.DiscountApplied, &o.DeliveryFee, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.getOrderItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// GetOrderByID returns a single order owned by the retailer
func (s *OrderService) GetOrderByID(retailerID, orderID string) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(`
		SELECT id, retailer_id, total_amount, discount_applied, delivery_fee, status, created_at
		FROM orders WHERE id = ? AND retailer_id = ?`, orderID, retailerID).
		Scan(&o.ID, &o.RetailerID, &o.TotalAmount, &o.DiscountApplied, &o.DeliveryFee, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.getOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// getOrderItems loads an order's lines with product details. Lines whose
// product no longer exists keep their snapshot fields but carry no joined
// product; they are served, not treated as errors.
func (s *OrderService) getOrderItems(orderID string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price
		FROM order_items oi WHERE oi.order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range items {
		if product, err := s.catalog.GetProductByID(items[i].ProductID); err == nil {
			items[i].Product = product
		}
	}
	return items, nil
}
