package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"buynestt-backend/internal/models"
)

// Demo account credentials used when DEMO_MODE is enabled
const (
	DemoRetailerID    = "demo-user-1"
	DemoEmail         = "demo@buynestt.test"
	DemoPassword      = "password"
	DemoPromoCode     = "SAVE10"
	demoPromoDiscount = 10
)

// SeedProducts is the fixed wholesale catalog
var SeedProducts = []models.Product{
	{ID: "1", Name: "Basmati Rice Premium", Category: models.ProductCategoryGroceries, Price: 120, PackSize: "1kg", Stock: 50, Distributor: "Grain Masters Ltd", Rating: 4.5, MOQ: 10, Tags: []string{"rice", "premium", "staple"}},
	{ID: "2", Name: "Masala Tea Powder", Category: models.ProductCategoryBeverages, Price: 85, PackSize: "500g", Stock: 30, Distributor: "Chai Co.", Rating: 4.2, MOQ: 5, Tags: []string{"tea", "masala", "beverage"}},
	{ID: "3", Name: "Mixed Namkeen Pack", Category: models.ProductCategorySnacks, Price: 45, PackSize: "200g", Stock: 25, Distributor: "Crispy Snacks", Rating: 4.0, MOQ: 12, Tags: []string{"namkeen", "snacks", "salty"}},
	{ID: "4", Name: "Coconut Oil Pure", Category: models.ProductCategoryGroceries, Price: 180, PackSize: "1L", Stock: 20, Distributor: "Kerala Naturals", Rating: 4.7, MOQ: 6, Tags: []string{"oil", "coconut", "cooking"}},
	{ID: "5", Name: "Chocolate Biscuits", Category: models.ProductCategorySnacks, Price: 25, PackSize: "100g", Stock: 40, Distributor: "Sweet Treats Co", Rating: 4.3, MOQ: 20, Tags: []string{"biscuits", "chocolate", "sweet"}},
	{ID: "6", Name: "Fresh Milk Pack", Category: models.ProductCategoryDairy, Price: 30, PackSize: "500ml", Stock: 15, Distributor: "Dairy Fresh", Rating: 4.6, MOQ: 24, Tags: []string{"milk", "dairy", "fresh"}},
	{ID: "7", Name: "Turmeric Powder", Category: models.ProductCategorySpices, Price: 65, PackSize: "200g", Stock: 35, Distributor: "Spice Garden", Rating: 4.4, MOQ: 8, Tags: []string{"turmeric", "spices", "powder"}},
	{ID: "8", Name: "Instant Noodles", Category: models.ProductCategorySnacks, Price: 15, PackSize: "75g", Stock: 60, Distributor: "Quick Foods", Rating: 3.9, MOQ: 24, Tags: []string{"noodles", "instant", "quick"}},
}

// SeedPurchaseHistory maps product ids to historical purchase counts
var SeedPurchaseHistory = map[string]int{
	"1": 25,
	"2": 15,
	"3": 20,
	"4": 8,
	"5": 12,
	"6": 30,
	"7": 10,
	"8": 18,
}

// SeedCoPurchases is the static co-purchase affinity table. Scores are raw
// magnitudes used for ranking only; the table is not guaranteed symmetric
// and scores are deliberately not normalized.
var SeedCoPurchases = map[string]map[string]float64{
	"1": {"7": 0.8, "4": 0.6, "2": 0.5},
	"2": {"5": 0.7, "8": 0.4, "1": 0.5},
	"3": {"8": 0.6, "5": 0.5, "2": 0.4},
	"4": {"1": 0.6, "7": 0.7, "6": 0.3},
	"5": {"2": 0.7, "6": 0.8, "3": 0.5},
	"6": {"5": 0.8, "2": 0.6, "4": 0.3},
	"7": {"1": 0.8, "4": 0.7, "2": 0.4},
	"8": {"3": 0.6, "2": 0.4, "5": 0.3},
}

// Seed loads the catalog, purchase history, co-purchase table and promo
// codes. Seeding is idempotent; existing rows are left alone.
func Seed(db *sql.DB) error {
	for i := range SeedProducts {
		p := &SeedProducts[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid seed product %s: %w", p.ID, err)
		}
		tags, err := p.GetTagsJSON()
		if err != nil {
			return fmt.Errorf("failed to encode tags for product %s: %w", p.ID, err)
		}
		_, err = db.Exec(`
			INSERT OR IGNORE INTO products (id, name, category, price, pack_size, stock, image_url, distributor, rating, moq, tags, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Category, p.Price, p.PackSize, p.Stock, p.ImageURL, p.Distributor, p.Rating, p.MOQ, tags, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	for productID, count := range SeedPurchaseHistory {
		if _, err := db.Exec(`INSERT OR IGNORE INTO purchase_history (product_id, purchase_count) VALUES (?, ?)`, productID, count); err != nil {
			return fmt.Errorf("failed to seed purchase history: %w", err)
		}
	}

	for productID, row := range SeedCoPurchases {
		for coProductID, score := range row {
			if _, err := db.Exec(`INSERT OR IGNORE INTO co_purchases (product_id, co_product_id, score) VALUES (?, ?, ?)`, productID, coProductID, score); err != nil {
				return fmt.Errorf("failed to seed co-purchases: %w", err)
			}
		}
	}

	if _, err := db.Exec(`INSERT OR IGNORE INTO promo_codes (code, percentage) VALUES (?, ?)`, DemoPromoCode, demoPromoDiscount); err != nil {
		return fmt.Errorf("failed to seed promo codes: %w", err)
	}

	logrus.WithField("products", len(SeedProducts)).Info("seed data loaded")
	return nil
}

// SeedDemoRetailer creates the demo account with its historical orders.
// Only used when demo mode is enabled.
func SeedDemoRetailer(db *sql.DB) error {
	var exists string
	err := db.QueryRow(`SELECT id FROM retailers WHERE id = ?`, DemoRetailerID).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check demo retailer: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	demo := &models.Retailer{
		ID:            DemoRetailerID,
		Email:         DemoEmail,
		PasswordHash:  string(hash),
		ShopName:      "Corner Store Plus",
		OwnerName:     "Rajesh Kumar",
		Region:        "Mumbai Central",
		Categories:    []string{"Groceries", "Snacks", "Beverages"},
		WeeklyStreak:  2,
		MonthlyStreak: 3,
		TotalSpent:    45000,
		CreatedAt:     time.Now(),
	}
	if err := demo.Validate(); err != nil {
		return fmt.Errorf("invalid demo retailer: %w", err)
	}
	categories, err := demo.GetCategoriesJSON()
	if err != nil {
		return fmt.Errorf("failed to encode demo categories: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO retailers (id, email, password_hash, shop_name, owner_name, region, categories, weekly_streak, monthly_streak, total_spent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		demo.ID, demo.Email, demo.PasswordHash, demo.ShopName, demo.OwnerName, demo.Region, categories,
		demo.WeeklyStreak, demo.MonthlyStreak, demo.TotalSpent, demo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to seed demo retailer: %w", err)
	}

	demoOrders := []struct {
		id       string
		total    float64
		discount float64
		age      time.Duration
		items    []models.OrderItem
	}{
		{
			id: "demo-order-1", total: 1740, discount: 0, age: 7 * 24 * time.Hour,
			items: []models.OrderItem{
				{ProductID: "1", Quantity: 10, Price: 120},
				{ProductID: "3", Quantity: 12, Price: 45},
			},
		},
		{
			id: "demo-order-2", total: 1505, discount: 45, age: 14 * 24 * time.Hour,
			items: []models.OrderItem{
				{ProductID: "2", Quantity: 5, Price: 85},
				{ProductID: "4", Quantity: 6, Price: 180},
			},
		},
	}

	for _, o := range demoOrders {
		_, err := db.Exec(`
			INSERT INTO orders (id, retailer_id, total_amount, discount_applied, delivery_fee, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.id, demo.ID, o.total, o.discount, 0, models.OrderStatusDelivered, time.Now().Add(-o.age),
		)
		if err != nil {
			return fmt.Errorf("failed to seed demo order %s: %w", o.id, err)
		}
		for i, item := range o.items {
			_, err := db.Exec(`
				INSERT INTO order_items (id, order_id, product_id, quantity, price)
				VALUES (?, ?, ?, ?, ?)`,
				fmt.Sprintf("%s-item-%d", o.id, i+1), o.id, item.ProductID, item.Quantity, item.Price,
			)
			if err != nil {
				return fmt.Errorf("failed to seed demo order items: %w", err)
			}
		}
	}

	logrus.WithField("retailer", demo.ID).Info("demo retailer seeded")
	return nil
}
