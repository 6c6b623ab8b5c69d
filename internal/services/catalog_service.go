package services

import (
	"database/sql"
	"fmt"
	"strings"

	"buynestt-backend/internal/models"
)

// CatalogService reads the seeded product catalog and its companion tables
type CatalogService struct {
	db *sql.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

const productColumns = `id, name, category, price, pack_size, stock, image_url, distributor, rating, moq, tags, created_at`

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	var tags string
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.PackSize, &p.Stock,
		&p.ImageURL, &p.Distributor, &p.Rating, &p.MOQ, &tags, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := p.SetTagsFromJSON(tags); err != nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// GetProducts returns the full catalog in seed order
func (s *CatalogService) GetProducts() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY CAST(id AS INTEGER), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProductByID returns a single product or sql.ErrNoRows
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return p, nil
}

// SearchProducts filters the catalog by case-insensitive substring match on
// name, category or tags
func (s *CatalogService) SearchProducts(query string) ([]models.Product, error) {
	products, err := s.GetProducts()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	var matches []models.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(string(p.Category)), query) {
			matches = append(matches, p)
			continue
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches, nil
}

// GetProductsByCategory returns products in an exact category
func (s *CatalogService) GetProductsByCategory(category string) ([]models.Product, error) {
	products, err := s.GetProducts()
	if err != nil {
		return nil, err
	}

	var matches []models.Product
	for _, p := range products {
		if strings.EqualFold(string(p.Category), category) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// GetPurchaseHistory returns the product id -> purchase count mapping
func (s *CatalogService) GetPurchaseHistory() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT product_id, purchase_count FROM purchase_history`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase history: %w", err)
	}
	defer rows.Close()

	history := make(map[string]int)
	for rows.Next() {
		var productID string
		var count int
		if err := rows.Scan(&productID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan purchase history: %w", err)
		}
		history[productID] = count
	}
	return history, rows.Err()
}

// GetCoPurchaseTable returns the product id -> {product id -> affinity}
// mapping. Scores are raw; ranking relies on their relative magnitudes.
func (s *CatalogService) GetCoPurchaseTable() (map[string]map[string]float64, error) {
	rows, err := s.db.Query(`SELECT product_id, co_product_id, score FROM co_purchases`)
	if err != nil {
		return nil, fmt.Errorf("failed to query co-purchases: %w", err)
	}
	defer rows.Close()

	table := make(map[string]map[string]float64)
	for rows.Next() {
		var productID, coProductID string
		var score float64
		if err := rows.Scan(&productID, &coProductID, &score); err != nil {
			return nil, fmt.Errorf("failed to scan co-purchase row: %w", err)
		}
		if table[productID] == nil {
			table[productID] = make(map[string]float64)
		}
		table[productID][coProductID] = score
	}
	return table, rows.Err()
}

// GetPromoCode looks up a promotional code, case-insensitively. Returns
// sql.ErrNoRows for unrecognized codes.
func (s *CatalogService) GetPromoCode(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := s.db.QueryRow(`SELECT code, percentage FROM promo_codes WHERE UPPER(code) = UPPER(?)`, strings.TrimSpace(code)).
		Scan(&promo.Code, &promo.Percentage)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up promo code: %w", err)
	}
	return &promo, nil
}

// IncrementPurchaseCounts bumps purchase history for ordered products.
// Called after checkout so future recommendations reflect the order.
func (s *CatalogService) IncrementPurchaseCounts(quantities map[string]int) error {
	for productID, qty := range quantities {
		if qty <= 0 {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO purchase_history (product_id, purchase_count) VALUES (?, ?)
			ON CONFLICT (product_id) DO UPDATE SET purchase_count = purchase_count + ?`,
			productID, qty, qty,
		)
		if err != nil {
			return fmt.Errorf("failed to increment purchase count for %s: %w", productID, err)
		}
	}
	return nil
}
