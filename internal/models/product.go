package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ProductCategory represents product categories
type ProductCategory string

const (
	ProductCategoryGroceries ProductCategory = "Groceries"
	ProductCategoryBeverages ProductCategory = "Beverages"
	ProductCategorySnacks    ProductCategory = "Snacks"
	ProductCategoryDairy     ProductCategory = "Dairy"
	ProductCategorySpices    ProductCategory = "Spices"
)

// ValidProductCategories lists the fixed category set
var ValidProductCategories = []ProductCategory{
	ProductCategoryGroceries,
	ProductCategoryBeverages,
	ProductCategorySnacks,
	ProductCategoryDairy,
	ProductCategorySpices,
}

// Product represents a wholesale product in the catalog. Seed data is
// immutable after load.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    ProductCategory `json:"category" db:"category"`
	Price       float64         `json:"price" db:"price"`
	PackSize    string          `json:"packSize" db:"pack_size"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Distributor string          `json:"distributor" db:"distributor"`
	Rating      float64         `json:"rating" db:"rating"`
	MOQ         int             `json:"moq" db:"moq"`
	Tags        []string        `json:"tags" db:"tags"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Recommendation is a product annotated with why it was suggested
type Recommendation struct {
	Product
	Reason string  `json:"reason"`
	Score  float64 `json:"score,omitempty"`
}

// Validate checks that a product record is well formed. Malformed seed rows
// are rejected at load time rather than propagated as partial objects.
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is required")
	}
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if !p.HasValidCategory() {
		return errors.New("product category is not in the fixed set")
	}
	if p.Price <= 0 {
		return errors.New("product price must be positive")
	}
	if p.Stock < 0 {
		return errors.New("product stock must be non-negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return errors.New("product rating must be between 0 and 5")
	}
	if p.MOQ < 1 {
		return errors.New("product moq must be at least 1")
	}
	return nil
}

// HasValidCategory checks the category against the fixed set
func (p *Product) HasValidCategory() bool {
	for _, c := range ValidProductCategories {
		if p.Category == c {
			return true
		}
	}
	return false
}

// IsInStock checks if the product has sufficient stock
func (p *Product) IsInStock(quantity int) bool {
	return p.Stock >= quantity
}

// CanOrder checks if the quantity satisfies the minimum order quantity
func (p *Product) CanOrder(quantity int) bool {
	return quantity >= p.MOQ
}

// GetTagsJSON returns tags as JSON string for database storage
func (p *Product) GetTagsJSON() (string, error) {
	if len(p.Tags) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(p.Tags)
	return string(data), err
}

// SetTagsFromJSON sets tags from JSON string
func (p *Product) SetTagsFromJSON(tagsJSON string) error {
	if tagsJSON == "" {
		p.Tags = []string{}
		return nil
	}
	return json.Unmarshal([]byte(tagsJSON), &p.Tags)
}
