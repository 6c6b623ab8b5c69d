package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Streak discount tiers. Each tier is unlocked independently and the
// percentages add up, so the maximum combined discount is 5%.
const (
	WeeklyStreakThreshold  = 3
	MonthlyStreakThreshold = 3
	WeeklyStreakDiscount   = 3
	MonthlyStreakDiscount  = 2
)

// Retailer represents a shop owner account on the platform
type Retailer struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	ShopName      string    `json:"shopName" db:"shop_name"`
	OwnerName     string    `json:"ownerName" db:"owner_name"`
	Region        string    `json:"region" db:"region"`
	Categories    []string  `json:"categories" db:"categories"`
	WeeklyStreak  int       `json:"weeklyStreak" db:"weekly_streak"`
	MonthlyStreak int       `json:"monthlyStreak" db:"monthly_streak"`
	TotalSpent    float64   `json:"totalSpent" db:"total_spent"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// RetailerRegistration represents data for creating a new retailer account
type RetailerRegistration struct {
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	ShopName   string   `json:"shopName" binding:"required"`
	OwnerName  string   `json:"ownerName" binding:"required"`
	Region     string   `json:"region" binding:"required"`
	Categories []string `json:"categories"`
}

// RetailerLogin represents login credentials
type RetailerLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RetailerProfileUpdate represents updatable profile fields
type RetailerProfileUpdate struct {
	ShopName   *string  `json:"shopName,omitempty"`
	OwnerName  *string  `json:"ownerName,omitempty"`
	Region     *string  `json:"region,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// DiscountPercentage returns the streak discount unlocked by this retailer.
// Tiers are independent: weekly streak >= 3 gives 3%, monthly streak >= 3
// adds another 2%.
func (r *Retailer) DiscountPercentage() int {
	pct := 0
	if r.WeeklyStreak >= WeeklyStreakThreshold {
		pct += WeeklyStreakDiscount
	}
	if r.MonthlyStreak >= MonthlyStreakThreshold {
		pct += MonthlyStreakDiscount
	}
	return pct
}

// HasActiveDiscount checks whether any streak tier is unlocked
func (r *Retailer) HasActiveDiscount() bool {
	return r.DiscountPercentage() > 0
}

// Validate checks that a retailer record is well formed. Malformed seed rows
// are rejected at load time instead of being stored partially.
func (r *Retailer) Validate() error {
	if r.ID == "" {
		return errors.New("retailer id is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("retailer email is invalid")
	}
	if r.ShopName == "" {
		return errors.New("shop name is required")
	}
	if r.WeeklyStreak < 0 || r.MonthlyStreak < 0 {
		return errors.New("streak counters must be non-negative")
	}
	if r.TotalSpent < 0 {
		return errors.New("total spent must be non-negative")
	}
	return nil
}

// GetCategoriesJSON returns categories as JSON string for database storage
func (r *Retailer) GetCategoriesJSON() (string, error) {
	if len(r.Categories) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.Categories)
	return string(data), err
}

// SetCategoriesFromJSON sets categories from JSON string
func (r *Retailer) SetCategoriesFromJSON(categoriesJSON string) error {
	if categoriesJSON == "" {
		r.Categories = []string{}
		return nil
	}
	return json.Unmarshal([]byte(categoriesJSON), &r.Categories)
}
