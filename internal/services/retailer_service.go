package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"buynestt-backend/internal/models"
	"buynestt-backend/internal/utils"
)

// RetailerService handles retailer account business logic
type RetailerService struct {
	db *sql.DB
}

// NewRetailerService creates a new retailer service
func NewRetailerService(db *sql.DB) *RetailerService {
	return &RetailerService{db: db}
}

// CreateRetailer registers a new retailer account
func (s *RetailerService) CreateRetailer(registration *models.RetailerRegistration) (*models.Retailer, error) {
	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))
	registration.ShopName = utils.SanitizeString(registration.ShopName)
	registration.OwnerName = utils.SanitizeString(registration.OwnerName)
	registration.Region = utils.SanitizeString(registration.Region)

	if registration.ShopName == "" || registration.OwnerName == "" {
		return nil, errors.New("shop name and owner name are required")
	}
	if passwordErrors := utils.ValidatePassword(registration.Password); len(passwordErrors) > 0 {
		return nil, fmt.Errorf("password validation failed: %s", strings.Join(passwordErrors, ", "))
	}

	exists, err := s.RetailerExists(registration.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check retailer existence: %w", err)
	}
	if exists {
		return nil, errors.New("retailer with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	retailer := &models.Retailer{
		ID:           uuid.New().String(),
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		ShopName:     registration.ShopName,
		OwnerName:    registration.OwnerName,
		Region:       registration.Region,
		Categories:   registration.Categories,
		CreatedAt:    time.Now(),
	}
	if retailer.Categories == nil {
		retailer.Categories = []string{}
	}
	if err := retailer.Validate(); err != nil {
		return nil, err
	}

	categories, err := retailer.GetCategoriesJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO retailers (id, email, password_hash, shop_name, owner_name, region, categories, weekly_streak, monthly_streak, total_spent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?)`,
		retailer.ID, retailer.Email, retailer.PasswordHash, retailer.ShopName, retailer.OwnerName,
		retailer.Region, categories, retailer.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retailer: %w", err)
	}

	return retailer, nil
}

// AuthenticateRetailer validates login credentials
func (s *RetailerService) AuthenticateRetailer(login *models.RetailerLogin) (*models.Retailer, error) {
	email := strings.ToLower(strings.TrimSpace(login.Email))

	retailer, err := s.GetRetailerByEmail(email)
	if err == sql.ErrNoRows {
		return nil, errors.New("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(retailer.PasswordHash), []byte(login.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return retailer, nil
}

const retailerColumns = `id, email, password_hash, shop_name, owner_name, region, categories, weekly_streak, monthly_streak, total_spent, created_at`

func scanRetailer(scanner interface{ Scan(...interface{}) error }) (*models.Retailer, error) {
	var r models.Retailer
	var categories string
	err := scanner.Scan(
		&r.ID, &r.Email, &r.PasswordHash, &r.ShopName, &r.OwnerName, &r.Region,
		&categories, &r.WeeklyStreak, &r.MonthlyStreak, &r.TotalSpent, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := r.SetCategoriesFromJSON(categories); err != nil {
		r.Categories = []string{}
	}
	return &r, nil
}

// GetRetailerByID fetches a retailer by id
func (s *RetailerService) GetRetailerByID(id string) (*models.Retailer, error) {
	row := s.db.QueryRow(`SELECT `+retailerColumns+` FROM retailers WHERE id = ?`, id)
	retailer, err := scanRetailer(row)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get retailer: %w", err)
	}
	return retailer, nil
}

// GetRetailerByEmail fetches a retailer by email
func (s *RetailerService) GetRetailerByEmail(email string) (*models.Retailer, error) {
	row := s.db.QueryRow(`SELECT `+retailerColumns+` FROM retailers WHERE email = ?`, email)
	retailer, err := scanRetailer(row)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get retailer: %w", err)
	}
	return retailer, nil
}

// UpdateRetailer applies a partial profile update and returns the result
func (s *RetailerService) UpdateRetailer(id string, update *models.RetailerProfileUpdate) (*models.Retailer, error) {
	retailer, err := s.GetRetailerByID(id)
	if err != nil {
		return nil, err
	}

	if update.ShopName != nil {
		retailer.ShopName = utils.SanitizeString(*update.ShopName)
	}
	if update.OwnerName != nil {
		retailer.OwnerName = utils.SanitizeString(*update.OwnerName)
	}
	if update.Region != nil {
		retailer.Region = utils.SanitizeString(*update.Region)
	}
	if update.Categories != nil {
		retailer.Categories = update.Categories
	}
	if err := retailer.Validate(); err != nil {
		return nil, err
	}

	categories, err := retailer.GetCategoriesJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE retailers SET shop_name = ?, owner_name = ?, region = ?, categories = ? WHERE id = ?`,
		retailer.ShopName, retailer.OwnerName, retailer.Region, categories, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update retailer: %w", err)
	}

	return retailer, nil
}

// RetailerExists checks whether an email is already registered
func (s *RetailerService) RetailerExists(email string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM retailers WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
