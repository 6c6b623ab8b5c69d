package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"buynestt-backend/internal/models"
)

// AuthService handles token issuance and validation
type AuthService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	// In-memory blacklist for revoked tokens; entries expire with the token
	blacklistedTokens map[string]time.Time
	blacklistMutex    sync.RWMutex
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string, jwtExpirationSeconds int) *AuthService {
	return &AuthService{
		jwtSecret:         jwtSecret,
		jwtExpiration:     time.Duration(jwtExpirationSeconds) * time.Second,
		blacklistedTokens: make(map[string]time.Time),
	}
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	RetailerID string `json:"retailerId"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for a retailer
func (s *AuthService) GenerateToken(retailer *models.Retailer) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		RetailerID: retailer.ID,
		Email:      retailer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "buynestt",
			Subject:   retailer.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	if s.IsTokenBlacklisted(tokenString) {
		return nil, fmt.Errorf("token has been revoked")
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// BlacklistToken revokes a token until its natural expiry
func (s *AuthService) BlacklistToken(tokenString string) error {
	expiryTime := time.Now().Add(s.jwtExpiration)
	if claims, err := s.ValidateToken(tokenString); err == nil {
		expiryTime = claims.ExpiresAt.Time
	}

	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()

	s.blacklistedTokens[tokenString] = expiryTime
	return nil
}

// IsTokenBlacklisted checks if a token has been revoked
func (s *AuthService) IsTokenBlacklisted(tokenString string) bool {
	s.blacklistMutex.RLock()
	expiryTime, exists := s.blacklistedTokens[tokenString]
	s.blacklistMutex.RUnlock()

	if !exists {
		return false
	}

	if time.Now().After(expiryTime) {
		s.blacklistMutex.Lock()
		delete(s.blacklistedTokens, tokenString)
		s.blacklistMutex.Unlock()
		return false
	}

	return true
}

// CleanupExpiredTokens removes expired tokens from the blacklist
func (s *AuthService) CleanupExpiredTokens() {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()

	now := time.Now()
	for token, expiryTime := range s.blacklistedTokens {
		if now.After(expiryTime) {
			delete(s.blacklistedTokens, token)
		}
	}
}
