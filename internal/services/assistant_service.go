package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"buynestt-backend/internal/models"
)

const assistantSystemPrompt = `You are a helpful shopping assistant for Buynestt, a platform for neighborhood retailers. You help with product recommendations, discounts, and general shopping questions.

Key features to know about:
- Streak discounts: 3% for 3 consecutive weeks of ordering, 2% bonus for monthly streaks
- Free delivery on orders above ₹2000
- Product categories: Groceries, Snacks, Beverages, Dairy, Spices
- Always be friendly, helpful, and concise. Speak like a helpful local shopkeeper.`

// faqEntry pairs a keyword with its canned response. The table is ordered;
// the first keyword contained in the message wins.
type faqEntry struct {
	keyword  string
	response string
}

var faqTable = []faqEntry{
	{"discount", "You can earn discounts through our streak system! Order weekly for 3 consecutive weeks to unlock a 3% discount, or monthly for 3+ months to get an additional 2% bonus. Your current progress is shown on your dashboard."},
	{"streak", "Our streak system rewards consistent ordering. Weekly streak: order every week for 3 weeks = 3% discount. Monthly streak: order every month = 2% bonus after 3 months. Keep up the great work!"},
	{"delivery", "Free delivery is available on orders above ₹2000. You can see your progress toward free delivery on your dashboard. Add more items to your cart to reach the threshold!"},
	{"trending", "Based on your purchase history, trending items in your categories include Basmati Rice, Masala Tea, and Mixed Namkeen. Check out our recommendations page for more personalized picks!"},
	{"help", "I can help you with product recommendations, discount information, delivery details, and finding specific items. What would you like to know about?"},
}

var intentWords = []string{"show", "recommend", "suggest"}

// AssistantConfig holds the external chat service settings
type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AssistantService answers free-text shopper questions. It prefers the
// external chat service; on any failure it silently resolves the message
// locally. The local resolver never fails.
type AssistantService struct {
	catalog *CatalogService
	config  AssistantConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewAssistantService creates a new assistant service
func NewAssistantService(catalog *CatalogService, config AssistantConfig) *AssistantService {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "assistant-upstream",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &AssistantService{
		catalog: catalog,
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: breaker,
	}
}

// Respond answers a message. External service unavailability is a recovered
// condition: the caller always gets a response string.
func (s *AssistantService) Respond(ctx context.Context, message string) string {
	if reply, err := s.callUpstream(ctx, message); err == nil {
		return reply
	} else {
		logrus.WithError(err).Debug("assistant upstream unavailable, using local resolver")
	}
	return s.resolveLocally(message)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// callUpstream performs the external chat completion call through the
// circuit breaker. An open breaker fails immediately without a round-trip.
func (s *AssistantService) callUpstream(ctx context.Context, message string) (string, error) {
	if s.config.APIKey == "" {
		return "", errors.New("assistant API key not configured")
	}

	return s.breaker.Execute(func() (string, error) {
		payload := chatRequest{
			Model: s.config.Model,
			Messages: []chatMessage{
				{Role: "system", Content: assistantSystemPrompt},
				{Role: "user", Content: message},
			},
			MaxTokens:   200,
			Temperature: 0.7,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to encode chat request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to build chat request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("chat request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat request returned status %d", resp.StatusCode)
		}

		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return "", fmt.Errorf("failed to decode chat response: %w", err)
		}
		if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
			return "", errors.New("chat response contained no choices")
		}
		return parsed.Choices[0].Message.Content, nil
	})
}

// resolveLocally walks an ordered rule table: keyword matches first, then
// product-lookup intent, then a generic help message. It always returns
// something; no match is not an error.
func (s *AssistantService) resolveLocally(message string) string {
	lower := strings.ToLower(message)

	for _, entry := range faqTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.response
		}
	}

	for _, word := range intentWords {
		if strings.Contains(lower, word) {
			return s.productLookupResponse(lower)
		}
	}

	return `I'm here to help with product recommendations, discounts, delivery info, and more! Try asking me about "trending snacks", "how to get discounts", or "free delivery". What would you like to know?`
}

// productLookupResponse synthesizes a reply from the catalog for messages
// that ask to see or recommend products.
func (s *AssistantService) productLookupResponse(lowerMessage string) string {
	products, err := s.catalog.GetProducts()
	if err != nil {
		products = nil
	}

	// Category mention beats name match; "snack" must also catch "snacks".
	for _, category := range models.ValidProductCategories {
		singular := strings.TrimSuffix(strings.ToLower(string(category)), "s")
		if !strings.Contains(lowerMessage, singular) {
			continue
		}
		var matches []string
		for _, p := range products {
			if p.Category == category {
				matches = append(matches, fmt.Sprintf("%s (₹%.0f)", p.Name, p.Price))
			}
			if len(matches) == 3 {
				break
			}
		}
		if len(matches) > 0 {
			return fmt.Sprintf("Here are some popular %s: %s. You can find more on our recommendations page!",
				strings.ToLower(string(category)), strings.Join(matches, ", "))
		}
	}

	for _, p := range products {
		for _, tag := range p.Tags {
			if strings.Contains(lowerMessage, strings.ToLower(tag)) {
				return fmt.Sprintf("I recommend %s at ₹%.0f per %s. It has a %.1f-star rating from %s.",
					p.Name, p.Price, p.PackSize, p.Rating, p.Distributor)
			}
		}
	}

	return "I can show you trending products in categories like Groceries, Snacks, Beverages, and more. Check out your personalized recommendations page for the best picks for your store!"
}
