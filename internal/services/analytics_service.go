package services

import (
	"sort"

	"buynestt-backend/internal/models"
)

// DashboardStats summarizes a retailer's standing for the dashboard page
type DashboardStats struct {
	TotalSpent         float64 `json:"totalSpent"`
	WeeklyStreak       int     `json:"weeklyStreak"`
	WeeklyStreakGoal   int     `json:"weeklyStreakGoal"`
	MonthlyStreak      int     `json:"monthlyStreak"`
	MonthlyStreakGoal  int     `json:"monthlyStreakGoal"`
	UnlockedDiscount   int     `json:"unlockedDiscount"`
	OrderCount         int     `json:"orderCount"`
	CartSubtotal       float64 `json:"cartSubtotal"`
	FreeDeliveryTarget float64 `json:"freeDeliveryTarget"`
}

// MonthlyEngagement is one month of recommendation clicks vs conversions
type MonthlyEngagement struct {
	Month           string `json:"month"`
	Recommendations int    `json:"recommendations"`
	Conversions     int    `json:"conversions"`
}

// MonthlySavings is one month of discount savings
type MonthlySavings struct {
	Month   string  `json:"month"`
	Savings float64 `json:"savings"`
}

// CategorySpend is a category's share of the retailer's order spend
type CategorySpend struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// AnalyticsReport is the full analytics page payload
type AnalyticsReport struct {
	Engagement    []MonthlyEngagement `json:"engagement"`
	Savings       []MonthlySavings    `json:"savings"`
	CategorySplit []CategorySpend     `json:"categorySplit"`
	TotalSavings  float64             `json:"totalSavings"`
}

// Recommendation click tracking is not instrumented; the engagement series
// ships as a fixed demo set matching the storefront's analytics page.
var demoEngagement = []MonthlyEngagement{
	{Month: "Jan", Recommendations: 45, Conversions: 12},
	{Month: "Feb", Recommendations: 52, Conversions: 18},
	{Month: "Mar", Recommendations: 38, Conversions: 15},
	{Month: "Apr", Recommendations: 61, Conversions: 22},
	{Month: "May", Recommendations: 55, Conversions: 20},
	{Month: "Jun", Recommendations: 67, Conversions: 28},
}

// AnalyticsService derives dashboard and analytics figures from order data
type AnalyticsService struct {
	retailer *RetailerService
	orders   *OrderService
	cart     *CartService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(retailer *RetailerService, orders *OrderService, cart *CartService) *AnalyticsService {
	return &AnalyticsService{retailer: retailer, orders: orders, cart: cart}
}

// Dashboard builds the retailer's dashboard summary
func (s *AnalyticsService) Dashboard(retailerID string) (*DashboardStats, error) {
	retailer, err := s.retailer.GetRetailerByID(retailerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.GetOrders(retailerID)
	if err != nil {
		return nil, err
	}
	items, err := s.cart.GetCart(retailerID)
	if err != nil {
		return nil, err
	}
	quote := Quote(items, retailer, 0)

	return &DashboardStats{
		TotalSpent:         retailer.TotalSpent,
		WeeklyStreak:       retailer.WeeklyStreak,
		WeeklyStreakGoal:   models.WeeklyStreakThreshold,
		MonthlyStreak:      retailer.MonthlyStreak,
		MonthlyStreakGoal:  models.MonthlyStreakThreshold,
		UnlockedDiscount:   retailer.DiscountPercentage(),
		OrderCount:         len(orders),
		CartSubtotal:       quote.Subtotal,
		FreeDeliveryTarget: models.BulkThreshold,
	}, nil
}

// Report builds the analytics page payload. Savings and the category split
// are derived from the retailer's actual orders; the engagement series is
// the fixed demo set.
func (s *AnalyticsService) Report(retailerID string) (*AnalyticsReport, error) {
	orders, err := s.orders.GetOrders(retailerID)
	if err != nil {
		return nil, err
	}

	savingsByMonth := make(map[string]float64)
	var monthOrder []string
	spendByCategory := make(map[string]float64)
	var totalSpend, totalSavings float64

	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		month := o.CreatedAt.Format("Jan")
		if _, seen := savingsByMonth[month]; !seen {
			monthOrder = append(monthOrder, month)
		}
		savingsByMonth[month] += o.DiscountApplied
		totalSavings += o.DiscountApplied

		for _, item := range o.Items {
			if item.Product == nil {
				continue
			}
			amount := item.GetTotalPrice()
			spendByCategory[string(item.Product.Category)] += amount
			totalSpend += amount
		}
	}

	report := &AnalyticsReport{
		Engagement:   demoEngagement,
		Savings:      []MonthlySavings{},
		TotalSavings: totalSavings,
	}
	for _, month := range monthOrder {
		report.Savings = append(report.Savings, MonthlySavings{Month: month, Savings: savingsByMonth[month]})
	}

	for name, amount := range spendByCategory {
		percent := 0.0
		if totalSpend > 0 {
			percent = amount / totalSpend * 100
		}
		report.CategorySplit = append(report.CategorySplit, CategorySpend{
			Name:    name,
			Amount:  amount,
			Percent: percent,
		})
	}
	sort.Slice(report.CategorySplit, func(i, j int) bool {
		if report.CategorySplit[i].Amount != report.CategorySplit[j].Amount {
			return report.CategorySplit[i].Amount > report.CategorySplit[j].Amount
		}
		return report.CategorySplit[i].Name < report.CategorySplit[j].Name
	})
	if report.CategorySplit == nil {
		report.CategorySplit = []CategorySpend{}
	}

	return report, nil
}
