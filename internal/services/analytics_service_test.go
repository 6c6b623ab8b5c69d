package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buynestt-backend/database"
	"buynestt-backend/internal/models"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *CartService) {
	t.Helper()

	db := newTestDB(t)
	require.NoError(t, database.SeedDemoRetailer(db))

	catalogService := NewCatalogService(db)
	cartService := NewCartService(db, catalogService)
	retailerService := NewRetailerService(db)
	orderService := NewOrderService(db, catalogService, cartService, retailerService)
	return NewAnalyticsService(retailerService, orderService, cartService), cartService
}

func TestDashboard(t *testing.T) {
	analyticsService, cartService := newAnalyticsFixture(t)

	t.Run("SummarizesDemoRetailer", func(t *testing.T) {
		stats, err := analyticsService.Dashboard(database.DemoRetailerID)
		require.NoError(t, err)

		assert.Equal(t, 45000.0, stats.TotalSpent)
		assert.Equal(t, 2, stats.WeeklyStreak)
		assert.Equal(t, 3, stats.MonthlyStreak)
		assert.Equal(t, models.WeeklyStreakThreshold, stats.WeeklyStreakGoal)
		// Monthly tier unlocked, weekly tier one order short
		assert.Equal(t, models.MonthlyStreakDiscount, stats.UnlockedDiscount)
		assert.Equal(t, 2, stats.OrderCount)
		assert.Equal(t, 0.0, stats.CartSubtotal)
		assert.Equal(t, models.BulkThreshold, stats.FreeDeliveryTarget)
	})

	t.Run("CartSubtotalTracksCart", func(t *testing.T) {
		_, err := cartService.AddToCart(database.DemoRetailerID, "1", 5)
		require.NoError(t, err)

		stats, err := analyticsService.Dashboard(database.DemoRetailerID)
		require.NoError(t, err)
		assert.Equal(t, 600.0, stats.CartSubtotal)
	})

	t.Run("UnknownRetailerFails", func(t *testing.T) {
		_, err := analyticsService.Dashboard("missing")
		assert.Error(t, err)
	})
}

func TestReport(t *testing.T) {
	analyticsService, _ := newAnalyticsFixture(t)

	report, err := analyticsService.Report(database.DemoRetailerID)
	require.NoError(t, err)

	t.Run("SavingsComeFromOrderDiscounts", func(t *testing.T) {
		assert.Equal(t, 45.0, report.TotalSavings)
		assert.NotEmpty(t, report.Savings)
	})

	t.Run("EngagementSeriesIsFixed", func(t *testing.T) {
		require.Len(t, report.Engagement, 6)
		assert.Equal(t, "Jan", report.Engagement[0].Month)
	})

	t.Run("CategorySplitRanksBySpend", func(t *testing.T) {
		require.NotEmpty(t, report.CategorySplit)
		assert.Equal(t, "Groceries", report.CategorySplit[0].Name)

		var totalPercent float64
		for _, split := range report.CategorySplit {
			totalPercent += split.Percent
		}
		assert.InDelta(t, 100.0, totalPercent, 0.01)
	})

	t.Run("EmptyHistoryYieldsEmptySlices", func(t *testing.T) {
		db := newTestDB(t)
		catalogService := NewCatalogService(db)
		cartService := NewCartService(db, catalogService)
		retailerService := NewRetailerService(db)
		orderService := NewOrderService(db, catalogService, cartService, retailerService)
		analytics := NewAnalyticsService(retailerService, orderService, cartService)
		retailer := newTestRetailer(t, retailerService, "empty@example.com")

		report, err := analytics.Report(retailer.ID)
		require.NoError(t, err)
		assert.Empty(t, report.Savings)
		assert.Empty(t, report.CategorySplit)
		assert.NotNil(t, report.Savings)
		assert.NotNil(t, report.CategorySplit)
		assert.Equal(t, 0.0, report.TotalSavings)
	})
}
