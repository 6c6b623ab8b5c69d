package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buynestt-backend/internal/models"
)

func TestQuote(t *testing.T) {
	product := &models.Product{ID: "1", Name: "Basmati Rice Premium", Price: 100}
	cartOf := func(quantity int) []models.CartItem {
		return []models.CartItem{{ProductID: "1", Quantity: quantity, Product: product}}
	}

	t.Run("StreakDiscountApplies", func(t *testing.T) {
		retailer := &models.Retailer{WeeklyStreak: 3, MonthlyStreak: 3}

		quote := Quote(cartOf(10), retailer, 0)
		assert.Equal(t, 1000.0, quote.Subtotal)
		assert.Equal(t, 5, quote.StreakDiscountPct)
		assert.Equal(t, 50.0, quote.StreakDiscount)
		assert.Equal(t, models.FlatDeliveryFee, quote.DeliveryFee)
		assert.Equal(t, 1000.0-50.0+50.0, quote.Total)
	})

	t.Run("NoStreakNoDiscount", func(t *testing.T) {
		retailer := &models.Retailer{WeeklyStreak: 2, MonthlyStreak: 2}

		quote := Quote(cartOf(10), retailer, 0)
		assert.Equal(t, 0, quote.StreakDiscountPct)
		assert.Equal(t, 0.0, quote.StreakDiscount)
	})

	t.Run("FreeDeliveryAtThreshold", func(t *testing.T) {
		quote := Quote(cartOf(20), &models.Retailer{}, 0)
		assert.Equal(t, 2000.0, quote.Subtotal)
		assert.Equal(t, 0.0, quote.DeliveryFee)
	})

	t.Run("FlatFeeBelowThreshold", func(t *testing.T) {
		items := []models.CartItem{{ProductID: "1", Quantity: 1, Product: &models.Product{ID: "1", Price: 1999}}}

		quote := Quote(items, &models.Retailer{}, 0)
		assert.Equal(t, 1999.0, quote.Subtotal)
		assert.Equal(t, models.FlatDeliveryFee, quote.DeliveryFee)
	})

	t.Run("PromoDiscountIsExactPercentage", func(t *testing.T) {
		quote := Quote(cartOf(10), &models.Retailer{}, 10)
		assert.Equal(t, 100.0, quote.PromoDiscount)
		assert.Equal(t, 1000.0-100.0+50.0, quote.Total)
	})

	t.Run("DiscountsStack", func(t *testing.T) {
		retailer := &models.Retailer{WeeklyStreak: 5, MonthlyStreak: 4}

		quote := Quote(cartOf(10), retailer, 10)
		assert.Equal(t, 50.0, quote.StreakDiscount)
		assert.Equal(t, 100.0, quote.PromoDiscount)
		assert.Equal(t, 1000.0-150.0+50.0, quote.Total)
	})

	t.Run("EmptyCartStillChargesDelivery", func(t *testing.T) {
		quote := Quote(nil, &models.Retailer{}, 0)
		assert.Equal(t, 0.0, quote.Subtotal)
		assert.Equal(t, models.FlatDeliveryFee, quote.DeliveryFee)
		assert.Equal(t, 0, quote.ItemCount)
	})
}

func TestCartService(t *testing.T) {
	db := newTestDB(t)
	catalogService := NewCatalogService(db)
	cartService := NewCartService(db, catalogService)
	retailerService := NewRetailerService(db)
	retailer := newTestRetailer(t, retailerService, "cart@example.com")

	t.Run("AddAccumulatesQuantity", func(t *testing.T) {
		items, err := cartService.AddToCart(retailer.ID, "1", 2)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)

		items, err = cartService.AddToCart(retailer.ID, "1", 3)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, "Basmati Rice Premium", items[0].Product.Name)
	})

	t.Run("AddRejectsUnknownProduct", func(t *testing.T) {
		_, err := cartService.AddToCart(retailer.ID, "nope", 1)
		assert.Error(t, err)
	})

	t.Run("AddRejectsNonPositiveQuantity", func(t *testing.T) {
		_, err := cartService.AddToCart(retailer.ID, "1", 0)
		assert.Error(t, err)
	})

	t.Run("AddRejectsOverStock", func(t *testing.T) {
		// Product 6 has 15 units in stock
		_, err := cartService.AddToCart(retailer.ID, "6", 100)
		assert.Error(t, err)
	})

	t.Run("UpdateQuantitySetsExactValue", func(t *testing.T) {
		items, err := cartService.UpdateQuantity(retailer.ID, "1", 7)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Quantity)
	})

	t.Run("ZeroQuantityRemovesLine", func(t *testing.T) {
		items, err := cartService.UpdateQuantity(retailer.ID, "1", 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("UpdateMissingLineFails", func(t *testing.T) {
		_, err := cartService.UpdateQuantity(retailer.ID, "1", 4)
		assert.Error(t, err)
	})

	t.Run("RemoveMissingLineIsNoOp", func(t *testing.T) {
		items, err := cartService.RemoveFromCart(retailer.ID, "1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ClearCartEmptiesEverything", func(t *testing.T) {
		_, err := cartService.AddToCart(retailer.ID, "2", 5)
		require.NoError(t, err)
		_, err = cartService.AddToCart(retailer.ID, "3", 12)
		require.NoError(t, err)

		require.NoError(t, cartService.ClearCart(retailer.ID))

		items, err := cartService.GetCart(retailer.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestValidatePromoCode(t *testing.T) {
	db := newTestDB(t)
	cartService := NewCartService(db, NewCatalogService(db))

	t.Run("KnownCodeReturnsPercentage", func(t *testing.T) {
		percent, err := cartService.ValidatePromoCode("SAVE10")
		require.NoError(t, err)
		assert.Equal(t, 10.0, percent)
	})

	t.Run("LookupIsCaseInsensitive", func(t *testing.T) {
		percent, err := cartService.ValidatePromoCode("save10")
		require.NoError(t, err)
		assert.Equal(t, 10.0, percent)
	})

	t.Run("UnknownCodeIsRejected", func(t *testing.T) {
		_, err := cartService.ValidatePromoCode("BOGUS")
		assert.ErrorIs(t, err, ErrInvalidPromoCode)
	})

	t.Run("EmptyCodeMeansNoPromo", func(t *testing.T) {
		percent, err := cartService.ValidatePromoCode("")
		require.NoError(t, err)
		assert.Equal(t, 0.0, percent)
	})
}
