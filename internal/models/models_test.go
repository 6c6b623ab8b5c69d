package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetailerDiscountPercentage(t *testing.T) {
	t.Run("NoStreaks", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 0, MonthlyStreak: 0}
		assert.Equal(t, 0, r.DiscountPercentage())
		assert.False(t, r.HasActiveDiscount())
	})

	t.Run("WeeklyTierOnly", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 3, MonthlyStreak: 2}
		assert.Equal(t, 3, r.DiscountPercentage())
	})

	t.Run("MonthlyTierOnly", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 2, MonthlyStreak: 3}
		assert.Equal(t, 2, r.DiscountPercentage())
	})

	t.Run("BothTiersStack", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 3, MonthlyStreak: 3}
		assert.Equal(t, 5, r.DiscountPercentage())
		assert.True(t, r.HasActiveDiscount())
	})

	t.Run("ThresholdIsNotExceededEarly", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 2, MonthlyStreak: 2}
		assert.Equal(t, 0, r.DiscountPercentage())
	})

	t.Run("LongStreaksDoNotGrowFurther", func(t *testing.T) {
		r := Retailer{WeeklyStreak: 50, MonthlyStreak: 50}
		assert.Equal(t, 5, r.DiscountPercentage())
	})
}

func TestRetailerValidate(t *testing.T) {
	valid := Retailer{ID: "r-1", Email: "a@b.c", ShopName: "Shop"}
	assert.NoError(t, valid.Validate())

	t.Run("RejectsMissingID", func(t *testing.T) {
		r := valid
		r.ID = ""
		assert.Error(t, r.Validate())
	})

	t.Run("RejectsNegativeStreak", func(t *testing.T) {
		r := valid
		r.WeeklyStreak = -1
		assert.Error(t, r.Validate())
	})

	t.Run("RejectsNegativeSpend", func(t *testing.T) {
		r := valid
		r.TotalSpent = -0.01
		assert.Error(t, r.Validate())
	})
}

func TestProductModel(t *testing.T) {
	product := Product{
		ID:       "p-1",
		Name:     "Test Rice",
		Category: ProductCategoryGroceries,
		Price:    100,
		PackSize: "1kg",
		Stock:    10,
		Rating:   4.5,
		MOQ:      5,
	}

	t.Run("ValidProductPasses", func(t *testing.T) {
		assert.NoError(t, product.Validate())
	})

	t.Run("RejectsUnknownCategory", func(t *testing.T) {
		p := product
		p.Category = "Electronics"
		assert.Error(t, p.Validate())
		assert.False(t, p.HasValidCategory())
	})

	t.Run("StockBoundsInclusive", func(t *testing.T) {
		assert.True(t, product.IsInStock(10))
		assert.False(t, product.IsInStock(11))
	})

	t.Run("MOQBoundsInclusive", func(t *testing.T) {
		assert.True(t, product.CanOrder(5))
		assert.False(t, product.CanOrder(4))
	})

	t.Run("TagsRoundTrip", func(t *testing.T) {
		p := product
		p.Tags = []string{"rice", "staple"}

		encoded, err := p.GetTagsJSON()
		assert.NoError(t, err)

		var decoded Product
		assert.NoError(t, decoded.SetTagsFromJSON(encoded))
		assert.Equal(t, p.Tags, decoded.Tags)
	})
}

func TestCartTotals(t *testing.T) {
	item := CartItem{
		Quantity: 4,
		Product:  &Product{Price: 25},
	}
	assert.Equal(t, 100.0, item.GetTotalPrice())

	t.Run("NoProductMeansZero", func(t *testing.T) {
		bare := CartItem{Quantity: 4}
		assert.Equal(t, 0.0, bare.GetTotalPrice())
	})
}

func TestOrderModel(t *testing.T) {
	order := Order{
		Status: OrderStatusDelivered,
		Items: []OrderItem{
			{Quantity: 3, Price: 10},
			{Quantity: 2, Price: 5},
		},
	}

	assert.Equal(t, 5, order.GetTotalItems())
	assert.True(t, order.IsCompleted())

	pending := Order{Status: OrderStatusPending}
	assert.False(t, pending.IsCompleted())

	assert.Equal(t, 30.0, order.Items[0].GetTotalPrice())
}
