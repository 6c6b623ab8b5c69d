package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"buynestt-backend/database"
	"buynestt-backend/internal/models"
)

// newTestDB returns a migrated and seeded in-memory database
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))
	return db
}

// newTestRetailer registers a fresh retailer and returns it
func newTestRetailer(t *testing.T, retailerService *RetailerService, email string) *models.Retailer {
	t.Helper()

	retailer, err := retailerService.CreateRetailer(&models.RetailerRegistration{
		Email:     email,
		Password:  "Str0ngPass1",
		ShopName:  "Test Store",
		OwnerName: "Test Owner",
		Region:    "Test Region",
	})
	require.NoError(t, err)
	return retailer
}
