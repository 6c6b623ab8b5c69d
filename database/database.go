package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") && databaseURL != ":memory:" {
		databaseURL = databaseURL + "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; the pool must not grow
	// past one or each connection sees its own empty database.
	if strings.Contains(databaseURL, ":memory:") || strings.Contains(databaseURL, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			logrus.WithError(err).Warnf("failed to set pragma %s", pragma)
		}
	}

	logrus.Info("database connection established")
	return db, nil
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createRetailersTable,
		createProductsTable,
		createCartItemsTable,
		createOrdersTable,
		createOrderItemsTable,
		createPurchaseHistoryTable,
		createCoPurchasesTable,
		createPromoCodesTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createRetailersTable = `
CREATE TABLE IF NOT EXISTS retailers (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	shop_name TEXT NOT NULL,
	owner_name TEXT NOT NULL,
	region TEXT NOT NULL,
	categories TEXT NOT NULL DEFAULT '[]',
	weekly_streak INTEGER NOT NULL DEFAULT 0,
	monthly_streak INTEGER NOT NULL DEFAULT 0,
	total_spent REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	price REAL NOT NULL CHECK (price > 0),
	pack_size TEXT NOT NULL,
	stock INTEGER NOT NULL CHECK (stock >= 0),
	image_url TEXT NOT NULL DEFAULT '',
	distributor TEXT NOT NULL DEFAULT '',
	rating REAL NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
	moq INTEGER NOT NULL DEFAULT 1 CHECK (moq >= 1),
	tags TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createCartItemsTable = `
CREATE TABLE IF NOT EXISTS cart_items (
	id TEXT PRIMARY KEY,
	retailer_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 1),
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (retailer_id, product_id),
	FOREIGN KEY (retailer_id) REFERENCES retailers (id),
	FOREIGN KEY (product_id) REFERENCES products (id)
)`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	retailer_id TEXT NOT NULL,
	total_amount REAL NOT NULL,
	discount_applied REAL NOT NULL DEFAULT 0,
	delivery_fee REAL NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (retailer_id) REFERENCES retailers (id)
)`

const createOrderItemsTable = `
CREATE TABLE IF NOT EXISTS order_items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 1),
	price REAL NOT NULL,
	FOREIGN KEY (order_id) REFERENCES orders (id)
)`

const createPurchaseHistoryTable = `
CREATE TABLE IF NOT EXISTS purchase_history (
	product_id TEXT PRIMARY KEY,
	purchase_count INTEGER NOT NULL DEFAULT 0 CHECK (purchase_count >= 0),
	FOREIGN KEY (product_id) REFERENCES products (id)
)`

const createCoPurchasesTable = `
CREATE TABLE IF NOT EXISTS co_purchases (
	product_id TEXT NOT NULL,
	co_product_id TEXT NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY (product_id, co_product_id)
)`

const createPromoCodesTable = `
CREATE TABLE IF NOT EXISTS promo_codes (
	code TEXT PRIMARY KEY,
	percentage REAL NOT NULL CHECK (percentage > 0)
)`
