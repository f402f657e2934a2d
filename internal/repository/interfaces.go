package repository

import (
	"context"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// ProductRepository defines catalog data operations
type ProductRepository interface {
	ListProducts(ctx context.Context, all bool) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

// StockRepository defines stock snapshot operations
type StockRepository interface {
	GetStock(ctx context.Context, productID int) (models.StockSnapshot, error)
	ReplaceStock(ctx context.Context, productID int, items []models.StockItem) (int64, error)
}

// CartRepository defines cart data operations
type CartRepository interface {
	ListCartLines(ctx context.Context, cartID string) ([]models.CartLine, error)
	FindCartLine(ctx context.Context, cartID string, productID int, size, color string) (*models.CartLine, error)
	InsertCartLine(ctx context.Context, line models.CartLine) (int64, error)
	UpdateCartLineQuantity(ctx context.Context, id, quantity, maxQuantity int) error
	DeleteCartLine(ctx context.Context, cartID string, id int) error
}

// PreorderRepository defines waitlist data operations
type PreorderRepository interface {
	FindPreorder(ctx context.Context, key PreorderKey) (*models.Preorder, error)
	CreatePreorder(ctx context.Context, key PreorderKey) (int64, error)
	DeletePreorder(ctx context.Context, id int) error
	ListPreorders(ctx context.Context, productID int) ([]models.Preorder, error)
}

// CustomerRepository defines customer account operations
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, email, passwordHash string) (int64, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetStoreStats(ctx context.Context) (map[string]interface{}, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ProductRepository
	StockRepository
	CartRepository
	PreorderRepository
	CustomerRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
