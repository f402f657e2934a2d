package services

import (
	"context"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

// CatalogServicer defines the interface for catalog operations
type CatalogServicer interface {
	ListProducts(ctx context.Context, all bool) ([]models.Product, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int) error
	ProductURL(ctx context.Context, slug string) (string, error)
	GenerateQRImage(ctx context.Context, slug string) ([]byte, error)
}

// StockServicer defines the interface for stock operations
type StockServicer interface {
	GetStock(ctx context.Context, productID int) (models.StockSnapshot, error)
	ReplaceStock(ctx context.Context, productID int, items []models.StockItem) (models.StockSnapshot, error)
	Availability(ctx context.Context, product models.Product, q AvailabilityQuery) (variant.View, error)
	SetBroadcaster(b Broadcaster)
}

// CartServicer defines the interface for cart operations
type CartServicer interface {
	AddItem(ctx context.Context, cartID string, entry models.CartEntry) (*models.Cart, error)
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID string, lineID int) (*models.Cart, error)
}

// PreorderServicer defines the interface for waitlist operations
type PreorderServicer interface {
	Toggle(ctx context.Context, productID int, id Identity) (*models.PreorderResult, error)
	IsMember(ctx context.Context, productID int, id Identity) (bool, error)
	List(ctx context.Context, productID int) ([]models.Preorder, error)
}

// AccountServicer defines the interface for customer accounts
type AccountServicer interface {
	Register(ctx context.Context, email, password string) (*models.Customer, error)
	Authenticate(ctx context.Context, email, password string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id int) (*models.Customer, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetStoreName(ctx context.Context) (string, error)
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetCheckoutPath(ctx context.Context) (string, error)
	CheckoutURL(ctx context.Context) (string, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	GetStats(ctx context.Context) (map[string]interface{}, error)
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ CatalogServicer  = (*CatalogService)(nil)
	_ StockServicer    = (*StockService)(nil)
	_ CartServicer     = (*CartService)(nil)
	_ PreorderServicer = (*PreorderService)(nil)
	_ AccountServicer  = (*AccountService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
)
