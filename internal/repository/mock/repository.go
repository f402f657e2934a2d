package mock

import (
	"context"
	"sync/atomic"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ReplaceStockError = errors.New("database error")
//	svc := services.NewStockService(log, mockRepo)
//	_, err := svc.ReplaceStock(ctx, 1, items)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Product Errors =====
	ListProductsError     error
	SearchProductsError   error
	GetProductError       error
	GetProductBySlugError error
	CreateProductError    error
	UpdateProductError    error
	DeleteProductError    error

	// ===== Stock Errors =====
	GetStockError     error
	ReplaceStockError error

	// ===== Cart Errors =====
	ListCartLinesError          error
	FindCartLineError           error
	InsertCartLineError         error
	UpdateCartLineQuantityError error
	DeleteCartLineError         error

	// ===== Preorder Errors =====
	FindPreorderError   error
	CreatePreorderError error
	DeletePreorderError error
	ListPreordersError  error

	// ===== Customer Errors =====
	CreateCustomerError     error
	GetCustomerError        error
	GetCustomerByEmailError error

	// ===== Settings Errors =====
	GetSettingError    error
	SetSettingError    error
	GetStoreStatsError error
	ClearTableError    error

	// GetStockCalls counts GetStock calls that reached the real repository
	GetStockCalls atomic.Int32
	// GetStockHook, when set, runs before each GetStock reaches the real repository
	GetStockHook func()
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Product Methods =====

func (m *Repository) ListProducts(ctx context.Context, all bool) ([]models.Product, error) {
	if m.ListProductsError != nil {
		return nil, m.ListProductsError
	}
	return m.FullRepository.ListProducts(ctx, all)
}

func (m *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if m.SearchProductsError != nil {
		return nil, m.SearchProductsError
	}
	return m.FullRepository.SearchProducts(ctx, query, limit)
}

func (m *Repository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	if m.GetProductError != nil {
		return nil, m.GetProductError
	}
	return m.FullRepository.GetProduct(ctx, id)
}

func (m *Repository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.GetProductBySlugError != nil {
		return nil, m.GetProductBySlugError
	}
	return m.FullRepository.GetProductBySlug(ctx, slug)
}

func (m *Repository) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	if m.CreateProductError != nil {
		return 0, m.CreateProductError
	}
	return m.FullRepository.CreateProduct(ctx, p)
}

func (m *Repository) UpdateProduct(ctx context.Context, p models.Product) error {
	if m.UpdateProductError != nil {
		return m.UpdateProductError
	}
	return m.FullRepository.UpdateProduct(ctx, p)
}

func (m *Repository) DeleteProduct(ctx context.Context, id int) error {
	if m.DeleteProductError != nil {
		return m.DeleteProductError
	}
	return m.FullRepository.DeleteProduct(ctx, id)
}

// ===== Stock Methods =====

func (m *Repository) GetStock(ctx context.Context, productID int) (models.StockSnapshot, error) {
	if m.GetStockError != nil {
		return models.StockSnapshot{}, m.GetStockError
	}
	if m.GetStockHook != nil {
		m.GetStockHook()
	}
	m.GetStockCalls.Add(1)
	return m.FullRepository.GetStock(ctx, productID)
}

func (m *Repository) ReplaceStock(ctx context.Context, productID int, items []models.StockItem) (int64, error) {
	if m.ReplaceStockError != nil {
		return 0, m.ReplaceStockError
	}
	return m.FullRepository.ReplaceStock(ctx, productID, items)
}

// ===== Cart Methods =====

func (m *Repository) ListCartLines(ctx context.Context, cartID string) ([]models.CartLine, error) {
	if m.ListCartLinesError != nil {
		return nil, m.ListCartLinesError
	}
	return m.FullRepository.ListCartLines(ctx, cartID)
}

func (m *Repository) FindCartLine(ctx context.Context, cartID string, productID int, size, color string) (*models.CartLine, error) {
	if m.FindCartLineError != nil {
		return nil, m.FindCartLineError
	}
	return m.FullRepository.FindCartLine(ctx, cartID, productID, size, color)
}

func (m *Repository) InsertCartLine(ctx context.Context, line models.CartLine) (int64, error) {
	if m.InsertCartLineError != nil {
		return 0, m.InsertCartLineError
	}
	return m.FullRepository.InsertCartLine(ctx, line)
}

func (m *Repository) UpdateCartLineQuantity(ctx context.Context, id, quantity, maxQuantity int) error {
	if m.UpdateCartLineQuantityError != nil {
		return m.UpdateCartLineQuantityError
	}
	return m.FullRepository.UpdateCartLineQuantity(ctx, id, quantity, maxQuantity)
}

func (m *Repository) DeleteCartLine(ctx context.Context, cartID string, id int) error {
	if m.DeleteCartLineError != nil {
		return m.DeleteCartLineError
	}
	return m.FullRepository.DeleteCartLine(ctx, cartID, id)
}

// ===== Preorder Methods =====

func (m *Repository) FindPreorder(ctx context.Context, key repository.PreorderKey) (*models.Preorder, error) {
	if m.FindPreorderError != nil {
		return nil, m.FindPreorderError
	}
	return m.FullRepository.FindPreorder(ctx, key)
}

func (m *Repository) CreatePreorder(ctx context.Context, key repository.PreorderKey) (int64, error) {
	if m.CreatePreorderError != nil {
		return 0, m.CreatePreorderError
	}
	return m.FullRepository.CreatePreorder(ctx, key)
}

func (m *Repository) DeletePreorder(ctx context.Context, id int) error {
	if m.DeletePreorderError != nil {
		return m.DeletePreorderError
	}
	return m.FullRepository.DeletePreorder(ctx, id)
}

func (m *Repository) ListPreorders(ctx context.Context, productID int) ([]models.Preorder, error) {
	if m.ListPreordersError != nil {
		return nil, m.ListPreordersError
	}
	return m.FullRepository.ListPreorders(ctx, productID)
}

// ===== Customer Methods =====

func (m *Repository) CreateCustomer(ctx context.Context, email, passwordHash string) (int64, error) {
	if m.CreateCustomerError != nil {
		return 0, m.CreateCustomerError
	}
	return m.FullRepository.CreateCustomer(ctx, email, passwordHash)
}

func (m *Repository) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	if m.GetCustomerError != nil {
		return nil, m.GetCustomerError
	}
	return m.FullRepository.GetCustomer(ctx, id)
}

func (m *Repository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if m.GetCustomerByEmailError != nil {
		return nil, m.GetCustomerByEmailError
	}
	return m.FullRepository.GetCustomerByEmail(ctx, email)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetStoreStats(ctx context.Context) (map[string]interface{}, error) {
	if m.GetStoreStatsError != nil {
		return nil, m.GetStoreStatsError
	}
	return m.FullRepository.GetStoreStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
