package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/auth"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// StockHub serves the live stock socket of a product
type StockHub interface {
	ServeWs(w http.ResponseWriter, r *http.Request, productID int)
}

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
	StoreName string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index      *template.Template
	Product    *template.Template
	AdminLogin *template.Template
	AdminStock *template.Template
}

// Services groups the business services the handlers call
type Services struct {
	Catalog  services.CatalogServicer
	Stock    services.StockServicer
	Cart     services.CartServicer
	Preorder services.PreorderServicer
	Account  services.AccountServicer
	Settings services.SettingsServicer
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Catalog      services.CatalogServicer
	Stock        services.StockServicer
	Cart         services.CartServicer
	Preorder     services.PreorderServicer
	Account      services.AccountServicer
	Settings     services.SettingsServicer
	Auth         *auth.Auth
	Customers    *auth.Customers
	Hub          StockHub
	Log          logger.Logger
	templates    *Templates
	staticServer http.Handler
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	customers *auth.Customers,
	hub StockHub,
	log logger.Logger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := newHandlers(svc, adminAuth, customers, log)
	h.Hub = hub
	h.templates = templates
	h.staticServer = staticServer
	return h, nil
}

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(svc Services) *Handlers {
	// Create a test auth with a known password
	return newHandlers(svc, auth.New("test-password"), auth.NewCustomers(), logger.Nop())
}

func newHandlers(svc Services, adminAuth *auth.Auth, customers *auth.Customers, log logger.Logger) *Handlers {
	return &Handlers{
		Catalog:   svc.Catalog,
		Stock:     svc.Stock,
		Cart:      svc.Cart,
		Preorder:  svc.Preorder,
		Account:   svc.Account,
		Settings:  svc.Settings,
		Auth:      adminAuth,
		Customers: customers,
		Log:       log,
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Product, err = template.ParseFS(templatesFS, "product.html"); err != nil {
		return nil, fmt.Errorf("product template: %w", err)
	}
	if t.AdminLogin, err = template.ParseFS(templatesFS, "admin/login.html"); err != nil {
		return nil, fmt.Errorf("admin login template: %w", err)
	}
	if t.AdminStock, err = template.ParseFS(templatesFS, "admin/layout.html", "admin/stock.html"); err != nil {
		return nil, fmt.Errorf("admin stock template: %w", err)
	}

	return t, nil
}
