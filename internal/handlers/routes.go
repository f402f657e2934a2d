package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(h.Customers.Identify)

	// The stock socket is long-lived, so it sits outside the request timeout
	if h.Hub != nil {
		r.Get("/ws/stock/{productID}", h.handleStockSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Static files (served from embedded filesystem)
		if h.staticServer != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		}

		// Storefront pages (public)
		r.Get("/", h.handleIndex)
		r.Get("/products/{slug}", h.handleProductPage)

		// Catalog API (public)
		r.Get("/api/products", h.handleListProducts)
		r.Get("/api/products/{slug}", h.handleGetProduct)
		r.Get("/api/products/{slug}/availability", h.handleAvailability)
		r.Get("/api/products/{slug}/qr", h.handleProductQR)
		r.Get("/api/search", h.handleSearch)
		r.Get("/api/stock/{productID}", h.handleGetStock)

		// Cart API (public, cookie identified)
		r.Get("/api/cart", h.handleGetCart)
		r.Post("/api/cart/items", h.handleAddCartItem)
		r.Delete("/api/cart/items/{id}", h.handleRemoveCartItem)
		r.Get("/api/checkout", h.handleCheckout)

		// Waitlist API (public)
		r.Post("/api/preorders/toggle", h.handleTogglePreorder)
		r.Get("/api/preorders/status", h.handlePreorderStatus)

		// Customer accounts
		r.Post("/api/account/register", h.handleRegister)
		r.Post("/api/account/login", h.handleCustomerLogin)
		r.Post("/api/account/logout", h.handleCustomerLogout)
		r.With(h.Customers.RequireCustomer).Get("/api/account/me", h.handleMe)

		// Auth routes (public)
		r.Get("/admin/login", h.handleLoginPage)
		r.Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)

		// Admin pages (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuth)
			r.Get("/admin", h.handleAdminStock)
		})

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Catalog
			r.Get("/api/admin/products", h.handleAdminListProducts)
			r.Post("/api/admin/products", h.handleCreateProduct)
			r.Put("/api/admin/products/{id}", h.handleUpdateProduct)
			r.Delete("/api/admin/products/{id}", h.handleDeleteProduct)

			// Stock
			r.Put("/api/admin/stock/{productID}", h.handleReplaceStock)

			// Waitlist
			r.Get("/api/admin/preorders", h.handleListPreorders)

			// Settings & Stats
			r.Get("/api/admin/settings", h.handleGetSettings)
			r.Put("/api/admin/settings", h.handleUpdateSettings)
			r.Get("/api/admin/stats", h.handleGetStats)

			// Database Management
			r.Post("/api/admin/reset-database", h.handleResetDatabase)
		})
	})

	return r
}
