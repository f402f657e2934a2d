package handlers

import "github.com/rjsanjaymandal/fitByte-sub000/internal/models"

// ProductRequest represents a request to create or update a product
type ProductRequest struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	CategoryID  int      `json:"category_id"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Active      *bool    `json:"active"`
}

// product converts the request; Active defaults to true
func (req ProductRequest) product(id int) models.Product {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Product{
		ID:          id,
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Active:      active,
	}
}

// StockReplaceRequest represents a full stock snapshot upload
type StockReplaceRequest struct {
	Items []models.StockItem `json:"items"`
}

// AddCartItemRequest represents a cart add from a product page
type AddCartItemRequest struct {
	models.CartEntry
	Options models.AddOptions `json:"options"`
}

// PreorderToggleRequest represents a waitlist toggle
type PreorderToggleRequest struct {
	ProductID int    `json:"product_id"`
	Email     string `json:"email"`
	GuestID   string `json:"guest_id"`
}

// CredentialsRequest represents a customer login or registration
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	StoreName    string `json:"store_name"`
	BaseURL      string `json:"base_url"`
	CheckoutPath string `json:"checkout_path"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
