package handlers

// ProductResponse is the response for product creation
type ProductResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// PreorderStatusResponse reports waitlist membership
type PreorderStatusResponse struct {
	Joined bool `json:"joined"`
}

// CheckoutResponse is where the shopper goes to pay
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SettingsResponse is the response for settings
type SettingsResponse struct {
	StoreName    string `json:"store_name"`
	BaseURL      string `json:"base_url"`
	CheckoutPath string `json:"checkout_path"`
}

// ResetResponse lists the tables a reset cleared
type ResetResponse struct {
	Message string   `json:"message"`
	Tables  []string `json:"tables"`
}
