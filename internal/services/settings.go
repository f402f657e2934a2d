package services

import (
	"context"
	"strings"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
)

// Setting keys
const (
	SettingStoreName    = "store_name"
	SettingBaseURL      = "base_url"
	SettingCheckoutPath = "checkout_path"
)

const (
	defaultStoreName    = "FitByte"
	defaultCheckoutPath = "/checkout"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// getOr returns a setting or fallback when it was never set
func (s *SettingsService) getOr(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return fallback, nil
		}
		return "", err // Propagate database errors
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// GetStoreName returns the storefront's display name
func (s *SettingsService) GetStoreName(ctx context.Context) (string, error) {
	return s.getOr(ctx, SettingStoreName, defaultStoreName)
}

// GetBaseURL returns the public base URL without a trailing slash
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.getOr(ctx, SettingBaseURL, "")
	return strings.TrimSuffix(value, "/"), err
}

// SetBaseURL saves the public base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, strings.TrimSuffix(url, "/"))
}

// GetCheckoutPath returns the path of the checkout page
func (s *SettingsService) GetCheckoutPath(ctx context.Context) (string, error) {
	path, err := s.getOr(ctx, SettingCheckoutPath, defaultCheckoutPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

// CheckoutURL is the absolute checkout link handed to clients
func (s *SettingsService) CheckoutURL(ctx context.Context) (string, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", ErrBaseURLNotSet
	}
	path, err := s.GetCheckoutPath(ctx)
	if err != nil {
		return "", err
	}
	return baseURL + path, nil
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// AllSettings returns the storefront settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	storeName, err := s.GetStoreName(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingStoreName] = storeName

	baseURL, _ := s.GetBaseURL(ctx)
	settings[SettingBaseURL] = baseURL

	checkoutPath, _ := s.GetCheckoutPath(ctx)
	settings[SettingCheckoutPath] = checkoutPath

	return settings, nil
}

// Settings represents application settings for update operations. Empty
// fields are left unchanged.
type Settings struct {
	StoreName    string
	BaseURL      string
	CheckoutPath string
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.StoreName != "" {
		if err := s.SetSetting(ctx, SettingStoreName, strings.TrimSpace(settings.StoreName)); err != nil {
			return err
		}
	}
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.CheckoutPath != "" {
		if err := s.SetSetting(ctx, SettingCheckoutPath, settings.CheckoutPath); err != nil {
			return err
		}
	}
	s.log.Info("Settings updated")
	return nil
}

// GetStats returns counts for the admin dashboard
func (s *SettingsService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetStoreStats(ctx)
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string
	Message string
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"cart_items": true, "preorders": true, "stock_items": true, "products": true, "customers": true,
}

// dependents lists tables whose rows reference the key table
var dependents = map[string][]string{
	"products":  {"cart_items", "preorders", "stock_items"},
	"customers": {"preorders"},
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		if !containsTable(tablesToReset, table) {
			tablesToReset = append(tablesToReset, table)
		}
	}

	// Clear dependent tables first so no row is left pointing at a deleted one
	var ordered []string
	for _, table := range tablesToReset {
		for _, dep := range dependents[table] {
			if !containsTable(ordered, dep) {
				ordered = append(ordered, dep)
			}
		}
	}
	for _, table := range tablesToReset {
		if !containsTable(ordered, table) {
			ordered = append(ordered, table)
		}
	}

	for _, table := range ordered {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}
	s.log.Warn("Tables reset", "tables", ordered)

	return &ResetTablesResult{
		Tables:  ordered,
		Message: "Successfully deleted data from tables",
	}, nil
}

func containsTable(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
