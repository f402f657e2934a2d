package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

// SearchLimit caps the number of search results
const SearchLimit = 20

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CatalogService handles product catalog business logic
type CatalogService struct {
	log      logger.Logger
	repo     repository.ProductRepository
	settings SettingsServicer
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(log logger.Logger, repo repository.ProductRepository, settings SettingsServicer) *CatalogService {
	return &CatalogService{log: log, repo: repo, settings: settings}
}

// ListProducts returns active products, or every product when all is set
func (s *CatalogService) ListProducts(ctx context.Context, all bool) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, all)
}

// GetProduct returns an active product by slug
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repo.GetProductBySlug(ctx, slug)
	if err == repository.ErrNotFound || (err == nil && !p.Active) {
		return nil, errors.NotFoundf("product %q not found", slug)
	}
	return p, err
}

// GetProductByID returns a product by ID, active or not
func (s *CatalogService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("product %d not found", id)
	}
	return p, err
}

// Search finds active products by name or description. A blank query finds nothing.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	return s.repo.SearchProducts(ctx, query, SearchLimit)
}

// normalizeProduct trims fields and normalizes the declared option lists
func normalizeProduct(p models.Product) (models.Product, error) {
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, errors.Validation("product name is required")
	}
	if !slugPattern.MatchString(p.Slug) {
		return p, errors.Validationf("invalid slug %q: use lowercase letters, digits and dashes", p.Slug)
	}
	if p.Price < 0 {
		return p, errors.Validation("price cannot be negative")
	}

	var sizes []string
	for _, size := range p.Sizes {
		if size = strings.TrimSpace(size); size != "" {
			sizes = append(sizes, size)
		}
	}
	p.Sizes = nil
	if len(sizes) > 0 {
		p.Sizes = variant.SortSizes(sizes)
	}

	var colors []string
	seen := make(map[string]bool)
	for _, color := range p.Colors {
		c := variant.NormalizeColor(color)
		if c != "" && !seen[c] {
			seen[c] = true
			colors = append(colors, c)
		}
	}
	p.Colors = colors
	return p, nil
}

// CreateProduct validates and stores a new product
func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	p, err := normalizeProduct(p)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateProduct(ctx, p)
	if err == repository.ErrDuplicate {
		return 0, errors.Conflictf("slug %q is already in use", p.Slug)
	}
	if err != nil {
		return 0, err
	}
	s.log.Info("Product created", "id", id, "slug", p.Slug)
	return id, nil
}

// UpdateProduct validates and replaces a product
func (s *CatalogService) UpdateProduct(ctx context.Context, p models.Product) error {
	p, err := normalizeProduct(p)
	if err != nil {
		return err
	}
	err = s.repo.UpdateProduct(ctx, p)
	switch err {
	case nil:
		s.log.Info("Product updated", "id", p.ID, "slug", p.Slug)
		return nil
	case repository.ErrNotFound:
		return errors.NotFoundf("product %d not found", p.ID)
	case repository.ErrDuplicate:
		return errors.Conflictf("slug %q is already in use", p.Slug)
	default:
		return err
	}
}

// DeleteProduct removes a product with its stock, cart lines and waitlist
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	err := s.repo.DeleteProduct(ctx, id)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("product %d not found", id)
	}
	if err == nil {
		s.log.Info("Product deleted", "id", id)
	}
	return err
}

// ProductURL is the shareable link to a product page
func (s *CatalogService) ProductURL(ctx context.Context, slug string) (string, error) {
	if _, err := s.GetProduct(ctx, slug); err != nil {
		return "", err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", ErrBaseURLNotSet
	}
	return fmt.Sprintf("%s/products/%s", baseURL, slug), nil
}

// GenerateQRImage renders a PNG QR code linking to a product page
func (s *CatalogService) GenerateQRImage(ctx context.Context, slug string) ([]byte, error) {
	link, err := s.ProductURL(ctx, slug)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, 256)
}
