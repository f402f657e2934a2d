package services

import (
	"context"
	"strings"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

// CartService handles cart business logic. Every add is checked against the
// stock at the time of the add, not the stock the client last saw.
type CartService struct {
	log   logger.Logger
	repo  repository.FullRepository
	stock StockServicer
}

// NewCartService creates a new CartService
func NewCartService(log logger.Logger, repo repository.FullRepository, stock StockServicer) *CartService {
	return &CartService{log: log, repo: repo, stock: stock}
}

// AddItem adds an entry to a cart. The quantity is capped at current stock
// and merged with an existing line for the same variant.
func (s *CartService) AddItem(ctx context.Context, cartID string, entry models.CartEntry) (*models.Cart, error) {
	if cartID == "" {
		return nil, errors.InvalidInput("cart id is required")
	}
	entry.Size = strings.TrimSpace(entry.Size)
	entry.Color = variant.NormalizeColor(entry.Color)

	var missing []string
	if entry.Size == "" {
		missing = append(missing, "size")
	}
	if entry.Color == "" {
		missing = append(missing, "color")
	}
	if len(missing) > 0 {
		return nil, errors.IncompleteSelection(missing...)
	}
	if entry.Quantity < 1 {
		return nil, errors.Validation("quantity must be at least 1")
	}

	product, err := s.repo.GetProduct(ctx, entry.ProductID)
	if err == repository.ErrNotFound || (err == nil && !product.Active) {
		return nil, errors.NotFoundf("product %d not found", entry.ProductID)
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := s.stock.GetStock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	available := variant.NewStockMap(snapshot.Items).Get(entry.Size, entry.Color)
	if available <= 0 {
		return nil, errors.OutOfStock(entry.Size, entry.Color)
	}

	existing, err := s.repo.FindCartLine(ctx, cartID, product.ID, entry.Size, entry.Color)
	switch {
	case err == nil:
		quantity := variant.ClampQuantity(existing.Quantity+entry.Quantity, available)
		if err := s.repo.UpdateCartLineQuantity(ctx, existing.ID, quantity, available); err != nil {
			return nil, err
		}
		s.log.Info("Cart line updated", "cart", cartID, "product_id", product.ID, "quantity", quantity)
	case err == repository.ErrNotFound:
		line := models.CartLine{
			CartID:      cartID,
			ProductID:   product.ID,
			Slug:        product.Slug,
			Size:        entry.Size,
			Color:       entry.Color,
			Quantity:    variant.ClampQuantity(entry.Quantity, available),
			MaxQuantity: available,
			Price:       product.Price,
			Image:       product.Image,
			CategoryID:  product.CategoryID,
		}
		if _, err := s.repo.InsertCartLine(ctx, line); err != nil {
			return nil, err
		}
		s.log.Info("Cart line added", "cart", cartID, "product_id", product.ID, "quantity", line.Quantity)
	default:
		return nil, err
	}

	return s.GetCart(ctx, cartID)
}

// GetCart returns a cart with its total. An unknown cart is empty.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	lines, err := s.repo.ListCartLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart := &models.Cart{ID: cartID, Lines: lines}
	for _, line := range lines {
		cart.Total += line.Price * line.Quantity
	}
	return cart, nil
}

// RemoveItem deletes a line from a cart
func (s *CartService) RemoveItem(ctx context.Context, cartID string, lineID int) (*models.Cart, error) {
	err := s.repo.DeleteCartLine(ctx, cartID, lineID)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("cart line %d not found", lineID)
	}
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, cartID)
}
