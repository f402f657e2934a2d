package services

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

// Broadcaster pushes stock snapshots to connected clients
type Broadcaster interface {
	BroadcastStock(snapshot models.StockSnapshot)
}

// StockService owns the stock snapshots. Concurrent reads of the same product
// share one database query.
type StockService struct {
	log         logger.Logger
	repo        repository.FullRepository
	broadcaster Broadcaster
	reads       singleflight.Group
}

// NewStockService creates a new StockService
func NewStockService(log logger.Logger, repo repository.FullRepository) *StockService {
	return &StockService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending snapshots to clients
func (s *StockService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// GetStock returns the current snapshot of a product
func (s *StockService) GetStock(ctx context.Context, productID int) (models.StockSnapshot, error) {
	v, err, shared := s.reads.Do(strconv.Itoa(productID), func() (interface{}, error) {
		if _, err := s.repo.GetProduct(ctx, productID); err != nil {
			if err == repository.ErrNotFound {
				return nil, errors.NotFoundf("product %d not found", productID)
			}
			return nil, err
		}
		return s.repo.GetStock(ctx, productID)
	})
	if err != nil {
		return models.StockSnapshot{}, err
	}
	if shared {
		s.log.Debug("Stock read coalesced", "product_id", productID)
	}

	// Callers sharing a read must not share the backing array
	snapshot := v.(models.StockSnapshot)
	snapshot.Items = append([]models.StockItem(nil), snapshot.Items...)
	return snapshot, nil
}

// ReplaceStock validates and stores a new snapshot, then broadcasts it
func (s *StockService) ReplaceStock(ctx context.Context, productID int, items []models.StockItem) (models.StockSnapshot, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		if err == repository.ErrNotFound {
			return models.StockSnapshot{}, errors.NotFoundf("product %d not found", productID)
		}
		return models.StockSnapshot{}, err
	}

	cleaned := make([]models.StockItem, 0, len(items))
	for i, item := range items {
		if item.Quantity < 0 {
			return models.StockSnapshot{}, errors.Validationf("item %d: quantity cannot be negative", i)
		}
		cleaned = append(cleaned, models.StockItem{
			Size:     strings.TrimSpace(item.Size),
			Color:    variant.NormalizeColor(item.Color),
			Quantity: item.Quantity,
		})
	}

	version, err := s.repo.ReplaceStock(ctx, productID, cleaned)
	if err != nil {
		return models.StockSnapshot{}, err
	}
	// A read that started before the write must not be handed to later callers
	s.reads.Forget(strconv.Itoa(productID))

	snapshot := models.StockSnapshot{ProductID: productID, Version: version, Items: cleaned}
	s.log.Info("Stock replaced", "product_id", productID, "version", version, "rows", len(cleaned), "total", variant.NewStockMap(cleaned).Total())
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStock(snapshot)
	}
	return snapshot, nil
}

// AvailabilityQuery is a selection to evaluate against current stock
type AvailabilityQuery struct {
	Size     string
	Color    string
	Quantity int
}

// Availability evaluates a selection against a product's current stock
func (s *StockService) Availability(ctx context.Context, product models.Product, q AvailabilityQuery) (variant.View, error) {
	snapshot, err := s.GetStock(ctx, product.ID)
	if err != nil {
		return variant.View{}, err
	}

	r := variant.New(product, variant.WithSelection(models.Selection{
		Size:  strings.TrimSpace(q.Size),
		Color: variant.NormalizeColor(q.Color),
	}))
	r.ApplyStock(snapshot.Items)
	// Clamp against the loaded snapshot, not the empty one New starts from
	r.SetQuantity(q.Quantity)
	return r.View(), nil
}
