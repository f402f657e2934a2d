package services

import (
	"context"
	"strings"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
)

// Preorder result messages
const (
	msgPreorderAdded   = "You're on the waitlist. We'll let you know when it's back."
	msgPreorderAlready = "You are already on the waitlist"
	msgPreorderRemoved = "You have left the waitlist"
)

// Identity is who a waitlist request is for. A logged-in customer wins over
// an email, which wins over a guest id.
type Identity struct {
	CustomerID int
	Email      string
	GuestID    string
}

func (id Identity) key(productID int) (repository.PreorderKey, error) {
	key := repository.PreorderKey{ProductID: productID}
	email := strings.TrimSpace(id.Email)
	switch {
	case id.CustomerID != 0:
		key.CustomerID = id.CustomerID
	case email != "":
		if !strings.Contains(email, "@") {
			return key, errors.Validationf("invalid email %q", email)
		}
		key.Email = strings.ToLower(email)
	case strings.TrimSpace(id.GuestID) != "":
		key.GuestID = strings.TrimSpace(id.GuestID)
	default:
		return key, errors.Validation(ErrMissingIdentity.Message)
	}
	return key, nil
}

// PreorderService handles waitlist business logic
type PreorderService struct {
	log  logger.Logger
	repo repository.FullRepository
}

// NewPreorderService creates a new PreorderService
func NewPreorderService(log logger.Logger, repo repository.FullRepository) *PreorderService {
	return &PreorderService{log: log, repo: repo}
}

func (s *PreorderService) requireProduct(ctx context.Context, productID int) error {
	if productID <= 0 {
		return errors.Validation("product_id is required")
	}
	_, err := s.repo.GetProduct(ctx, productID)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("product %d not found", productID)
	}
	return err
}

// Toggle applies a waitlist toggle. A logged-in customer leaves when already a
// member and joins otherwise. An email or guest identity only ever joins.
func (s *PreorderService) Toggle(ctx context.Context, productID int, id Identity) (*models.PreorderResult, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	key, err := id.key(productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindPreorder(ctx, key)
	switch {
	case err == nil:
		if key.CustomerID == 0 {
			return &models.PreorderResult{Status: models.PreorderAlreadyJoined, Message: msgPreorderAlready}, nil
		}
		if err := s.repo.DeletePreorder(ctx, existing.ID); err != nil {
			return nil, err
		}
		s.log.Info("Left waitlist", "product_id", productID, "customer_id", key.CustomerID)
		return &models.PreorderResult{Status: models.PreorderRemoved, Message: msgPreorderRemoved}, nil
	case err != repository.ErrNotFound:
		return nil, err
	}

	if _, err := s.repo.CreatePreorder(ctx, key); err != nil {
		if err == repository.ErrDuplicate {
			// A concurrent request joined first
			return &models.PreorderResult{Status: models.PreorderAlreadyJoined, Message: msgPreorderAlready}, nil
		}
		return nil, err
	}
	s.log.Info("Joined waitlist", "product_id", productID, "customer_id", key.CustomerID, "guest", key.GuestID != "")
	return &models.PreorderResult{Status: models.PreorderAdded, Message: msgPreorderAdded}, nil
}

// IsMember reports whether the identity is on the product's waitlist
func (s *PreorderService) IsMember(ctx context.Context, productID int, id Identity) (bool, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return false, err
	}
	key, err := id.key(productID)
	if err != nil {
		return false, err
	}
	_, err = s.repo.FindPreorder(ctx, key)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// List returns the memberships of a product, or all when productID is 0
func (s *PreorderService) List(ctx context.Context, productID int) ([]models.Preorder, error) {
	return s.repo.ListPreorders(ctx, productID)
}
