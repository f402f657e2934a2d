package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

var errBadCredentials = errors.Unauthorized("invalid email or password")

// AccountService handles customer registration and login
type AccountService struct {
	log  logger.Logger
	repo repository.CustomerRepository
	cost int
}

// NewAccountService creates a new AccountService
func NewAccountService(log logger.Logger, repo repository.CustomerRepository) *AccountService {
	return &AccountService{log: log, repo: repo, cost: bcrypt.DefaultCost}
}

// SetHashCost changes the bcrypt cost (tests use bcrypt.MinCost)
func (s *AccountService) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates a customer account
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, errors.Validationf("invalid email %q", email)
	}
	if len(password) < MinPasswordLength {
		return nil, errors.Validationf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "hash password")
	}

	id, err := s.repo.CreateCustomer(ctx, email, string(hash))
	if err == repository.ErrDuplicate {
		return nil, errors.Conflict("an account with this email already exists")
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("Customer registered", "customer_id", id)
	return s.repo.GetCustomer(ctx, int(id))
}

// Authenticate checks credentials and returns the customer
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	c, err := s.repo.GetCustomerByEmail(ctx, strings.TrimSpace(email))
	if err == repository.ErrNotFound {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("Login rejected", "customer_id", c.ID)
		return nil, errBadCredentials
	}
	return c, nil
}

// GetCustomer returns a customer by ID
func (s *AccountService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("customer %d not found", id)
	}
	return c, err
}
