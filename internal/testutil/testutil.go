package testutil

import (
	"context"
	"testing"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// SeedProduct inserts a product with its stock and returns it with the assigned ID.
func SeedProduct(t *testing.T, repo repository.FullRepository, p models.Product, stock []models.StockItem) models.Product {
	t.Helper()
	ctx := context.Background()

	id, err := repo.CreateProduct(ctx, p)
	if err != nil {
		t.Fatalf("failed to seed product %q: %v", p.Slug, err)
	}
	p.ID = int(id)

	if stock != nil {
		if _, err := repo.ReplaceStock(ctx, p.ID, stock); err != nil {
			t.Fatalf("failed to seed stock for %q: %v", p.Slug, err)
		}
	}
	return p
}
