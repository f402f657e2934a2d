package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/repository/mock"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/services"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/testutil"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
)

type recordingBroadcaster struct {
	mu        sync.Mutex
	snapshots []models.StockSnapshot
}

func (b *recordingBroadcaster) BroadcastStock(s models.StockSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, s)
}

var teeProduct = models.Product{
	Slug: "core-tee", Name: "Core Tee", Price: 2500, Active: true,
	Sizes: []string{"S", "M"}, Colors: []string{"Red", "Blue"},
}

func TestStockService_GetStock(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewStockService(logger.Nop(), repo)
	ctx := context.Background()

	p := testutil.SeedProduct(t, repo, teeProduct, []models.StockItem{{Size: "M", Color: "Red", Quantity: 2}})

	snap, err := svc.GetStock(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	want := models.StockSnapshot{ProductID: p.ID, Version: 1, Items: []models.StockItem{{Size: "M", Color: "Red", Quantity: 2}}}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}

	if _, err := svc.GetStock(ctx, 999); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStockService_ConcurrentReadsShareOneQuery(t *testing.T) {
	real := testutil.NewTestRepository(t)
	p := testutil.SeedProduct(t, real, teeProduct, []models.StockItem{{Size: "M", Color: "Red", Quantity: 2}})

	repo := mock.NewRepository(real)
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	repo.GetStockHook = func() {
		entered <- struct{}{}
		<-release
	}
	svc := services.NewStockService(logger.Nop(), repo)

	const readers = 5
	var wg sync.WaitGroup
	results := make([]models.StockSnapshot, readers)
	read := func(i int) {
		defer wg.Done()
		snap, err := svc.GetStock(context.Background(), p.ID)
		if err != nil {
			t.Errorf("reader %d: %v", i, err)
		}
		results[i] = snap
	}

	wg.Add(readers)
	go read(0)
	<-entered
	for i := 1; i < readers; i++ {
		go read(i)
	}
	// Give the other readers time to join the in-flight read.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := repo.GetStockCalls.Load(); n != 1 {
		t.Errorf("expected one database read, got %d", n)
	}
	for i, snap := range results {
		if len(snap.Items) != 1 || snap.Items[0].Quantity != 2 {
			t.Errorf("reader %d got %+v", i, snap)
		}
	}

	// Mutating one result must not leak into another.
	results[0].Items[0].Quantity = 99
	if results[1].Items[0].Quantity != 2 {
		t.Error("readers share a backing array")
	}
}

func TestStockService_ReplaceStock(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewStockService(logger.Nop(), repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()
	p := testutil.SeedProduct(t, repo, teeProduct, nil)

	snap, err := svc.ReplaceStock(ctx, p.ID, []models.StockItem{
		{Size: " M ", Color: "navy-blue", Quantity: 3},
		{Size: "S", Color: "", Quantity: 0},
	})
	if err != nil {
		t.Fatalf("ReplaceStock failed: %v", err)
	}

	want := []models.StockItem{
		{Size: "M", Color: "Navy Blue", Quantity: 3},
		{Size: "S", Color: "", Quantity: 0},
	}
	if diff := cmp.Diff(want, snap.Items); diff != "" {
		t.Errorf("stored items (-want +got):\n%s", diff)
	}
	if len(b.snapshots) != 1 || b.snapshots[0].ProductID != p.ID || b.snapshots[0].Version != 1 {
		t.Errorf("expected one broadcast of version 1, got %+v", b.snapshots)
	}

	got, _ := svc.GetStock(ctx, p.ID)
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("read after write (-want +got):\n%s", diff)
	}

	again, _ := svc.ReplaceStock(ctx, p.ID, want)
	if again.Version != 2 || len(b.snapshots) != 2 || b.snapshots[1].Version != 2 {
		t.Errorf("expected the next replacement to be version 2, got %d", again.Version)
	}
}

func TestStockService_ReplaceStockErrors(t *testing.T) {
	real := testutil.NewTestRepository(t)
	p := testutil.SeedProduct(t, real, teeProduct, nil)
	repo := mock.NewRepository(real)
	svc := services.NewStockService(logger.Nop(), repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	_, err := svc.ReplaceStock(ctx, p.ID, []models.StockItem{{Size: "M", Color: "Red", Quantity: -1}})
	if !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.ReplaceStock(ctx, 999, nil); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	repo.ReplaceStockError = errors.New("database is locked")
	if _, err := svc.ReplaceStock(ctx, p.ID, nil); err == nil {
		t.Error("expected database error")
	}
	if len(b.snapshots) != 0 {
		t.Errorf("expected no broadcast on failure, got %d", len(b.snapshots))
	}
}

func TestStockService_Availability(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewStockService(logger.Nop(), repo)
	ctx := context.Background()
	p := testutil.SeedProduct(t, repo, teeProduct, []models.StockItem{
		{Size: "M", Color: "Red", Quantity: 3},
		{Size: "S", Color: "Blue", Quantity: 1},
	})

	tests := []struct {
		name     string
		query    services.AvailabilityQuery
		quantity int
		stock    int
		sizeM    bool
		oos      bool
	}{
		{"nothing chosen", services.AvailabilityQuery{}, 1, 0, true, false},
		{"quantity clamped to stock", services.AvailabilityQuery{Size: "M", Color: "red", Quantity: 10}, 3, 3, true, false},
		{"sold out pair", services.AvailabilityQuery{Size: "M", Color: "Blue", Quantity: 2}, 1, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Availability(ctx, p, tt.query)
			if err != nil {
				t.Fatalf("Availability failed: %v", err)
			}
			if view.Selection.Quantity != tt.quantity || view.StockForSelection != tt.stock {
				t.Errorf("quantity=%d stock=%d, want %d/%d", view.Selection.Quantity, view.StockForSelection, tt.quantity, tt.stock)
			}
			if view.SelectionOutOfStock != tt.oos {
				t.Errorf("selection out of stock = %v, want %v", view.SelectionOutOfStock, tt.oos)
			}
			var sizeM variant.OptionState
			for _, s := range view.Sizes {
				if s.Value == "M" {
					sizeM = s
				}
			}
			if sizeM.Available != tt.sizeM {
				t.Errorf("size M available = %v, want %v", sizeM.Available, tt.sizeM)
			}
		})
	}
}
