package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createProduct(t *testing.T, repo *Repository, p models.Product) models.Product {
	t.Helper()
	id, err := repo.CreateProduct(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	p.ID = int(id)
	return p
}

var sampleTee = models.Product{
	Slug: "core-tee", Name: "Core Tee", Description: "Everyday cotton tee", Price: 2500,
	Image: "/img/tee.jpg", CategoryID: 3, Sizes: []string{"S", "M"}, Colors: []string{"Red"}, Active: true,
}

// ==================== Product Tests ====================

func TestProducts_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := createProduct(t, repo, sampleTee)

	got, err := repo.GetProduct(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("GetProduct mismatch (-want +got):\n%s", diff)
	}

	bySlug, err := repo.GetProductBySlug(ctx, "core-tee")
	if err != nil {
		t.Fatalf("GetProductBySlug failed: %v", err)
	}
	if bySlug.ID != want.ID {
		t.Errorf("expected ID %d, got %d", want.ID, bySlug.ID)
	}
}

func TestProducts_EmptyOptionsStayNil(t *testing.T) {
	repo := newTestRepo(t)
	p := createProduct(t, repo, models.Product{Slug: "cap", Name: "Cap", Active: true})

	got, err := repo.GetProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Sizes != nil || got.Colors != nil {
		t.Errorf("expected no declared options, got sizes=%v colors=%v", got.Sizes, got.Colors)
	}
}

func TestProducts_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetProduct(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetProductBySlug(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateProduct(ctx, models.Product{ID: 999, Slug: "x", Name: "x"}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.DeleteProduct(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestProducts_DuplicateSlug(t *testing.T) {
	repo := newTestRepo(t)
	createProduct(t, repo, sampleTee)

	if _, err := repo.CreateProduct(context.Background(), sampleTee); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestProducts_ListAndSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	createProduct(t, repo, sampleTee)
	createProduct(t, repo, models.Product{Slug: "hoodie", Name: "Zip Hoodie", Description: "Warm fleece", Active: true})
	createProduct(t, repo, models.Product{Slug: "old", Name: "Archived Tee", Active: false})

	active, err := repo.ListProducts(ctx, false)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active products, got %d", len(active))
	}

	all, _ := repo.ListProducts(ctx, true)
	if len(all) != 3 {
		t.Errorf("expected 3 products, got %d", len(all))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"tee", []string{"core-tee"}},
		{"FLEECE", []string{"hoodie"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.SearchProducts(ctx, tt.query, 20)
			if err != nil {
				t.Fatalf("SearchProducts failed: %v", err)
			}
			var slugs []string
			for _, p := range found {
				slugs = append(slugs, p.Slug)
			}
			if diff := cmp.Diff(tt.want, slugs); diff != "" {
				t.Errorf("search %q (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestProducts_UpdateAndDeleteCascade(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)

	p.Name = "Core Tee v2"
	p.Colors = nil
	if err := repo.UpdateProduct(ctx, p); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	got, _ := repo.GetProduct(ctx, p.ID)
	if got.Name != "Core Tee v2" || got.Colors != nil {
		t.Errorf("unexpected product after update: %+v", got)
	}

	repo.ReplaceStock(ctx, p.ID, []models.StockItem{{Size: "S", Color: "Red", Quantity: 1}})
	repo.CreatePreorder(ctx, PreorderKey{ProductID: p.ID, GuestID: "g1"})

	if err := repo.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	snap, _ := repo.GetStock(ctx, p.ID)
	if len(snap.Items) != 0 || snap.Version != 0 {
		t.Errorf("expected stock removed with product, got %+v", snap)
	}
	preorders, _ := repo.ListPreorders(ctx, p.ID)
	if len(preorders) != 0 {
		t.Errorf("expected preorders removed with product, got %v", preorders)
	}
}

// ==================== Stock Tests ====================

func TestStock_ReplaceKeepsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)

	first := []models.StockItem{
		{Size: "M", Color: "Red", Quantity: 2},
		{Size: "S", Color: "Red", Quantity: 0},
	}
	if _, err := repo.ReplaceStock(ctx, p.ID, first); err != nil {
		t.Fatalf("ReplaceStock failed: %v", err)
	}
	got, err := repo.GetStock(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if diff := cmp.Diff(first, got.Items); diff != "" {
		t.Errorf("stock mismatch (-want +got):\n%s", diff)
	}

	second := []models.StockItem{{Size: "S", Color: "Red", Quantity: 5}}
	repo.ReplaceStock(ctx, p.ID, second)
	got, _ = repo.GetStock(ctx, p.ID)
	if diff := cmp.Diff(second, got.Items); diff != "" {
		t.Errorf("replacement should drop old rows (-want +got):\n%s", diff)
	}
}

func TestStock_VersionGrowsWithEachReplace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	tee := createProduct(t, repo, sampleTee)
	hat := createProduct(t, repo, models.Product{Slug: "cap", Name: "Cap", Active: true})

	for want := int64(1); want <= 3; want++ {
		version, err := repo.ReplaceStock(ctx, tee.ID, []models.StockItem{{Size: "M", Color: "Red", Quantity: int(want)}})
		if err != nil {
			t.Fatalf("ReplaceStock failed: %v", err)
		}
		if version != want {
			t.Errorf("expected version %d, got %d", want, version)
		}
	}

	got, err := repo.GetStock(ctx, tee.ID)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Version != 3 || got.ProductID != tee.ID {
		t.Errorf("expected version 3 of product %d, got %+v", tee.ID, got)
	}

	// Versions are per product
	version, _ := repo.ReplaceStock(ctx, hat.ID, nil)
	if version != 1 {
		t.Errorf("expected a fresh product to start at version 1, got %d", version)
	}
}

func TestStock_EmptyProduct(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.GetStock(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Items == nil || len(got.Items) != 0 || got.Version != 0 {
		t.Errorf("expected empty unversioned snapshot, got %#v", got)
	}
}

func TestStock_UnknownProductRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		items []models.StockItem
	}{
		{"with rows", []models.StockItem{{Size: "S", Color: "Red", Quantity: 1}}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.ReplaceStock(ctx, 42, tt.items); err == nil {
				t.Error("expected foreign key failure for unknown product")
			}
		})
	}
}

// ==================== Cart Tests ====================

func TestCart_Lines(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)

	line := models.CartLine{
		CartID: "cart-1", ProductID: p.ID, Slug: p.Slug, Size: "M", Color: "Red",
		Quantity: 1, MaxQuantity: 3, Price: 2500, Image: p.Image, CategoryID: 3,
	}
	id, err := repo.InsertCartLine(ctx, line)
	if err != nil {
		t.Fatalf("InsertCartLine failed: %v", err)
	}

	found, err := repo.FindCartLine(ctx, "cart-1", p.ID, "M", "Red")
	if err != nil {
		t.Fatalf("FindCartLine failed: %v", err)
	}
	line.ID = int(id)
	line.ProductName = "Core Tee"
	if diff := cmp.Diff(line, *found); diff != "" {
		t.Errorf("line mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.FindCartLine(ctx, "cart-1", p.ID, "S", "Red"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for other variant, got %v", err)
	}

	if err := repo.UpdateCartLineQuantity(ctx, line.ID, 3, 3); err != nil {
		t.Fatalf("UpdateCartLineQuantity failed: %v", err)
	}
	lines, _ := repo.ListCartLines(ctx, "cart-1")
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %+v", lines)
	}

	if err := repo.DeleteCartLine(ctx, "other-cart", line.ID); err != ErrNotFound {
		t.Errorf("expected lines of another cart to be untouchable, got %v", err)
	}
	if err := repo.DeleteCartLine(ctx, "cart-1", line.ID); err != nil {
		t.Fatalf("DeleteCartLine failed: %v", err)
	}
	lines, _ = repo.ListCartLines(ctx, "cart-1")
	if len(lines) != 0 {
		t.Errorf("expected empty cart, got %+v", lines)
	}
}

func TestCart_InsertMergesSameVariant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)

	line := models.CartLine{CartID: "cart-1", ProductID: p.ID, Size: "M", Color: "Red", Quantity: 2, MaxQuantity: 5, Price: 2500}
	first, err := repo.InsertCartLine(ctx, line)
	if err != nil {
		t.Fatalf("InsertCartLine failed: %v", err)
	}

	// A second insert for the same variant lands on the same row, capped at
	// the new ceiling
	line.Quantity, line.MaxQuantity = 2, 3
	second, err := repo.InsertCartLine(ctx, line)
	if err != nil {
		t.Fatalf("second InsertCartLine failed: %v", err)
	}
	if second != first {
		t.Errorf("expected the existing line %d, got %d", first, second)
	}

	lines, _ := repo.ListCartLines(ctx, "cart-1")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %+v", lines)
	}
	if lines[0].Quantity != 3 || lines[0].MaxQuantity != 3 {
		t.Errorf("expected quantity 3 of 3, got %d of %d", lines[0].Quantity, lines[0].MaxQuantity)
	}

	// Another cart keeps its own line
	line.CartID = "cart-2"
	if id, _ := repo.InsertCartLine(ctx, line); id == first {
		t.Error("expected a separate line for another cart")
	}
}

// ==================== Preorder Tests ====================

func TestPreorders_DuplicateIdentityRejected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)
	customerID, _ := repo.CreateCustomer(ctx, "a@example.com", "hash")

	tests := []struct {
		name  string
		first PreorderKey
		again PreorderKey
	}{
		{"customer", PreorderKey{ProductID: p.ID, CustomerID: int(customerID)}, PreorderKey{ProductID: p.ID, CustomerID: int(customerID)}},
		{"email ignores case", PreorderKey{ProductID: p.ID, Email: "b@example.com"}, PreorderKey{ProductID: p.ID, Email: "B@EXAMPLE.com"}},
		{"guest", PreorderKey{ProductID: p.ID, GuestID: "guest-1"}, PreorderKey{ProductID: p.ID, GuestID: "guest-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.CreatePreorder(ctx, tt.first); err != nil {
				t.Fatalf("CreatePreorder failed: %v", err)
			}
			if _, err := repo.CreatePreorder(ctx, tt.again); err != ErrDuplicate {
				t.Errorf("expected ErrDuplicate, got %v", err)
			}
		})
	}

	all, _ := repo.ListPreorders(ctx, p.ID)
	if len(all) != len(tests) {
		t.Errorf("expected %d memberships, got %d", len(tests), len(all))
	}
}

func TestMigrate_DropsDuplicatesBeforeUniqueIndexes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)

	// Simulate a database created before the unique indexes existed
	for _, stmt := range []string{`DROP INDEX idx_cart_items_variant`, `DROP INDEX idx_preorders_identity`} {
		if _, err := repo.DB().Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	for _, email := range []string{"a@example.com", "A@example.com"} {
		if _, err := repo.DB().Exec(`
			INSERT INTO cart_items (cart_id, product_id, size, color, quantity, max_quantity, price)
			VALUES ('cart-1', ?, 'M', 'Red', 1, 3, 2500)
		`, p.ID); err != nil {
			t.Fatalf("seeding cart line: %v", err)
		}
		if _, err := repo.DB().Exec(`INSERT INTO preorders (product_id, email) VALUES (?, ?)`, p.ID, email); err != nil {
			t.Fatalf("seeding preorder: %v", err)
		}
	}

	if err := repo.migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	lines, _ := repo.ListCartLines(ctx, "cart-1")
	preorders, _ := repo.ListPreorders(ctx, p.ID)
	if len(lines) != 1 || len(preorders) != 1 {
		t.Errorf("expected one cart line and one preorder, got %d and %d", len(lines), len(preorders))
	}
	if len(preorders) == 1 && preorders[0].Email != "a@example.com" {
		t.Errorf("expected the first preorder kept, got %q", preorders[0].Email)
	}
}

func TestPreorders_IdentityKeys(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, repo, sampleTee)
	customerID, err := repo.CreateCustomer(ctx, "a@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	keys := []PreorderKey{
		{ProductID: p.ID, CustomerID: int(customerID)},
		{ProductID: p.ID, Email: "b@example.com"},
		{ProductID: p.ID, GuestID: "guest-1"},
	}
	for _, key := range keys {
		if _, err := repo.CreatePreorder(ctx, key); err != nil {
			t.Fatalf("CreatePreorder(%+v) failed: %v", key, err)
		}
	}

	tests := []struct {
		name string
		key  PreorderKey
		want bool
	}{
		{"customer", PreorderKey{ProductID: p.ID, CustomerID: int(customerID)}, true},
		{"email ignores case", PreorderKey{ProductID: p.ID, Email: "B@Example.com"}, true},
		{"guest", PreorderKey{ProductID: p.ID, GuestID: "guest-1"}, true},
		{"unknown guest", PreorderKey{ProductID: p.ID, GuestID: "guest-2"}, false},
		{"other product", PreorderKey{ProductID: p.ID + 1, GuestID: "guest-1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindPreorder(ctx, tt.key)
			if tt.want && err != nil {
				t.Fatalf("expected membership, got %v", err)
			}
			if !tt.want && err != ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if tt.want && found.ProductID != p.ID {
				t.Errorf("unexpected preorder %+v", found)
			}
		})
	}

	all, _ := repo.ListPreorders(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 preorders, got %d", len(all))
	}
	if all[0].CustomerID == nil || *all[0].CustomerID != int(customerID) || all[0].Email != "" {
		t.Errorf("expected only the customer identity stored, got %+v", all[0])
	}

	if err := repo.DeletePreorder(ctx, all[1].ID); err != nil {
		t.Fatalf("DeletePreorder failed: %v", err)
	}
	if err := repo.DeletePreorder(ctx, all[1].ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

// ==================== Customer Tests ====================

func TestCustomers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateCustomer(ctx, "Shopper@Example.com", "hash")
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if _, err := repo.CreateCustomer(ctx, "shopper@example.com", "other"); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	c, err := repo.GetCustomerByEmail(ctx, "SHOPPER@example.com")
	if err != nil {
		t.Fatalf("GetCustomerByEmail failed: %v", err)
	}
	if c.ID != int(id) || c.Email != "shopper@example.com" || c.PasswordHash != "hash" {
		t.Errorf("unexpected customer %+v", c)
	}
	if c.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}

	if _, err := repo.GetCustomer(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Settings Tests ====================

func TestSettings_Defaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	name, err := repo.GetSetting(ctx, "store_name")
	if err != nil || name != "FitByte" {
		t.Errorf("expected default store name, got %q err=%v", name, err)
	}
	if _, err := repo.GetSetting(ctx, "base_url"); err != ErrNotFound {
		t.Errorf("expected base_url unset, got %v", err)
	}

	repo.SetSetting(ctx, "store_name", "FitByte Outlet")
	name, _ = repo.GetSetting(ctx, "store_name")
	if name != "FitByte Outlet" {
		t.Errorf("expected updated name, got %q", name)
	}
}

func TestSettings_PersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	repo.SetSetting(ctx, "store_name", "Kept")
	repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer repo.Close()

	name, _ := repo.GetSetting(ctx, "store_name")
	if name != "Kept" {
		t.Errorf("expected migrations not to reset settings, got %q", name)
	}
}

// ==================== Stats Tests ====================

func TestGetStoreStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tee := createProduct(t, repo, sampleTee)
	createProduct(t, repo, models.Product{Slug: "cap", Name: "Cap", Active: true})
	repo.ReplaceStock(ctx, tee.ID, []models.StockItem{{Size: "M", Color: "Red", Quantity: 4}})
	repo.CreatePreorder(ctx, PreorderKey{ProductID: tee.ID, GuestID: "g"})
	repo.InsertCartLine(ctx, models.CartLine{CartID: "c1", ProductID: tee.ID, Size: "M", Color: "Red", Quantity: 1, MaxQuantity: 4})

	stats, err := repo.GetStoreStats(ctx)
	if err != nil {
		t.Fatalf("GetStoreStats failed: %v", err)
	}
	want := map[string]interface{}{
		"total_products":    2,
		"total_units":       4,
		"sold_out_products": 1,
		"total_preorders":   1,
		"total_customers":   0,
		"open_carts":        1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestClearTable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	createProduct(t, repo, sampleTee)

	if err := repo.ClearTable(ctx, "settings; DROP TABLE products"); err != ErrInvalidTable {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}
	if err := repo.ClearTable(ctx, "products"); err != nil {
		t.Fatalf("ClearTable failed: %v", err)
	}
	all, _ := repo.ListProducts(ctx, true)
	if len(all) != 0 {
		t.Errorf("expected no products, got %d", len(all))
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if repo.DB() == nil {
		t.Error("expected DB handle")
	}
}
