package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; :memory: also needs it so
	// every query sees the same database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price INTEGER NOT NULL DEFAULT 0,
			image TEXT,
			category_id INTEGER NOT NULL DEFAULT 0,
			sizes TEXT,
			colors TEXT,
			active BOOLEAN DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS stock_items (
			product_id INTEGER NOT NULL,
			size TEXT NOT NULL,
			color TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS stock_versions (
			product_id INTEGER PRIMARY KEY,
			version INTEGER NOT NULL,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cart_id TEXT NOT NULL,
			product_id INTEGER NOT NULL,
			size TEXT NOT NULL,
			color TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			max_quantity INTEGER NOT NULL,
			price INTEGER NOT NULL,
			image TEXT,
			slug TEXT,
			category_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS preorders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL,
			customer_id INTEGER,
			email TEXT,
			guest_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
			FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_product ON stock_items(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)`,
		`CREATE INDEX IF NOT EXISTS idx_preorders_product ON preorders(product_id)`,
		// Older databases may hold duplicates; keep the first row of each
		`DELETE FROM cart_items WHERE id NOT IN (
			SELECT MIN(id) FROM cart_items GROUP BY cart_id, product_id, size, color
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_variant
			ON cart_items(cart_id, product_id, size, color)`,
		`DELETE FROM preorders WHERE id NOT IN (
			SELECT MIN(id) FROM preorders
			GROUP BY product_id, IFNULL(customer_id, 0), LOWER(IFNULL(email, '')), IFNULL(guest_id, '')
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_preorders_identity
			ON preorders(product_id, IFNULL(customer_id, 0), LOWER(IFNULL(email, '')), IFNULL(guest_id, ''))`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// base_url is left unset here; the app fills it with the detected address
	defaultSettings := map[string]string{
		"store_name":    "FitByte",
		"checkout_path": "/checkout",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return stderrors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// ==================== Product Methods ====================

const productColumns = `id, slug, name, description, price, image, category_id, sizes, colors, active`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var description, image, sizes, colors sql.NullString
	if err := row.Scan(&p.ID, &p.Slug, &p.Name, &description, &p.Price, &image, &p.CategoryID,
		&sizes, &colors, &p.Active); err != nil {
		return p, err
	}
	p.Description = description.String
	p.Image = image.String
	if sizes.Valid && sizes.String != "" {
		if err := json.Unmarshal([]byte(sizes.String), &p.Sizes); err != nil {
			return p, err
		}
	}
	if colors.Valid && colors.String != "" {
		if err := json.Unmarshal([]byte(colors.String), &p.Colors); err != nil {
			return p, err
		}
	}
	return p, nil
}

// encodeOptions stores an option list as JSON. An empty list is NULL, meaning
// the options come from stock.
func encodeOptions(values []string) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProducts returns products ordered by name, only active ones unless all is set
func (r *Repository) ListProducts(ctx context.Context, all bool) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !all {
		query += ` WHERE active = 1`
	}
	return r.queryProducts(ctx, query+` ORDER BY name`)
}

// SearchProducts finds active products whose name or description contains query
func (r *Repository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE active = 1 AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
		ORDER BY name LIMIT ?
	`, pattern, pattern, limit)
}

// GetProduct retrieves a product by ID
func (r *Repository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductBySlug retrieves a product by slug
func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product and returns its ID
func (r *Repository) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	sizes, err := encodeOptions(p.Sizes)
	if err != nil {
		return 0, err
	}
	colors, err := encodeOptions(p.Colors)
	if err != nil {
		return 0, err
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO products (slug, name, description, price, image, category_id, sizes, colors, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Slug, p.Name, p.Description, p.Price, p.Image, p.CategoryID, sizes, colors, p.Active)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateProduct updates every field of a product
func (r *Repository) UpdateProduct(ctx context.Context, p models.Product) error {
	sizes, err := encodeOptions(p.Sizes)
	if err != nil {
		return err
	}
	colors, err := encodeOptions(p.Colors)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET slug = ?, name = ?, description = ?, price = ?, image = ?,
		       category_id = ?, sizes = ?, colors = ?, active = ?
		WHERE id = ?
	`, p.Slug, p.Name, p.Description, p.Price, p.Image, p.CategoryID, sizes, colors, p.Active, p.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return requireRow(result, err)
}

// DeleteProduct deletes a product with its stock, cart lines and preorders
func (r *Repository) DeleteProduct(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return requireRow(result, err)
}

// requireRow turns "no rows affected" into ErrNotFound
func requireRow(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Stock Methods ====================

// GetStock returns a product's stock rows in the order they were stored,
// together with the version of that snapshot. Both are read in one
// transaction so a concurrent replacement cannot split them.
func (r *Repository) GetStock(ctx context.Context, productID int) (models.StockSnapshot, error) {
	snapshot := models.StockSnapshot{ProductID: productID, Items: []models.StockItem{}}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return snapshot, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `SELECT version FROM stock_versions WHERE product_id = ?`, productID).
		Scan(&snapshot.Version)
	if err != nil && err != sql.ErrNoRows {
		return snapshot, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT size, color, quantity FROM stock_items
		WHERE product_id = ?
		ORDER BY position
	`, productID)
	if err != nil {
		return snapshot, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.StockItem
		if err := rows.Scan(&item.Size, &item.Color, &item.Quantity); err != nil {
			return snapshot, err
		}
		snapshot.Items = append(snapshot.Items, item)
	}
	if err := rows.Err(); err != nil {
		return snapshot, err
	}
	return snapshot, tx.Commit()
}

// ReplaceStock swaps a product's whole stock snapshot in one transaction and
// returns the snapshot's new version
func (r *Repository) ReplaceStock(ctx context.Context, productID int, items []models.StockItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_items WHERE product_id = ?`, productID); err != nil {
		return 0, err
	}
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_items (product_id, size, color, quantity, position)
			VALUES (?, ?, ?, ?, ?)
		`, productID, item.Size, item.Color, item.Quantity, i); err != nil {
			return 0, err
		}
	}

	var version int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO stock_versions (product_id, version) VALUES (?, 1)
		ON CONFLICT(product_id) DO UPDATE SET version = version + 1
		RETURNING version
	`, productID).Scan(&version); err != nil {
		return 0, err
	}
	return version, tx.Commit()
}

// ==================== Cart Methods ====================

const cartColumns = `ci.id, ci.cart_id, ci.product_id, p.name, ci.slug, ci.size, ci.color,
	ci.quantity, ci.max_quantity, ci.price, ci.image, ci.category_id`

func scanCartLine(row rowScanner) (models.CartLine, error) {
	var line models.CartLine
	var name, slug, image sql.NullString
	var categoryID sql.NullInt64
	err := row.Scan(&line.ID, &line.CartID, &line.ProductID, &name, &slug, &line.Size, &line.Color,
		&line.Quantity, &line.MaxQuantity, &line.Price, &image, &categoryID)
	line.ProductName = name.String
	line.Slug = slug.String
	line.Image = image.String
	line.CategoryID = int(categoryID.Int64)
	return line, err
}

// ListCartLines returns the lines of a cart in insertion order
func (r *Repository) ListCartLines(ctx context.Context, cartID string) ([]models.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items ci
		LEFT JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ?
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// FindCartLine returns the line for a variant in a cart
func (r *Repository) FindCartLine(ctx context.Context, cartID string, productID int, size, color string) (*models.CartLine, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items ci
		LEFT JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ? AND ci.product_id = ? AND ci.size = ? AND ci.color = ?
	`, cartID, productID, size, color)
	line, err := scanCartLine(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// InsertCartLine adds a line to a cart. When the cart already holds the
// variant the quantities are merged, capped at the new line's MaxQuantity.
func (r *Repository) InsertCartLine(ctx context.Context, line models.CartLine) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, size, color, quantity, max_quantity, price, image, slug, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cart_id, product_id, size, color) DO UPDATE SET
			quantity = MIN(cart_items.quantity + excluded.quantity, excluded.max_quantity),
			max_quantity = excluded.max_quantity
		RETURNING id
	`, line.CartID, line.ProductID, line.Size, line.Color, line.Quantity, line.MaxQuantity,
		line.Price, line.Image, line.Slug, line.CategoryID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateCartLineQuantity sets the quantity and stock ceiling of a line
func (r *Repository) UpdateCartLineQuantity(ctx context.Context, id, quantity, maxQuantity int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = ?, max_quantity = ? WHERE id = ?
	`, quantity, maxQuantity, id)
	return requireRow(result, err)
}

// DeleteCartLine removes a line that belongs to cartID
func (r *Repository) DeleteCartLine(ctx context.Context, cartID string, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ? AND cart_id = ?`, id, cartID)
	return requireRow(result, err)
}

// ==================== Preorder Methods ====================

// PreorderKey identifies a waitlist membership. Exactly one of CustomerID,
// Email and GuestID is used, in that order of precedence.
type PreorderKey struct {
	ProductID  int
	CustomerID int
	Email      string
	GuestID    string
}

func (k PreorderKey) where() (string, interface{}) {
	switch {
	case k.CustomerID != 0:
		return "customer_id = ?", k.CustomerID
	case k.Email != "":
		return "LOWER(email) = LOWER(?)", k.Email
	default:
		return "guest_id = ?", k.GuestID
	}
}

func scanPreorder(row rowScanner) (models.Preorder, error) {
	var p models.Preorder
	var customerID sql.NullInt64
	var email, guestID sql.NullString
	err := row.Scan(&p.ID, &p.ProductID, &customerID, &email, &guestID, &p.CreatedAt)
	if customerID.Valid {
		id := int(customerID.Int64)
		p.CustomerID = &id
	}
	p.Email = email.String
	p.GuestID = guestID.String
	return p, err
}

// FindPreorder returns the membership for key
func (r *Repository) FindPreorder(ctx context.Context, key PreorderKey) (*models.Preorder, error) {
	cond, arg := key.where()
	row := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, customer_id, email, guest_id, created_at
		FROM preorders WHERE product_id = ? AND `+cond+`
		ORDER BY id LIMIT 1
	`, key.ProductID, arg)
	p, err := scanPreorder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePreorder records a membership for key. An existing membership for the
// same identity returns ErrDuplicate.
func (r *Repository) CreatePreorder(ctx context.Context, key PreorderKey) (int64, error) {
	var customerID, email, guestID interface{}
	switch {
	case key.CustomerID != 0:
		customerID = key.CustomerID
	case key.Email != "":
		email = key.Email
	default:
		guestID = key.GuestID
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO preorders (product_id, customer_id, email, guest_id) VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, key.ProductID, customerID, email, guestID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrDuplicate
	}
	return result.LastInsertId()
}

// DeletePreorder removes a membership by ID
func (r *Repository) DeletePreorder(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM preorders WHERE id = ?`, id)
	return requireRow(result, err)
}

// ListPreorders returns the memberships of a product, or of every product when productID is 0
func (r *Repository) ListPreorders(ctx context.Context, productID int) ([]models.Preorder, error) {
	query := `SELECT id, product_id, customer_id, email, guest_id, created_at FROM preorders`
	var args []interface{}
	if productID != 0 {
		query += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preorders := []models.Preorder{}
	for rows.Next() {
		p, err := scanPreorder(rows)
		if err != nil {
			return nil, err
		}
		preorders = append(preorders, p)
	}
	return preorders, rows.Err()
}

// ==================== Customer Methods ====================

// CreateCustomer registers a customer. A taken email returns ErrDuplicate.
func (r *Repository) CreateCustomer(ctx context.Context, email, passwordHash string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (email, password_hash) VALUES (LOWER(?), ?)
	`, email, passwordHash)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *Repository) getCustomer(ctx context.Context, where string, arg interface{}) (*models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM customers WHERE `+where,
		arg).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCustomer retrieves a customer by ID
func (r *Repository) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return r.getCustomer(ctx, "id = ?", id)
}

// GetCustomerByEmail retrieves a customer by email, ignoring case
func (r *Repository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.getCustomer(ctx, "email = LOWER(?)", email)
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Stats Methods ====================

// GetStoreStats returns counts for the admin dashboard
func (r *Repository) GetStoreStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := []struct {
		key   string
		query string
	}{
		{"total_products", `SELECT COUNT(*) FROM products WHERE active = 1`},
		{"total_units", `SELECT COALESCE(SUM(quantity), 0) FROM stock_items`},
		{"sold_out_products", `
			SELECT COUNT(*) FROM products p
			WHERE p.active = 1 AND COALESCE((SELECT SUM(quantity) FROM stock_items s WHERE s.product_id = p.id), 0) = 0`},
		{"total_preorders", `SELECT COUNT(*) FROM preorders`},
		{"total_customers", `SELECT COUNT(*) FROM customers`},
		{"open_carts", `SELECT COUNT(DISTINCT cart_id) FROM cart_items`},
	}
	for _, c := range counts {
		var n int
		if err := r.db.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
			return nil, err
		}
		stats[c.key] = n
	}
	return stats, nil
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"cart_items": true, "preorders": true, "stock_items": true, "products": true, "customers": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
