package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

// TestListProducts_ScanError tests row scanning error
func TestListProducts_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "slug", "name", "description", "price", "image", "category_id", "sizes", "colors", "active"}).
		AddRow("not-a-number", "tee", "Tee", nil, 0, nil, 0, nil, nil, true)
	mock.ExpectQuery("SELECT (.+) FROM products").WillReturnRows(rows)

	if _, err := repo.ListProducts(context.Background(), false); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestGetProduct_BadOptionsJSON tests a corrupt sizes column
func TestGetProduct_BadOptionsJSON(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "slug", "name", "description", "price", "image", "category_id", "sizes", "colors", "active"}).
		AddRow(1, "tee", "Tee", nil, 0, nil, 0, "{not json", nil, true)
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").WillReturnRows(rows)

	if _, err := repo.GetProduct(context.Background(), 1); err == nil {
		t.Error("expected error from bad sizes JSON, got nil")
	}
}

// TestGetStock_VersionError tests a failing version lookup
func TestGetStock_VersionError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM stock_versions").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	if _, err := repo.GetStock(context.Background(), 1); err == nil {
		t.Error("expected query error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestGetStock_QueryError tests a driver failure
func TestGetStock_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM stock_versions").WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM stock_items").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	if _, err := repo.GetStock(context.Background(), 1); err == nil {
		t.Error("expected query error, got nil")
	}
}

// TestGetStock_RowError tests an error surfaced while iterating
func TestGetStock_RowError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"size", "color", "quantity"}).
		AddRow("M", "Red", 1).
		RowError(0, errors.New("row broken"))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM stock_versions").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT (.+) FROM stock_items").WillReturnRows(rows)

	if _, err := repo.GetStock(context.Background(), 1); err == nil {
		t.Error("expected row error, got nil")
	}
}

// TestReplaceStock_RollsBackOnInsertError keeps the old snapshot when an insert fails
func TestReplaceStock_RollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stock_items").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO stock_items").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := repo.ReplaceStock(context.Background(), 7, []models.StockItem{{Size: "M", Color: "Red", Quantity: 1}})
	if err == nil {
		t.Fatal("expected insert error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestReplaceStock_VersionError rolls back when the version cannot be bumped
func TestReplaceStock_VersionError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stock_items").WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO stock_versions").WithArgs(7).WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	if _, err := repo.ReplaceStock(context.Background(), 7, nil); err == nil {
		t.Fatal("expected version error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestReplaceStock_BeginError tests failing to open a transaction
func TestReplaceStock_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	if _, err := repo.ReplaceStock(context.Background(), 7, nil); err == nil {
		t.Error("expected begin error, got nil")
	}
}

// TestReplaceStock_CommitError tests a failing commit
func TestReplaceStock_CommitError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stock_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO stock_versions").WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	if _, err := repo.ReplaceStock(context.Background(), 7, nil); err == nil {
		t.Error("expected commit error, got nil")
	}
}

// TestDeleteCartLine_RowsAffectedError tests a driver that cannot report affected rows
func TestDeleteCartLine_RowsAffectedError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM cart_items").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))

	if err := repo.DeleteCartLine(context.Background(), "c", 1); err == nil {
		t.Error("expected rows affected error, got nil")
	}
}

// TestListPreorders_ScanError tests row scanning error
func TestListPreorders_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "product_id", "customer_id", "email", "guest_id", "created_at"}).
		AddRow("bad-id", 1, nil, nil, "g", "2024-01-01")
	mock.ExpectQuery("SELECT (.+) FROM preorders").WillReturnRows(rows)

	if _, err := repo.ListPreorders(context.Background(), 1); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestGetStoreStats_QueryError tests a failing count query
func TestGetStoreStats_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("no such table"))

	if _, err := repo.GetStoreStats(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

// TestListCartLines_ScanError tests row scanning error
func TestListCartLines_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "cart_id", "product_id", "name", "slug", "size", "color",
		"quantity", "max_quantity", "price", "image", "category_id"}).
		AddRow(1, "c", "bad", nil, nil, "M", "Red", 1, 1, 100, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM cart_items").WillReturnRows(rows)

	if _, err := repo.ListCartLines(context.Background(), "c"); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}
