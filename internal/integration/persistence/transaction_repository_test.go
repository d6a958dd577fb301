package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	"github.com/finance-tracker/recommender/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	if err := db.AutoMigrate(&model.CategoryModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedTransaction(t *testing.T, db *gorm.DB, userID uuid.UUID, categoryID *uuid.UUID, amount, date, txType string) *model.TransactionModel {
	t.Helper()

	tx := &model.TransactionModel{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        day(date),
		Description: "seed",
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
	return tx
}

func TestTransactionRepository_ListHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)

	userID := uuid.New()
	otherUserID := uuid.New()

	food := model.CategoryModel{ID: uuid.New(), Name: "Food & Dining", OwnerID: userID, Type: "expense", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	removed := model.CategoryModel{ID: uuid.New(), Name: "Gadgets", OwnerID: userID, Type: "expense", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	if err := db.Create(&removed).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	if err := db.Delete(&removed).Error; err != nil {
		t.Fatalf("failed to soft-delete category: %v", err)
	}

	seedTransaction(t, db, userID, &food.ID, "-45.50", "2024-03-10", "expense")
	seedTransaction(t, db, userID, nil, "3000", "2024-03-01", "income")
	seedTransaction(t, db, userID, &removed.ID, "-120", "2024-03-31", "expense")
	seedTransaction(t, db, userID, &food.ID, "-10", "2024-01-31", "expense") // before range
	seedTransaction(t, db, userID, &food.ID, "-10", "2024-04-01", "expense") // after range
	seedTransaction(t, db, otherUserID, &food.ID, "-999", "2024-03-15", "expense")

	hidden := seedTransaction(t, db, userID, &food.ID, "-500", "2024-03-20", "expense")
	if err := db.Model(hidden).Update("is_hidden", true).Error; err != nil {
		t.Fatalf("failed to hide transaction: %v", err)
	}
	deleted := seedTransaction(t, db, userID, &food.ID, "-77", "2024-03-21", "expense")
	if err := db.Delete(deleted).Error; err != nil {
		t.Fatalf("failed to soft-delete transaction: %v", err)
	}

	records, err := repo.ListHistory(context.Background(), adapter.HistoryFilter{
		UserID:    userID,
		StartDate: day("2024-02-01"),
		EndDate:   day("2024-03-31"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		category string
		amount   string
		txType   entity.TransactionType
	}{
		{entity.OthersCategory, "3000", entity.TransactionTypeIncome},
		{"Food & Dining", "45.5", entity.TransactionTypeExpense},
		{entity.OthersCategory, "120", entity.TransactionTypeExpense},
	}

	if len(records) != len(expected) {
		t.Fatalf("expected %d records, got %d: %+v", len(expected), len(records), records)
	}
	for i, want := range expected {
		got := records[i]
		if got.Category != want.category {
			t.Errorf("record %d: expected category %q, got %q", i, want.category, got.Category)
		}
		if !got.Amount.Equal(decimal.RequireFromString(want.amount)) {
			t.Errorf("record %d: expected amount %s, got %s", i, want.amount, got.Amount)
		}
		if got.Type != want.txType {
			t.Errorf("record %d: expected type %s, got %s", i, want.txType, got.Type)
		}
		if err := got.Validate(); err != nil {
			t.Errorf("record %d: expected a valid record, got %v", i, err)
		}
	}
}

func TestTransactionRepository_ListHistory_Empty(t *testing.T) {
	repo := NewTransactionRepository(newTestDB(t))

	records, err := repo.ListHistory(context.Background(), adapter.HistoryFilter{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
