// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	"github.com/finance-tracker/recommender/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// ListHistory returns the user's visible transactions in the date range, oldest first.
func (r *transactionRepository) ListHistory(ctx context.Context, filter adapter.HistoryFilter) ([]entity.TransactionRecord, error) {
	var transactionModels []model.TransactionModel

	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", filter.UserID).
		Where("is_hidden = ?", false)

	if !filter.StartDate.IsZero() {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		// EndDate is inclusive of the whole day
		query = query.Where("date < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	result := query.Order("date ASC, created_at ASC").Find(&transactionModels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list transaction history: %w", result.Error)
	}

	records := make([]entity.TransactionRecord, len(transactionModels))
	for i := range transactionModels {
		records[i] = transactionModels[i].ToRecord()
	}
	return records, nil
}
