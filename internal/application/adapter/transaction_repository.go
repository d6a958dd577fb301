// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recommender/internal/domain/entity"
)

// HistoryFilter defines which stored transactions feed a recommendation run.
type HistoryFilter struct {
	UserID    uuid.UUID
	StartDate time.Time // inclusive
	EndDate   time.Time // inclusive
}

// TransactionRepository defines read access to a user's normalized transaction history.
type TransactionRepository interface {
	// ListHistory returns the user's transactions in the date range, oldest first.
	ListHistory(ctx context.Context, filter HistoryFilter) ([]entity.TransactionRecord, error)
}
