// Package entity defines the core business entities for the domain layer.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
)

// TransactionType represents the type of a transaction record.
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
)

// OthersCategory is the category assigned to records without a label.
const OthersCategory = "Others"

// IsValid reports whether the transaction type is known.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionRecord is one normalized financial event consumed by the pipeline.
// Records are owned by the caller and never mutated by the pipeline.
type TransactionRecord struct {
	Amount      decimal.Decimal // Positive for expenses
	Category    string
	Date        time.Time
	Type        TransactionType // Empty means expense
	Description string
}

// IsExpense reports whether the record counts as spending.
func (r TransactionRecord) IsExpense() bool {
	return r.Type == "" || r.Type == TransactionTypeExpense
}

// CategoryName returns the trimmed category label, or OthersCategory when blank.
func (r TransactionRecord) CategoryName() string {
	name := strings.TrimSpace(r.Category)
	if name == "" {
		return OthersCategory
	}
	return name
}

// Validate checks a record against the pipeline's sign and date conventions.
func (r TransactionRecord) Validate() error {
	if r.Type != "" && !r.Type.IsValid() {
		return domainerror.NewInvalidInputError(
			domainerror.ErrCodeInvalidTransactionType,
			fmt.Sprintf("transaction type %q is not valid", r.Type),
		)
	}
	if r.Amount.IsNegative() {
		return domainerror.NewInvalidInputError(
			domainerror.ErrCodeNegativeAmount,
			fmt.Sprintf("transaction amount must not be negative, got %s", r.Amount.String()),
		)
	}
	if r.Date.IsZero() {
		return domainerror.NewInvalidInputError(
			domainerror.ErrCodeInvalidTransactionDate,
			"transaction date is required",
		)
	}
	return nil
}

// ValidateRecords validates every record, reporting the index of the first invalid one.
func ValidateRecords(records []TransactionRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			var recErr *domainerror.RecommendationError
			if errors.As(err, &recErr) {
				recErr.Message = fmt.Sprintf("transactions[%d]: %s", i, recErr.Message)
			}
			return err
		}
	}
	return nil
}

// Expenses returns the expense records in their original order.
func Expenses(records []TransactionRecord) []TransactionRecord {
	expenses := make([]TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.IsExpense() {
			expenses = append(expenses, r)
		}
	}
	return expenses
}
