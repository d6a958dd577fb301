// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/recommender/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"` // Negative for expenses, positive for income
	Type        string          `gorm:"type:varchar(10);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	IsHidden    bool            `gorm:"default:false"` // Replaced by an expanded import, excluded from history
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToRecord converts a TransactionModel to a normalized transaction record.
// Stored amounts are signed (negative for expenses); records carry the magnitude and Type gives the direction.
// Uncategorized transactions fall into the catch-all category.
func (m *TransactionModel) ToRecord() entity.TransactionRecord {
	category := entity.OthersCategory
	if m.Category != nil && m.Category.Name != "" {
		category = m.Category.Name
	}

	return entity.TransactionRecord{
		Amount:      m.Amount.Abs(),
		Category:    category,
		Date:        m.Date,
		Type:        entity.TransactionType(m.Type),
		Description: m.Description,
	}
}
