package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget statuses.
const (
	BudgetStatusActive = "active"
)

// Budget is a user's overall spending budget for a period. A user has at
// most one overall budget row; setting it again replaces the values.
type Budget struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	StartDate time.Time       `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time       `json:"end_date" gorm:"type:date;not null"`
	Status    string          `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName sets the table name.
func (Budget) TableName() string {
	return "budgets"
}
