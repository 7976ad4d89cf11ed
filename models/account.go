package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a money account (checking, savings, cash, ...) whose balance
// is kept consistent with its linked transactions by the ledger service.
// The balance column is only ever mutated with additive SQL expressions.
type Account struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	AccountType string          `json:"account_type" gorm:"size:50;not null"`
	Balance     decimal.Decimal `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	User        User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Account) TableName() string {
	return "accounts"
}
