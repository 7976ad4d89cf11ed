package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is a single income or expense entry. AccountID is nullable:
// a transaction may be unlinked from any account, in which case it has no
// effect on any balance.
type Transaction struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	AccountID *uint           `json:"account_id" gorm:"index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category  string          `json:"category" gorm:"size:50;not null"`
	Type      string          `json:"type" gorm:"size:10;not null"`
	Date      time.Time       `json:"date" gorm:"type:date;not null"`
	Note      string          `json:"note" gorm:"size:255"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	User      User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType reports whether t is a known transaction type.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// SignedAmount returns the amount with the sign implied by the type:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
