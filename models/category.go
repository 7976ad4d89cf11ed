package models

import (
	"time"
)

// Category is a transaction label. Rows with a nil UserID are global
// defaults visible to every user; rows with a UserID belong to that user.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Type      string    `json:"type" gorm:"size:10;not null"` // income or expense
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the global seed categories.
func DefaultCategories() []Category {
	names := []struct {
		Name string
		Type string
	}{
		{"Food", TransactionTypeExpense},
		{"Transport", TransactionTypeExpense},
		{"Shopping", TransactionTypeExpense},
		{"Entertainment", TransactionTypeExpense},
		{"Housing", TransactionTypeExpense},
		{"Medical", TransactionTypeExpense},
		{"Salary", TransactionTypeIncome},
		{"Bonus", TransactionTypeIncome},
		{"Other", TransactionTypeExpense},
	}
	cats := make([]Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, Category{Name: n.Name, Type: n.Type})
	}
	return cats
}
