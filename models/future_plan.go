package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FuturePlan is a savings plan whose monthly figure was computed by the ML
// service's reverse planner when the plan was created.
type FuturePlan struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         uint            `json:"user_id" gorm:"index;not null"`
	GoalName       string          `json:"goal_name" gorm:"size:100;not null"`
	TargetAmount   decimal.Decimal `json:"target_amount" gorm:"type:decimal(12,2);not null"`
	CurrentSavings decimal.Decimal `json:"current_savings" gorm:"type:decimal(12,2);not null;default:0"`
	TargetDate     time.Time       `json:"target_date" gorm:"type:date;not null"`
	MonthlySavings decimal.Decimal `json:"monthly_savings" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName sets the table name.
func (FuturePlan) TableName() string {
	return "future_plans"
}
