package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses.
const (
	BillStatusUnpaid = "unpaid"
	BillStatusPaid   = "paid"
)

// Bill is a recurring payment obligation with a due date. ReminderSent is
// flipped by the reminder service so a bill is only reminded once.
type Bill struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UserID       uint            `json:"user_id" gorm:"index;not null"`
	BillName     string          `json:"bill_name" gorm:"size:100;not null"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	DueDate      time.Time       `json:"due_date" gorm:"type:date;not null"`
	Status       string          `json:"status" gorm:"size:20;not null;default:unpaid"`
	ReminderSent bool            `json:"reminder_sent" gorm:"not null;default:false"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	User         User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Bill) TableName() string {
	return "bills"
}
