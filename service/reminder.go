package service

import (
	"context"
	"fmt"
	"time"

	"budgetbuddy/config"
	"budgetbuddy/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BillReminderSender sends a due-bill notification to one recipient.
type BillReminderSender interface {
	SendBillReminder(toEmail, name string, bill models.Bill) error
}

// ReminderService periodically finds unpaid bills that are due soon and
// notifies their owners once.
type ReminderService struct {
	db     *gorm.DB
	sender BillReminderSender
	cfg    *config.ReminderConfig
}

// NewReminderService creates a reminder service.
func NewReminderService(db *gorm.DB, sender BillReminderSender, cfg *config.ReminderConfig) *ReminderService {
	return &ReminderService{db: db, sender: sender, cfg: cfg}
}

// Run blocks, checking for due bills on each tick until the context is
// cancelled. Intended to run in its own goroutine.
func (s *ReminderService) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.CheckIntervalMinutes) * time.Minute
	logrus.Infof("bill reminder service started, checking every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logrus.Info("bill reminder service stopped")
			return
		case <-ticker.C:
			if err := s.CheckDueBills(); err != nil {
				logrus.WithError(err).Error("bill reminder check failed")
			}
		}
	}
}

// dueBill joins a bill with its owner's contact details.
type dueBill struct {
	models.Bill
	Email string
	Name  string
}

// CheckDueBills sends a reminder for every unpaid, un-reminded bill due
// within the configured window and marks it as reminded. One failed send
// does not block the rest.
func (s *ReminderService) CheckDueBills() error {
	cutoff := time.Now().AddDate(0, 0, s.cfg.DueSoonDays)

	var due []dueBill
	if err := s.db.Model(&models.Bill{}).
		Select("bills.*, users.email AS email, users.name AS name").
		Joins("JOIN users ON users.id = bills.user_id").
		Where("bills.status = ? AND bills.reminder_sent = ? AND bills.due_date <= ?",
			models.BillStatusUnpaid, false, cutoff).
		Scan(&due).Error; err != nil {
		return fmt.Errorf("query due bills: %w", err)
	}

	for _, d := range due {
		if err := s.sender.SendBillReminder(d.Email, d.Name, d.Bill); err != nil {
			logrus.WithError(err).WithField("bill_id", d.Bill.ID).Warn("bill reminder send failed")
			continue
		}
		if err := s.db.Model(&models.Bill{}).
			Where("id = ?", d.Bill.ID).
			Update("reminder_sent", true).Error; err != nil {
			logrus.WithError(err).WithField("bill_id", d.Bill.ID).Warn("mark reminder_sent failed")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"bill_id": d.Bill.ID,
			"user_id": d.Bill.UserID,
		}).Info("bill reminder sent")
	}
	return nil
}
