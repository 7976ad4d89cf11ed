package service

import (
	"fmt"

	"budgetbuddy/config"
	"budgetbuddy/models"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendBillReminder mails the owner about an upcoming bill.
func (s *EmailService) SendBillReminder(toEmail, name string, bill models.Bill) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is disabled, set email.enabled=true")
	}

	subject := fmt.Sprintf("[BudgetBuddy] Bill due soon: %s", bill.BillName)
	body := s.billReminderBody(name, bill)

	return s.sendEmail(toEmail, subject, body)
}

func (s *EmailService) billReminderBody(name string, bill models.Bill) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 24px;">
    <h2 style="color: #2563eb;">BudgetBuddy</h2>
    <p>Hi %s,</p>
    <p>Your bill <strong>%s</strong> of <strong>%s</strong> is due on
       <strong>%s</strong>.</p>
    <p>Log in to mark it as paid once you've taken care of it.</p>
    <p style="color: #6c757d; font-size: 12px;">This is an automated
       reminder, please do not reply.</p>
  </div>
</body>
</html>
`, name, bill.BillName, bill.Amount.StringFixed(2), bill.DueDate.Format("2006-01-02"))
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
