package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jwalitptl/wellness-api/internal/model"
)

// Sender delivers transactional mail. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendBookingDecision(to, patientName, practitionerName string, status model.BookingStatus) error
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) SendBookingDecision(to, patientName, practitionerName string, status model.BookingStatus) error {
	var subject, body string
	switch status {
	case model.BookingStatusApproved:
		subject = "Your booking has been approved"
		body = fmt.Sprintf("Hi %s,\n\n%s has approved your booking request. Open the app to see your schedule.\n", patientName, practitionerName)
	case model.BookingStatusRejected:
		subject = "Your booking request was declined"
		body = fmt.Sprintf("Hi %s,\n\n%s was unable to accept your booking request. You can browse other practitioners in the app.\n", patientName, practitionerName)
	default:
		return fmt.Errorf("no mail template for booking status %q", status)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
