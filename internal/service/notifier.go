package service

import (
	"context"

	"clinic-staffing/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Notifier delivers out-of-band messages to staff (ticket decisions,
// initial credentials). Delivery failures are the caller's problem to
// log, never to roll back on.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

type mailNotifier struct {
	cfg config.SMTPConfig
	log *logrus.Logger
}

// NewMailNotifier sends plain-text mail over SMTP.
func NewMailNotifier(cfg config.SMTPConfig, log *logrus.Logger) Notifier {
	return &mailNotifier{cfg: cfg, log: log}
}

func (n *mailNotifier) Notify(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		n.log.Warnf("Failed to send mail to %s: %+v", to, err)
		return err
	}
	return nil
}

type logNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier only logs the notification. Used when SMTP is not
// configured and in tests.
func NewLogNotifier(log *logrus.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(ctx context.Context, to, subject, body string) error {
	n.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("notification (mail disabled)")
	return nil
}
