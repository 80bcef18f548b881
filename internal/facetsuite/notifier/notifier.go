// Package notifier emails the outcome of a suite.
package notifier

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/mail.v2"

	"github.com/G-Research/facetsuite/internal/facetsuite/report"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a single plain-text message.
type Sender interface {
	Send(msg *Message) error
}

type SmtpConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	StartTLS mail.StartTLSPolicy
}

// MailSender sends messages through an SMTP relay.
type MailSender struct {
	dialer *mail.Dialer
}

func NewMailSender(config SmtpConfig) *MailSender {
	d := mail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	d.StartTLSPolicy = config.StartTLS
	return &MailSender{dialer: d}
}

func (s *MailSender) Send(msg *Message) error {
	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "failed to send mail to %s via %s:%d", msg.To, s.dialer.Host, s.dialer.Port)
	}
	return nil
}

// Notifier mails suite reports from a fixed sender address.
type Notifier struct {
	Sender Sender
	From   string
}

func New(sender Sender, from string) *Notifier {
	return &Notifier{
		Sender: sender,
		From:   from,
	}
}

// Message renders the report as an email to the given address.
func (n *Notifier) Message(r *report.SuiteReport, to string) *Message {
	return &Message{
		From:    n.From,
		To:      to,
		Subject: r.Subject(),
		Body:    r.Body(),
	}
}

// Notify emails the report to the given address. It does nothing if to is empty.
// Delivery problems are logged; they never fail the caller, since the report
// itself has already been produced.
func (n *Notifier) Notify(r *report.SuiteReport, to string) bool {
	if to == "" {
		return false
	}
	msg := n.Message(r, to)
	log.Infof("Sending results to %s: %s", to, msg.Subject)
	if err := n.Sender.Send(msg); err != nil {
		log.WithError(err).Errorf("failed to send results of %s", r.Suite)
		return false
	}
	return true
}
